package psbtx

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnet3/sp-wallet/spbip352"
)

// inputScriptPubKey computes the taproot output script an owned input
// would actually carry on-chain: the P2TR script for spendPriv+tweak's
// public key, exactly as a real silent-payment receive would produce.
func inputScriptPubKey(t *testing.T, spendPriv *btcec.PrivateKey, tweak [32]byte, params *chaincfg.Params) []byte {
	t.Helper()
	var tweakScalar btcec.ModNScalar
	tweakScalar.SetBytes(&tweak)
	sum := new(btcec.ModNScalar).Set(&spendPriv.Key).Add(&tweakScalar)
	signingKey := btcec.PrivKeyFromBytes(sum.Bytes()[:])
	script, err := p2trScriptFromXOnly(signingKey.PubKey(), params)
	require.NoError(t, err)
	return script
}

// TestFillSpOutputsMultiOutputDistribution covers spec scenario S3: a
// single recipient requesting multiple outputs receives that many
// distinct, correctly ordered output keys.
func TestFillSpOutputsMultiOutputDistribution(t *testing.T) {
	params := &chaincfg.MainNetParams
	spendPriv := testPriv(0x30)
	tweak := [32]byte{0x07}

	receiver := testReceiver()
	recipientAddr, err := receiver.ReceivingAddress()
	require.NoError(t, err)

	input := Input{
		Outpoint:     wire.OutPoint{Hash: [32]byte{0xbb}, Index: 1},
		AmountSat:    200_000,
		ScriptPubKey: inputScriptPubKey(t, spendPriv, tweak, params),
		Tweak:        tweak,
	}
	recipients := []Recipient{{Address: recipientAddr, AmountSat: 50_000, NbOutputs: 2}}

	p, err := CreateNewPsbt([]Input{input}, recipients, receiver, params)
	require.NoError(t, err)
	require.NoError(t, FillSpOutputs(p, spendPriv, params))

	script0 := p.UnsignedTx.TxOut[0].PkScript
	script1 := p.UnsignedTx.TxOut[1].PkScript
	assert.NotEmpty(t, script0)
	assert.NotEmpty(t, script1)
	assert.NotEqual(t, script0, script1, "distinct output slots for the same recipient must get distinct output keys")

	numsScript, err := p2trScriptFromXOnly(spbip352.NUMSPlaceholder(), params)
	require.NoError(t, err)
	assert.NotEqual(t, numsScript, script0, "expected placeholder NUMS script to be overwritten")
}

func TestFillSpOutputsWatchOnlyRejected(t *testing.T) {
	params := &chaincfg.MainNetParams
	receiver := testReceiver()
	recipientAddr, err := receiver.ReceivingAddress()
	require.NoError(t, err)
	input := Input{
		Outpoint:     wire.OutPoint{Hash: [32]byte{0xcc}, Index: 0},
		AmountSat:    100_000,
		ScriptPubKey: []byte{0x51, 0x20},
		Tweak:        [32]byte{0x01},
	}
	p, err := CreateNewPsbt([]Input{input}, []Recipient{{Address: recipientAddr, AmountSat: 50_000, NbOutputs: 1}}, receiver, params)
	require.NoError(t, err)
	assert.Error(t, FillSpOutputs(p, nil, params), "expected watch-only rejection")
}
