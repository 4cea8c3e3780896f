package spbip352

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priv(t *testing.T, b byte) *btcec.PrivateKey {
	t.Helper()
	buf := bytes.Repeat([]byte{b}, 32)
	return btcec.PrivKeyFromBytes(buf)
}

func outpoint(t *testing.T, txidHex string, vout uint32) SerializedOutpoint {
	t.Helper()
	var out SerializedOutpoint
	txid, err := hex.DecodeString(txidHex)
	require.NoError(t, err)
	copy(out[:32], txid)
	out[32] = byte(vout)
	return out
}

// TestPartialSecretDeterministic covers Testable Property 5: the same
// inputs and outpoints always yield the same partial secret, and
// hence the same derived output keys (ECDH is deterministic).
func TestPartialSecretDeterministic(t *testing.T) {
	inputs := []InputKey{{PrivKey: priv(t, 0x02), IsTaproot: true}}
	outpoints := []SerializedOutpoint{outpoint(t, "aa00000000000000000000000000000000000000000000000000000000aa", 0)}

	first, err := PartialSecret(inputs, outpoints)
	require.NoError(t, err)
	second, err := PartialSecret(inputs, outpoints)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key, "partial secret not deterministic")
}

// TestGenerateRecipientPubkeysMultiOutput covers Testable Property 6:
// when k slots reference the same address, the derived keys are the
// first k BIP-352 output keys for that recipient, in order, and two
// independent calls agree.
func TestGenerateRecipientPubkeysMultiOutput(t *testing.T) {
	recipientScan := priv(t, 0x03)
	recipientSpend := priv(t, 0x04)
	addr := &Address{ScanPub: recipientScan.PubKey(), SpendPub: recipientSpend.PubKey()}

	inputs := []InputKey{{PrivKey: priv(t, 0x02), IsTaproot: true}}
	outpoints := []SerializedOutpoint{outpoint(t, "aa00000000000000000000000000000000000000000000000000000000aa", 0)}

	partial, err := PartialSecret(inputs, outpoints)
	require.NoError(t, err)

	keys, err := GenerateRecipientPubkeys(partial, []RecipientCount{{Address: addr, Count: 3}})
	require.NoError(t, err)

	addrStr, err := addr.Encode()
	require.NoError(t, err)
	got := keys[addrStr]
	require.Len(t, got, 3)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			assert.False(t, got[i].IsEqual(got[j]), "output keys %d and %d must be distinct", i, j)
		}
	}

	// A second, independent derivation with a fresh single-count
	// request for output 0 must reproduce the same first key.
	single, err := GenerateRecipientPubkeys(partial, []RecipientCount{{Address: addr, Count: 1}})
	require.NoError(t, err)
	assert.True(t, single[addrStr][0].IsEqual(got[0]), "first output key not stable across calls")
}

func TestSmallestOutpointOrdering(t *testing.T) {
	a := outpoint(t, "0000000000000000000000000000000000000000000000000000000000aa", 0)
	b := outpoint(t, "00000000000000000000000000000000000000000000000000000000000bb"[:64], 0)

	smallest, err := SmallestOutpoint([]SerializedOutpoint{b, a})
	require.NoError(t, err)
	assert.Equal(t, a, smallest, "expected lexicographically smallest outpoint a to win")
}
