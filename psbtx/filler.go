package psbtx

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/cygnet3/sp-wallet/spbip352"
	"github.com/cygnet3/sp-wallet/sperrors"
)

// FillSpOutputs reconstructs each input's signing key from spend_priv
// plus its proprietary tweak record, computes the sender-side partial
// secret over all inputs, derives the owed x-only output keys for
// every silent-payment recipient slot, and rewrites their placeholder
// script pubkeys in place.
func FillSpOutputs(p *psbt.Packet, spendPriv *btcec.PrivateKey, params *chaincfg.Params) error {
	if spendPriv == nil {
		return sperrors.ErrWatchOnly
	}

	inputKeys := make([]spbip352.InputKey, len(p.Inputs))
	outpoints := make([]spbip352.SerializedOutpoint, len(p.Inputs))
	for i, in := range p.Inputs {
		tweak, ok, err := findTweak(in.Unknowns)
		if err != nil {
			return fmt.Errorf("%w: input %d: %s", sperrors.ErrInvalidTweak, i, err)
		}
		if !ok {
			return fmt.Errorf("%w: input %d has no tweak record", sperrors.ErrInvalidTweak, i)
		}

		var tweakScalar btcec.ModNScalar
		if overflow := tweakScalar.SetBytes(&tweak); overflow != 0 {
			return fmt.Errorf("%w: input %d scalar out of range", sperrors.ErrInvalidTweak, i)
		}

		sum := new(btcec.ModNScalar).Set(&spendPriv.Key).Add(&tweakScalar)
		inputKeys[i] = spbip352.InputKey{
			PrivKey:   btcec.PrivKeyFromBytes(sum.Bytes()[:]),
			IsTaproot: true,
		}

		op := p.UnsignedTx.TxIn[i].PreviousOutPoint
		var serialized spbip352.SerializedOutpoint
		copy(serialized[:32], op.Hash[:])
		putUint32LE(serialized[32:], op.Index)
		outpoints[i] = serialized
	}

	partial, err := spbip352.PartialSecret(inputKeys, outpoints)
	if err != nil {
		return fmt.Errorf("%w: %s", sperrors.ErrCryptographic, err)
	}

	type slot struct {
		outputIndex int
		addrStr     string
	}
	counts := make(map[string]int)
	addrByString := make(map[string]*spbip352.Address)
	var slots []slot
	for i, out := range p.Outputs {
		addrStr, ok := findAddress(out.Unknowns)
		if !ok {
			continue
		}
		addr, err := spbip352.DecodeAddress(addrStr)
		if err != nil {
			return fmt.Errorf("%w: output %d: %s", sperrors.ErrInvalidInput, i, err)
		}
		addrByString[addrStr] = addr
		counts[addrStr]++
		slots = append(slots, slot{outputIndex: i, addrStr: addrStr})
	}

	recipients := make([]spbip352.RecipientCount, 0, len(counts))
	for addrStr, n := range counts {
		recipients = append(recipients, spbip352.RecipientCount{Address: addrByString[addrStr], Count: n})
	}

	keysByAddr, err := spbip352.GenerateRecipientPubkeys(partial, recipients)
	if err != nil {
		return fmt.Errorf("%w: %s", sperrors.ErrCryptographic, err)
	}

	cursor := make(map[string]int)
	for _, s := range slots {
		idx := cursor[s.addrStr]
		keys := keysByAddr[s.addrStr]
		if idx >= len(keys) {
			return fmt.Errorf("%w: ran out of derived keys for %s", sperrors.ErrAssertionFailed, s.addrStr)
		}
		cursor[s.addrStr] = idx + 1

		script, err := p2trScriptFromXOnly(keys[idx], params)
		if err != nil {
			return fmt.Errorf("build output script: %w", err)
		}
		p.UnsignedTx.TxOut[s.outputIndex].PkScript = script
	}

	for addrStr, n := range cursor {
		if n != len(keysByAddr[addrStr]) {
			return fmt.Errorf("%w: %s keys not fully consumed", sperrors.ErrAssertionFailed, addrStr)
		}
	}

	return nil
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
