// Package psbtx assembles, augments, fee-adjusts, signs and finalizes
// PSBTs carrying silent-payment outputs, using the btcsuite/btcd
// psbt/txscript/wire stack the way the teacher's path_wallet_psbt.go
// and wallet/transaction.go do for ordinary wallet transactions.
package psbtx

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/cygnet3/sp-wallet/spbip352"
	"github.com/cygnet3/sp-wallet/sperrors"
)

// DustThreshold is the minimum output amount considered economically
// relevant; at or below it an output is suppressed as change, or is
// eligible to be absorbed entirely into the fee. Mirrors the teacher's
// wallet.DustLimit.
const DustThreshold = 546

// Input is a selected, owned UTXO contributed to a new transaction.
type Input struct {
	Outpoint     wire.OutPoint
	AmountSat    int64
	ScriptPubKey []byte
	Tweak        [32]byte
}

// Recipient is a single requested payment; NbOutputs must be 1 unless
// Address is a silent-payment address.
type Recipient struct {
	Address   string
	AmountSat int64
	NbOutputs uint32
}

// CreateNewPsbt builds an unsigned transaction spending inputs to
// recipients, appending a change output to the wallet's own change
// address when change exceeds the dust threshold, then wraps it in a
// PSBT carrying witness_utxo and the proprietary tweak/address records
// spec section 6 defines.
func CreateNewPsbt(inputs []Input, recipients []Recipient, receiver *spbip352.Receiver, params *chaincfg.Params) (*psbt.Packet, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no inputs", sperrors.ErrInvalidInput)
	}

	tx := wire.NewMsgTx(2)
	tx.LockTime = 0

	var totalIn int64
	for _, in := range inputs {
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: in.Outpoint,
			Sequence:         wire.MaxTxInSequenceNum,
		})
		totalIn += in.AmountSat
	}

	// addressKinds[i] records whether output i is a silent-payment
	// slot, and if so which recipient address it belongs to.
	addressKinds := make([]string, 0, len(recipients)+1)

	var totalOut int64
	for _, r := range recipients {
		isSP := spbip352.IsAddress(r.Address)
		if !isSP && r.NbOutputs != 1 {
			return nil, fmt.Errorf("%w: nb_outputs > 1 only valid for silent-payment recipients", sperrors.ErrInvalidInput)
		}

		n := int(r.NbOutputs)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			script, err := outputScript(r.Address, isSP, params, receiver.IsTestnet)
			if err != nil {
				return nil, err
			}
			tx.AddTxOut(wire.NewTxOut(r.AmountSat, script))
			totalOut += r.AmountSat
			if isSP {
				addressKinds = append(addressKinds, r.Address)
			} else {
				addressKinds = append(addressKinds, "")
			}
		}
	}

	changeAmt := totalIn - totalOut
	if changeAmt < 0 {
		return nil, fmt.Errorf("%w: inputs %d < outputs %d", sperrors.ErrInsufficientFunds, totalIn, totalOut)
	}

	if changeAmt > DustThreshold {
		addr, err := receiver.ChangeAddress()
		if err != nil {
			return nil, fmt.Errorf("derive change address: %w", err)
		}
		script, err := outputScript(addr, true, params, receiver.IsTestnet)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(changeAmt, script))
		addressKinds = append(addressKinds, addr)
	} else if changeAmt > 0 {
		return nil, fmt.Errorf("%w: %d sat", sperrors.ErrDustChange, changeAmt)
	}

	p, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, fmt.Errorf("new psbt: %w", err)
	}

	for i, in := range inputs {
		p.Inputs[i].WitnessUtxo = &wire.TxOut{
			Value:    in.AmountSat,
			PkScript: in.ScriptPubKey,
		}
		tweakRecord, err := newTweakUnknown(in.Tweak)
		if err != nil {
			return nil, fmt.Errorf("build tweak record: %w", err)
		}
		p.Inputs[i].Unknowns = []*psbt.Unknown{tweakRecord}
	}

	for i, addr := range addressKinds {
		if addr == "" {
			continue
		}
		addrRecord, err := newAddressUnknown(addr)
		if err != nil {
			return nil, fmt.Errorf("build address record: %w", err)
		}
		p.Outputs[i].Unknowns = []*psbt.Unknown{addrRecord}
	}

	return p, nil
}

func outputScript(address string, isSP bool, params *chaincfg.Params, walletIsTestnet bool) ([]byte, error) {
	if isSP {
		spAddr, err := spbip352.DecodeAddress(address)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", sperrors.ErrInvalidInput, err)
		}
		if spAddr.IsTestnet != walletIsTestnet {
			return nil, fmt.Errorf("%w: silent payment address is for a different network", sperrors.ErrInvalidInput)
		}
		return p2trScriptFromXOnly(spbip352.NUMSPlaceholder(), params)
	}

	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sperrors.ErrInvalidInput, err)
	}
	if !addr.IsForNet(params) {
		return nil, fmt.Errorf("%w: address is for a different network", sperrors.ErrInvalidInput)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sperrors.ErrInvalidInput, err)
	}
	return script, nil
}

// p2trScriptFromXOnly builds a P2TR output script directly from a
// (already final) x-only key, without applying any further BIP-341
// internal-key tweak: a silent-payment output key already is the
// spendable taproot output key.
func p2trScriptFromXOnly(pubKey *btcec.PublicKey, params *chaincfg.Params) ([]byte, error) {
	xOnly := schnorr.SerializePubKey(pubKey)
	addr, err := btcutil.NewAddressTaproot(xOnly, params)
	if err != nil {
		return nil, fmt.Errorf("build taproot address: %w", err)
	}
	return txscript.PayToAddrScript(addr)
}
