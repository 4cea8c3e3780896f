package psbtx

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/cygnet3/sp-wallet/sperrors"
)

// SignPsbt computes, for every taproot key-spend input, the BIP-341
// Default-hashtype sighash and a BIP-340 Schnorr signature under the
// reconstructed spend_priv+tweak key, attaching each as
// TaprootKeySpendSig. A missing tweak at this stage is a programming
// error: FillSpOutputs (or the caller supplying inputs directly) must
// have already populated every input's tweak record.
func SignPsbt(p *psbt.Packet, spendPriv *btcec.PrivateKey) error {
	if spendPriv == nil {
		return sperrors.ErrWatchOnly
	}

	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(p.Inputs))
	for i, in := range p.Inputs {
		if in.WitnessUtxo == nil {
			return fmt.Errorf("%w: input %d missing witness_utxo", sperrors.ErrInvalidInput, i)
		}
		prevOuts[p.UnsignedTx.TxIn[i].PreviousOutPoint] = in.WitnessUtxo
	}
	prevOutFetcher := txscript.NewMultiPrevOutFetcher(prevOuts)
	sigHashes := txscript.NewTxSigHashes(p.UnsignedTx, prevOutFetcher)

	for i, in := range p.Inputs {
		tweak, ok, err := findTweak(in.Unknowns)
		if err != nil {
			return fmt.Errorf("%w: input %d: %s", sperrors.ErrInvalidTweak, i, err)
		}
		if !ok {
			panic(fmt.Sprintf("signer: input %d has no tweak after fill", i))
		}

		var tweakScalar btcec.ModNScalar
		if overflow := tweakScalar.SetBytes(&tweak); overflow != 0 {
			return fmt.Errorf("%w: input %d scalar out of range", sperrors.ErrInvalidTweak, i)
		}
		sum := new(btcec.ModNScalar).Set(&spendPriv.Key).Add(&tweakScalar)
		signingKey := btcec.PrivKeyFromBytes(sum.Bytes()[:])

		sigHash, err := txscript.CalcTaprootSignatureHash(sigHashes, txscript.SigHashDefault, p.UnsignedTx, i, prevOutFetcher)
		if err != nil {
			return fmt.Errorf("%w: sighash input %d: %s", sperrors.ErrCryptographic, i, err)
		}

		sig, err := schnorr.Sign(signingKey, sigHash)
		if err != nil {
			return fmt.Errorf("%w: sign input %d: %s", sperrors.ErrCryptographic, i, err)
		}

		p.Inputs[i].TaprootKeySpendSig = sig.Serialize()
		p.Inputs[i].SighashType = txscript.SigHashDefault
	}

	return nil
}

// FinalizePsbt converts each input's key-spend signature into its
// final witness stack and scrubs the now-irrelevant signing fields.
func FinalizePsbt(p *psbt.Packet) error {
	for i := range p.Inputs {
		if err := psbt.Finalize(p, i); err != nil {
			return fmt.Errorf("%w: finalize input %d: %s", sperrors.ErrCryptographic, i, err)
		}
	}
	return nil
}

// ExtractTx returns the fully-signed wire transaction from a
// finalized PSBT.
func ExtractTx(p *psbt.Packet) (*wire.MsgTx, error) {
	tx, err := psbt.Extract(p)
	if err != nil {
		return nil, fmt.Errorf("extract transaction: %w", err)
	}
	return tx, nil
}
