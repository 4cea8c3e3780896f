package psbtx

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/cygnet3/sp-wallet/spbip352"
	"github.com/cygnet3/sp-wallet/sperrors"
)

// fakeSchnorrSig is a syntactically valid but cryptographically
// meaningless 64-byte Schnorr signature, used purely to measure the
// finalized transaction's vsize before the real signature is known.
var fakeSchnorrSig = bytes.Repeat([]byte{1}, 64)

// SetFees resolves the payer output(s), fake-signs a clone of the
// transaction to measure its vsize, and — if the existing change
// surplus does not already cover the fee at feeRate sat/vB — deducts
// the shortfall from a uniformly-random payer output.
func SetFees(p *psbt.Packet, feeRate float64, payer string, params *chaincfg.Params) error {
	payerIndices, err := resolvePayerIndices(p, payer, params)
	if err != nil {
		return err
	}
	if len(payerIndices) == 0 {
		return fmt.Errorf("%w: %s", sperrors.ErrPayerNotInTx, payer)
	}

	var totalIn, totalOut int64
	for _, in := range p.Inputs {
		totalIn += in.WitnessUtxo.Value
	}
	for _, out := range p.UnsignedTx.TxOut {
		totalOut += out.Value
	}
	dust := totalIn - totalOut
	if dust > DustThreshold {
		return fmt.Errorf("%w: %d sat of unplaced dust", sperrors.ErrMissingChange, dust)
	}

	vsize, err := fakeSignVsize(p)
	if err != nil {
		return fmt.Errorf("%w: fake-sign for vsize: %s", sperrors.ErrCryptographic, err)
	}
	feeAmt := int64(feeRate * float64(vsize))

	if feeAmt <= dust {
		return nil
	}

	deduct := feeAmt - dust
	idx, err := randomIndex(len(payerIndices))
	if err != nil {
		return fmt.Errorf("%w: %s", sperrors.ErrCryptographic, err)
	}
	outputIdx := payerIndices[idx]
	p.UnsignedTx.TxOut[outputIdx].Value -= deduct
	return nil
}

func resolvePayerIndices(p *psbt.Packet, payer string, params *chaincfg.Params) ([]int, error) {
	if spbip352.IsAddress(payer) {
		var indices []int
		for i, out := range p.Outputs {
			addrStr, ok := findAddress(out.Unknowns)
			if ok && addrStr == payer {
				indices = append(indices, i)
			}
		}
		return indices, nil
	}

	addr, err := btcutil.DecodeAddress(payer, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sperrors.ErrInvalidInput, err)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sperrors.ErrInvalidInput, err)
	}

	var indices []int
	for i, out := range p.UnsignedTx.TxOut {
		if bytes.Equal(out.PkScript, script) {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

// fakeSignVsize clones p, fills every input with a synthetic 64-byte
// Schnorr witness, finalizes, extracts, and returns the serialized
// transaction's vsize. All-taproot inputs have a byte-identical
// witness shape whether the signature is real or fake, so this vsize
// matches the real one.
func fakeSignVsize(p *psbt.Packet) (int, error) {
	clone, err := clonePacket(p)
	if err != nil {
		return 0, err
	}

	for i := range clone.Inputs {
		clone.Inputs[i].TaprootKeySpendSig = fakeSchnorrSig
	}
	for i := range clone.Inputs {
		if err := psbt.Finalize(clone, i); err != nil {
			return 0, fmt.Errorf("finalize input %d: %w", i, err)
		}
	}

	tx, err := psbt.Extract(clone)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}

	vsize := tx.SerializeSizeStripped() + (tx.SerializeSize()-tx.SerializeSizeStripped()+3)/4
	return vsize, nil
}

func clonePacket(p *psbt.Packet) (*psbt.Packet, error) {
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize for clone: %w", err)
	}
	return psbt.NewFromRawBytes(&buf, false)
}

func randomIndex(n int) (int, error) {
	if n == 1 {
		return 0, nil
	}
	max := big.NewInt(int64(n))
	i, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0, err
	}
	return int(i.Int64()), nil
}
