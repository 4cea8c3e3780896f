// Package coinselect picks which owned taproot outputs to spend for a
// requested payment amount. Input/output selection sits outside the
// wallet core's specified surface (the core is handed already-chosen
// inputs), so this is caller-side glue — adapted from the teacher's
// largest-first UTXO selector, specialized to an all-taproot UTXO set.
package coinselect

import (
	"fmt"
	"sort"

	"github.com/cygnet3/sp-wallet/store"
)

// Virtual-size constants for an all-taproot transaction, mirroring the
// teacher's P2TRInputSize/P2TROutputSize/TxOverhead constants.
const (
	TaprootInputVSize  = 58
	TaprootOutputVSize = 43
	TxOverheadVSize    = 10
)

// EstimateVSize estimates a transaction's vsize from its input/output
// counts, assuming every input and output is a taproot key-path spend.
func EstimateVSize(numInputs, numOutputs int) int64 {
	return int64(TxOverheadVSize) + int64(numInputs)*int64(TaprootInputVSize) + int64(numOutputs)*int64(TaprootOutputVSize)
}

// UTXOs selects spendable owned outputs to cover targetAmount plus an
// estimated fee at feeRate sat/vB, using a largest-first strategy:
// keep adding the next-largest output until the running total covers
// both the payment and the fee for the transaction shape assembled so
// far (numOutputs output slots, plus a change output on this output).
func UTXOs(candidates []store.OwnedOutput, targetAmount uint64, feeRate int64, numOutputs int) ([]store.OwnedOutput, int64, error) {
	if len(candidates) == 0 {
		return nil, 0, fmt.Errorf("no spendable outputs available")
	}

	sorted := make([]store.OwnedOutput, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AmountSat > sorted[j].AmountSat
	})

	var selected []store.OwnedOutput
	var totalIn uint64
	var fee int64

	for _, o := range sorted {
		selected = append(selected, o)
		totalIn += o.AmountSat

		fee = EstimateVSize(len(selected), numOutputs+1) * feeRate
		if totalIn >= targetAmount+uint64(fee) {
			return selected, fee, nil
		}
	}

	return nil, 0, fmt.Errorf("insufficient funds: have %d, need %d + %d fee", totalIn, targetAmount, fee)
}
