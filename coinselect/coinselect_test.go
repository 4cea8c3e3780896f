package coinselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnet3/sp-wallet/store"
)

func candidates() []store.OwnedOutput {
	return []store.OwnedOutput{
		{Outpoint: store.Outpoint{TxidHex: "aa", Vout: 0}, AmountSat: 1000},
		{Outpoint: store.Outpoint{TxidHex: "bb", Vout: 0}, AmountSat: 50000},
		{Outpoint: store.Outpoint{TxidHex: "cc", Vout: 0}, AmountSat: 5000},
	}
}

func TestUTXOsLargestFirst(t *testing.T) {
	selected, fee, err := UTXOs(candidates(), 10000, 5, 1)
	require.NoError(t, err)
	require.Len(t, selected, 1, "expected a single large output to cover the target")
	assert.EqualValues(t, 50000, selected[0].AmountSat, "expected the largest output to be picked first")
	assert.Positive(t, fee)
}

func TestUTXOsAccumulatesWhenNeeded(t *testing.T) {
	selected, _, err := UTXOs(candidates(), 54000, 1, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(selected), 2, "expected multiple outputs to be combined")
}

func TestUTXOsInsufficientFunds(t *testing.T) {
	_, _, err := UTXOs(candidates(), 1_000_000, 1, 1)
	assert.Error(t, err)
}

func TestUTXOsNoCandidates(t *testing.T) {
	_, _, err := UTXOs(nil, 1000, 1, 1)
	assert.Error(t, err)
}

func TestEstimateVSizeScalesWithCounts(t *testing.T) {
	small := EstimateVSize(1, 1)
	large := EstimateVSize(2, 2)
	assert.Greater(t, large, small, "expected vsize to grow with input/output counts")
}
