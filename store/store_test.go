package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnet3/sp-wallet/sperrors"
)

func sampleOutputs() []OwnedOutput {
	return []OwnedOutput{
		{Outpoint: Outpoint{TxidHex: "aa", Vout: 0}, AmountSat: 1000, BlockHeight: 10},
		{Outpoint: Outpoint{TxidHex: "bb", Vout: 1}, AmountSat: 2000, BlockHeight: 20},
		{Outpoint: Outpoint{TxidHex: "cc", Vout: 0}, AmountSat: 3000, BlockHeight: 30},
	}
}

// TestBalanceInvariant covers Testable Property 2: SpendableSum +
// UnconfirmedSum + MinedSum always equals the total tracked amount,
// regardless of status transitions.
func TestBalanceInvariant(t *testing.T) {
	s := New()
	entries := sampleOutputs()
	s.Extend(entries)

	var total uint64
	for _, e := range entries {
		total += e.AmountSat
	}

	check := func() {
		t.Helper()
		sum := s.SpendableSum() + s.UnconfirmedSum() + s.MinedSum()
		assert.Equal(t, total, sum, "balance invariant broken")
	}
	check()

	require.NoError(t, s.MarkSpent(entries[0].Outpoint, "deadbeef"))
	check()

	require.NoError(t, s.MarkMined(entries[0].Outpoint, "blockhash"))
	check()
}

// TestSpendStatusTransitions covers Testable Property 3: status only
// moves forward (Unspent -> Spent -> Mined) and rejects re-entry.
func TestSpendStatusTransitions(t *testing.T) {
	s := New()
	op := Outpoint{TxidHex: "aa", Vout: 0}
	s.Extend([]OwnedOutput{{Outpoint: op, AmountSat: 1000}})

	require.NoError(t, s.MarkSpent(op, "tx1"))
	assert.ErrorIs(t, s.MarkSpent(op, "tx2"), sperrors.ErrAlreadySpent)

	require.NoError(t, s.MarkMined(op, "block1"))
	assert.ErrorIs(t, s.MarkMined(op, "block2"), sperrors.ErrAlreadyMined)
}

func TestMarkUnknownOutpointNotFound(t *testing.T) {
	s := New()
	op := Outpoint{TxidHex: "nope", Vout: 0}
	_, err := s.Get(op)
	assert.ErrorIs(t, err, sperrors.ErrNotFound)
	assert.ErrorIs(t, s.MarkSpent(op, "tx1"), sperrors.ErrNotFound)
}

func TestResetFromHeightPreservesStatus(t *testing.T) {
	s := New()
	entries := sampleOutputs()
	s.Extend(entries)

	require.NoError(t, s.MarkSpent(entries[0].Outpoint, "tx1"))

	s.ResetFromHeight(15)

	assert.False(t, s.Contains(entries[1].Outpoint), "output above reset height should have been dropped")
	assert.False(t, s.Contains(entries[2].Outpoint), "output above reset height should have been dropped")

	got, err := s.Get(entries[0].Outpoint)
	require.NoError(t, err)
	assert.Equal(t, Spent, got.Status, "ResetFromHeight must not revert spend status")
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	entries := sampleOutputs()
	s.Extend(entries)

	clone := s.Clone()
	require.NoError(t, clone.MarkSpent(entries[0].Outpoint, "tx1"))

	original, err := s.Get(entries[0].Outpoint)
	require.NoError(t, err)
	assert.Equal(t, Unspent, original.Status, "mutating clone must not affect original store")
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	entries := sampleOutputs()
	s.Extend(entries)

	snap := s.Snapshot()
	restored := LoadSnapshot(snap)

	assert.Equal(t, s.SpendableSum(), restored.SpendableSum(), "snapshot round-trip lost data")
	for _, e := range entries {
		assert.True(t, restored.Contains(e.Outpoint), "restored store missing outpoint %v", e.Outpoint)
	}
}
