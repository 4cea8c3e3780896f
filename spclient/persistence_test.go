package spclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnet3/sp-wallet/store"
)

type memPersistence struct {
	state WalletState
}

func (m *memPersistence) Write(state WalletState) error {
	m.state = state
	return nil
}

func (m *memPersistence) Read() (WalletState, error) { return m.state, nil }
func (m *memPersistence) Delete() error              { m.state = WalletState{}; return nil }

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c := newTestClient(t)
	c.ExtendOwnedOutputs([]store.OwnedOutput{
		{Outpoint: store.Outpoint{TxidHex: "aa", Vout: 0}, AmountSat: 1500},
	}, 5)

	snap := c.Snapshot()
	restored, err := RestoreFromState(WalletConfig{}, snap)
	require.NoError(t, err)

	assert.Equal(t, c.IsWatchOnly(), restored.IsWatchOnly(), "watch-only status not preserved")
	restoredAddr, err := restored.GetReceivingAddress()
	require.NoError(t, err)
	origAddr, err := c.GetReceivingAddress()
	require.NoError(t, err)
	assert.Equal(t, origAddr, restoredAddr, "restored wallet derives a different receiving address")
	assert.Equal(t, c.store.SpendableSum(), restored.store.SpendableSum(), "restored wallet lost owned outputs")
}

func TestPersistWritesThroughAttachedCollaborator(t *testing.T) {
	c := newTestClient(t)
	p := &memPersistence{}
	c.SetPersistence(p)

	require.NoError(t, c.Persist())
	assert.Equal(t, c.label, p.state.Label, "expected persisted state to reflect the wallet's label")
}

func TestPersistNoopWithoutCollaborator(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.Persist(), "Persist with no collaborator should be a no-op")
}
