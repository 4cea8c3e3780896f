package spclient

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/cygnet3/sp-wallet/electrum"
)

// Broadcaster takes a serialized transaction and returns success or a
// structured failure; the light-client's own broadcast channel is the
// primary leg.
type Broadcaster interface {
	Broadcast(rawTx []byte) error
}

// BackupBroadcaster wraps a primary Broadcaster with an Electrum
// client as a second, independent leg. The distilled Rust source's
// api.rs::broadcast_tx always fires both — a documented workaround for
// primary light-client nodes that accept a transaction into their
// mempool but fail to relay it network-wide.
type BackupBroadcaster struct {
	Primary  Broadcaster
	Electrum *electrum.Client
}

// Broadcast submits rawTx through the primary path, then best-effort
// through the Electrum backup leg regardless of the primary result;
// callers only see the primary path's error.
func (b *BackupBroadcaster) Broadcast(rawTx []byte) error {
	primaryErr := b.Primary.Broadcast(rawTx)

	if b.Electrum != nil {
		if _, err := b.Electrum.BroadcastTransaction(hex.EncodeToString(rawTx)); err != nil {
			_ = err // best-effort; primary result is authoritative
		}
	}

	return primaryErr
}

// BroadcastTx extracts a wire transaction to raw bytes and submits it
// through the given Broadcaster.
func BroadcastTx(b Broadcaster, tx *wire.MsgTx) error {
	raw, err := serializeTx(tx)
	if err != nil {
		return fmt.Errorf("serialize transaction: %w", err)
	}
	return b.Broadcast(raw)
}

func serializeTx(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
