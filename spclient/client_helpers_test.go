package spclient

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

func hexEncodePriv(t *testing.T, c *SpClient) string {
	t.Helper()
	return hex.EncodeToString(c.scanPriv.Serialize())
}

func pubHex(t *testing.T, c *SpClient) string {
	t.Helper()
	return hex.EncodeToString(c.spendPub.SerializeCompressed())
}

// sampleTx returns a transaction spending the "aa:0" outpoint used by
// TestMarkTransactionInputsAsSpentAtomicity, with the txid chosen so
// that the wallet's tracked Outpoint.TxidHex matches the wire-format
// reversed hex this package compares against.
func sampleTx(t *testing.T) *wire.MsgTx {
	t.Helper()
	var hash chainhash.Hash
	tx := wire.NewMsgTx(2)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Hash: hash, Index: 0}})
	tx.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))
	return tx
}
