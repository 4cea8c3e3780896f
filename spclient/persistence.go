package spclient

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/cygnet3/sp-wallet/store"
)

func hexEncode(b []byte) string { return hex.EncodeToString(b) }

// WalletState is the serializable snapshot of everything a Persistence
// collaborator must round-trip: label, keys, receiver derivation
// inputs, scan progress and the owned-output set. The wire format is
// not constrained by this package; storage engine design is out of
// scope for the core (see the Persistence interface below).
type WalletState struct {
	Label        string
	Network      string
	Mnemonic     string // empty if wallet was restored from raw keys
	ScanPrivHex  string
	SpendPrivHex string // empty for a watch-only wallet
	SpendPubHex  string
	Birthday     uint32
	LastScan     uint32
	Owned        map[store.Outpoint]store.OwnedOutput
}

// Persistence is the external collaborator that durably stores a
// wallet's state. The core only requires these three operations; it
// never inspects the on-disk format.
type Persistence interface {
	Write(state WalletState) error
	Read() (WalletState, error)
	Delete() error
}

// Snapshot captures the wallet's current state for a Persistence
// collaborator to serialize.
func (c *SpClient) Snapshot() WalletState {
	spendPrivHex := ""
	if c.spendPriv != nil {
		spendPrivHex = hexEncode(c.spendPriv.Serialize())
	}
	return WalletState{
		Label:        c.label,
		Network:      c.networkName,
		Mnemonic:     c.mnemonic,
		ScanPrivHex:  hexEncode(c.scanPriv.Serialize()),
		SpendPrivHex: spendPrivHex,
		SpendPubHex:  hexEncode(c.spendPub.SerializeCompressed()),
		Birthday:     c.birthday,
		LastScan:     c.lastScan,
		Owned:        c.store.Snapshot(),
	}
}

// SetPersistence attaches the durable-storage collaborator used by
// operations that must persist after mutating (such as
// MarkTransactionInputsAsSpent).
func (c *SpClient) SetPersistence(p Persistence) {
	c.persistence = p
}

// Persist writes the current snapshot through the attached
// Persistence collaborator, if any.
func (c *SpClient) Persist() error {
	if c.persistence == nil {
		return nil
	}
	return c.persistence.Write(c.Snapshot())
}

// RestoreFromState rebuilds an SpClient from a previously persisted
// snapshot.
func RestoreFromState(cfg WalletConfig, state WalletState) (*SpClient, error) {
	scanPriv, err := parsePrivHex(state.ScanPrivHex)
	if err != nil {
		return nil, err
	}

	var spendPriv *btcec.PrivateKey
	var spendPub *btcec.PublicKey
	if state.SpendPrivHex != "" {
		sp, err := parsePrivHex(state.SpendPrivHex)
		if err != nil {
			return nil, err
		}
		spendPriv = sp
		spendPub = sp.PubKey()
	} else {
		pub, err := parsePubHex(state.SpendPubHex)
		if err != nil {
			return nil, err
		}
		spendPub = pub
	}

	cfg.Label = state.Label
	cfg.Network = state.Network
	cfg.Birthday = state.Birthday

	c, err := newCore(cfg, scanPriv, spendPriv, spendPub)
	if err != nil {
		return nil, err
	}
	c.mnemonic = state.Mnemonic
	c.lastScan = state.LastScan
	c.store = store.LoadSnapshot(state.Owned)
	return c, nil
}
