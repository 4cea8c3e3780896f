package spclient

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/cygnet3/sp-wallet/psbtx"
	"github.com/cygnet3/sp-wallet/sperrors"
	"github.com/cygnet3/sp-wallet/store"
)

// WalletInfo is a read-only snapshot for display, matching the fields
// the distilled Rust source's get_wallet_info exposes.
type WalletInfo struct {
	Label          string
	Network        string
	Birthday       uint32
	LastScan       uint32
	IsWatchOnly    bool
	SpendableSat   uint64
	UnconfirmedSat uint64
	MinedSat       uint64
}

// GetWalletInfo returns a snapshot of wallet metadata and balances.
func (c *SpClient) GetWalletInfo() WalletInfo {
	return WalletInfo{
		Label:          c.label,
		Network:        c.networkName,
		Birthday:       c.birthday,
		LastScan:       c.lastScan,
		IsWatchOnly:    c.IsWatchOnly(),
		SpendableSat:   c.store.SpendableSum(),
		UnconfirmedSat: c.store.UnconfirmedSum(),
		MinedSat:       c.store.MinedSum(),
	}
}

// GetReceivingAddress returns the wallet's primary silent-payment
// address.
func (c *SpClient) GetReceivingAddress() (string, error) {
	return c.receiver.ReceivingAddress()
}

// ListOutputs returns a snapshot of every tracked owned output.
func (c *SpClient) ListOutputs() []store.OwnedOutput {
	return c.store.List()
}

// ListSpendableOutputs returns a snapshot of owned outputs with
// Status == Unspent.
func (c *SpClient) ListSpendableOutputs() []store.OwnedOutput {
	return c.store.ListSpendable()
}

// ShowMnemonic returns the wallet's mnemonic, if it was created from
// or restored with one.
func (c *SpClient) ShowMnemonic() (string, error) {
	if c.mnemonic == "" {
		return "", fmt.Errorf("%w: wallet has no recorded mnemonic", sperrors.ErrNotFound)
	}
	return c.mnemonic, nil
}

// ChangeBirthday updates the wallet's birthday height only. Per the
// distilled Rust source, this deliberately does NOT touch owned
// outputs or last_scan — callers that want a rescan from the new
// birthday must separately call ResetWallet.
func (c *SpClient) ChangeBirthday(birthday uint32) {
	c.log.Debug("change birthday", "wallet", c.label, "birthday", birthday)
	c.birthday = birthday
}

// ResetWallet drops every owned output above the current birthday and
// rewinds last_scan to just before it, so a subsequent scan starts
// from the birthday again.
func (c *SpClient) ResetWallet() {
	c.store.ResetFromHeight(c.birthday)
	lastScan := uint32(0)
	if c.birthday > 0 {
		lastScan = c.birthday - 1
	}
	c.lastScan = lastScan
	c.log.Debug("reset wallet", "wallet", c.label, "birthday", c.birthday, "last_scan", c.lastScan)
}

// ExtendOwnedOutputs applies newly-discovered owned outputs from the
// scanner collaborator, and advances last_scan.
func (c *SpClient) ExtendOwnedOutputs(entries []store.OwnedOutput, newLastScan uint32) {
	c.store.Extend(entries)
	if newLastScan > c.lastScan {
		c.lastScan = newLastScan
	}
	c.log.Debug("extended owned outputs", "wallet", c.label, "count", len(entries), "last_scan", c.lastScan)
}

// CreateNewPsbt assembles an unsigned transaction spending inputs to
// recipients, augmented with the proprietary tweak/address records.
func (c *SpClient) CreateNewPsbt(inputs []psbtx.Input, recipients []psbtx.Recipient) (*psbt.Packet, error) {
	return psbtx.CreateNewPsbt(inputs, recipients, c.receiver, c.params)
}

// AddFeeForFeeRate places an absolute fee on a chosen payer output.
func (c *SpClient) AddFeeForFeeRate(p *psbt.Packet, feeRate float64, payer string) error {
	return psbtx.SetFees(p, feeRate, payer, c.params)
}

// FillSpOutputs derives and writes the real script pubkeys for every
// silent-payment output slot. Requires a private spend key.
func (c *SpClient) FillSpOutputs(p *psbt.Packet) error {
	if c.spendPriv == nil {
		return sperrors.ErrWatchOnly
	}
	return psbtx.FillSpOutputs(p, c.spendPriv, c.params)
}

// SignPsbt signs every taproot key-spend input, optionally finalizing
// immediately afterward. Requires a private spend key.
func (c *SpClient) SignPsbt(p *psbt.Packet, finalize bool) error {
	if c.spendPriv == nil {
		return sperrors.ErrWatchOnly
	}
	if err := psbtx.SignPsbt(p, c.spendPriv); err != nil {
		return err
	}
	if finalize {
		return psbtx.FinalizePsbt(p)
	}
	return nil
}

// ExtractTx extracts the final wire transaction from a finalized PSBT.
func (c *SpClient) ExtractTx(p *psbt.Packet) (*wire.MsgTx, error) {
	return psbtx.ExtractTx(p)
}

// MarkTransactionInputsAsSpent iterates tx's inputs and marks every
// outpoint this wallet owns as Spent. Mutation is atomic with respect
// to observers: it works against a clone of the store and only
// installs the clone once every owned input has transitioned
// successfully, so a mid-iteration failure leaves the wallet's state
// untouched.
func (c *SpClient) MarkTransactionInputsAsSpent(tx *wire.MsgTx) error {
	txid := tx.TxHash().String()

	clone := c.store.Clone()
	touched := 0
	for _, in := range tx.TxIn {
		op := store.Outpoint{TxidHex: in.PreviousOutPoint.Hash.String(), Vout: in.PreviousOutPoint.Index}
		if !clone.Contains(op) {
			continue
		}
		if err := clone.MarkSpent(op, txid); err != nil {
			return err
		}
		touched++
	}

	c.store = clone
	if err := c.Persist(); err != nil {
		return fmt.Errorf("persist after marking inputs spent: %w", err)
	}
	c.log.Info("marked transaction inputs spent", "wallet", c.label, "txid", txid, "count", touched)
	return nil
}
