package spclient

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/hashicorp/go-hclog"

	"github.com/cygnet3/sp-wallet/keys"
	"github.com/cygnet3/sp-wallet/spbip352"
	"github.com/cygnet3/sp-wallet/sperrors"
	"github.com/cygnet3/sp-wallet/store"
)

// SpClient is the wallet-core orchestrator: {label, scan_priv,
// spend_key (priv or pub), Receiver, birthday, last_scan,
// OwnedOutputStore}, plus logging and persistence collaborators.
type SpClient struct {
	log hclog.Logger

	label       string
	networkName string
	params      *chaincfg.Params

	scanPriv  *btcec.PrivateKey
	spendPriv *btcec.PrivateKey // nil when watch-only
	spendPub  *btcec.PublicKey
	mnemonic  string // empty when restored from raw keys

	receiver *spbip352.Receiver

	birthday uint32
	lastScan uint32

	store *store.Store

	persistence Persistence
}

// IsWatchOnly reports whether this wallet can sign (holds a private
// spend key) or only receive and track balance.
func (c *SpClient) IsWatchOnly() bool {
	return c.spendPriv == nil
}

// New creates a wallet from a mnemonic: a fresh one if seedphrase is
// empty, otherwise a restored one. passphrase is the BIP-39 "25th
// word".
func New(cfg WalletConfig, seedphrase, passphrase string) (*SpClient, error) {
	derived, err := keys.Derive(seedphrase, passphrase, cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sperrors.ErrInvalidInput, err)
	}

	c, err := newCore(cfg, derived.ScanPriv, derived.SpendPriv, derived.SpendPriv.PubKey())
	if err != nil {
		return nil, err
	}
	c.mnemonic = derived.Mnemonic
	return c, nil
}

// NewFromPrivateKeys restores a fully spendable wallet from raw
// scan/spend private key hex, with no mnemonic on record (the
// distilled Rust source's WalletType::PrivateKeys restore path).
func NewFromPrivateKeys(cfg WalletConfig, scanPrivHex, spendPrivHex string) (*SpClient, error) {
	scanPriv, err := parsePrivHex(scanPrivHex)
	if err != nil {
		return nil, fmt.Errorf("%w: scan key: %s", sperrors.ErrInvalidInput, err)
	}
	spendPriv, err := parsePrivHex(spendPrivHex)
	if err != nil {
		return nil, fmt.Errorf("%w: spend key: %s", sperrors.ErrInvalidInput, err)
	}
	return newCore(cfg, scanPriv, spendPriv, spendPriv.PubKey())
}

// NewWatchOnly restores a watch-only wallet from a scan private key
// and a spend *public* key (the distilled Rust source's
// WalletType::ReadOnly restore path). Such a wallet can receive and
// list balance but never sign or fill silent-payment outputs.
func NewWatchOnly(cfg WalletConfig, scanPrivHex, spendPubHex string) (*SpClient, error) {
	scanPriv, err := parsePrivHex(scanPrivHex)
	if err != nil {
		return nil, fmt.Errorf("%w: scan key: %s", sperrors.ErrInvalidInput, err)
	}
	spendPub, err := parsePubHex(spendPubHex)
	if err != nil {
		return nil, fmt.Errorf("%w: spend key: %s", sperrors.ErrInvalidInput, err)
	}
	return newCore(cfg, scanPriv, nil, spendPub)
}

func newCore(cfg WalletConfig, scanPriv, spendPriv *btcec.PrivateKey, spendPub *btcec.PublicKey) (*SpClient, error) {
	params, err := keys.NetworkParams(cfg.Network)
	if err != nil {
		return nil, err
	}

	isTestnet := cfg.Network != "mainnet"
	receiver := spbip352.NewReceiver(scanPriv, spendPub, isTestnet)

	lastScan := uint32(0)
	if cfg.Birthday > 0 {
		lastScan = cfg.Birthday - 1
	}

	return &SpClient{
		log:         cfg.logger(),
		label:       cfg.Label,
		networkName: cfg.Network,
		params:      params,
		scanPriv:    scanPriv,
		spendPriv:   spendPriv,
		spendPub:    spendPub,
		receiver:    receiver,
		birthday:    cfg.Birthday,
		lastScan:    lastScan,
		store:       store.New(),
	}, nil
}

func parsePrivHex(s string) (*btcec.PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	return btcec.PrivKeyFromBytes(b), nil
}

func parsePubHex(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return btcec.ParsePubKey(b)
}
