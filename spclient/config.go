// Package spclient is the wallet-core orchestrator: it owns the key
// material, the owned-output store and the silent-payment receiver,
// and exposes the operations a CLI/UI layer drives a wallet through.
package spclient

import "github.com/hashicorp/go-hclog"

// WalletConfig gathers the fields needed to create or restore a
// wallet, the way the teacher's path_config.go/path_wallets.go gather
// a wallet's network, label and storage configuration.
type WalletConfig struct {
	Label       string
	Network     string // "mainnet", "testnet4", "signet"
	Birthday    uint32
	StoragePath string
	Logger      hclog.Logger
}

func (c WalletConfig) logger() hclog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return hclog.NewNullLogger()
}
