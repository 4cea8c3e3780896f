// Command spwallet is thin CLI glue over the wallet core: create or
// restore a wallet, print its receiving address (optionally as a QR
// code), and report balances. It is not part of the specified core
// surface — a stand-in for the UI bindings the core deliberately
// leaves unspecified.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/skip2/go-qrcode"

	"github.com/cygnet3/sp-wallet/spclient"
)

func main() {
	network := flag.String("network", "mainnet", "mainnet, testnet4 or signet")
	label := flag.String("label", "default", "wallet label")
	mnemonic := flag.String("mnemonic", "", "existing mnemonic to restore (empty generates a new one)")
	qr := flag.Bool("qr", false, "render the receiving address as a terminal QR code")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "spwallet",
		Level: hclog.Info,
	})

	cfg := spclient.WalletConfig{
		Label:   *label,
		Network: *network,
		Logger:  logger,
	}

	client, err := spclient.New(cfg, *mnemonic, "")
	if err != nil {
		logger.Error("create wallet failed", "error", err)
		os.Exit(1)
	}

	info := client.GetWalletInfo()
	fmt.Printf("wallet %q (%s), watch-only=%v\n", info.Label, info.Network, info.IsWatchOnly)
	fmt.Printf("spendable=%d unconfirmed=%d mined=%d\n", info.SpendableSat, info.UnconfirmedSat, info.MinedSat)

	addr, err := client.GetReceivingAddress()
	if err != nil {
		logger.Error("get receiving address failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("receiving address:", addr)

	if phrase, err := client.ShowMnemonic(); err == nil {
		fmt.Println("mnemonic:", phrase)
	}

	if *qr {
		art, err := qrcode.New(addr, qrcode.Medium)
		if err != nil {
			logger.Error("render qr code failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(art.ToString(false))
	}
}
