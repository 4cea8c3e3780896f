// Package spbip352 implements the BIP-352 Silent Payments primitives:
// address encoding, label tweaks, and the sender-side partial-secret /
// recipient-pubkey derivation used to compute one-time output keys.
package spbip352

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	hrpMainnet = "sp"
	hrpTestnet = "tsp"
)

// Address is a silent-payment address: the pair of public keys a
// sender needs to derive unique, unlinkable output keys for a
// recipient.
type Address struct {
	ScanPub   *btcec.PublicKey
	SpendPub  *btcec.PublicKey
	IsTestnet bool
}

// Encode renders the address as lowercase bech32m, per BIP-352: the
// concatenation of the compressed scan and spend public keys, with no
// witness-version nibble (unlike a segwit address).
func (a *Address) Encode() (string, error) {
	hrp := hrpMainnet
	if a.IsTestnet {
		hrp = hrpTestnet
	}

	payload := make([]byte, 0, 66)
	payload = append(payload, a.ScanPub.SerializeCompressed()...)
	payload = append(payload, a.SpendPub.SerializeCompressed()...)

	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}

	addr, err := bech32.EncodeM(hrp, data)
	if err != nil {
		return "", fmt.Errorf("bech32m encode: %w", err)
	}
	return addr, nil
}

// DecodeAddress parses a silent-payment address string.
func DecodeAddress(addr string) (*Address, error) {
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return nil, fmt.Errorf("bech32 decode: %w", err)
	}

	var isTestnet bool
	switch hrp {
	case hrpMainnet:
		isTestnet = false
	case hrpTestnet:
		isTestnet = true
	default:
		return nil, fmt.Errorf("unrecognized silent payment address prefix: %s", hrp)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("convert bits: %w", err)
	}
	if len(payload) != 66 {
		return nil, fmt.Errorf("unexpected silent payment address payload length: %d", len(payload))
	}

	scanPub, err := btcec.ParsePubKey(payload[:33])
	if err != nil {
		return nil, fmt.Errorf("parse scan pubkey: %w", err)
	}
	spendPub, err := btcec.ParsePubKey(payload[33:])
	if err != nil {
		return nil, fmt.Errorf("parse spend pubkey: %w", err)
	}

	return &Address{ScanPub: scanPub, SpendPub: spendPub, IsTestnet: isTestnet}, nil
}

// IsAddress reports whether s parses as a silent-payment address,
// without returning the parse error.
func IsAddress(s string) bool {
	_, err := DecodeAddress(s)
	return err == nil
}
