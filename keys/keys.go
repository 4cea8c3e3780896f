// Package keys derives the BIP-352 scan and spend key pair from a
// mnemonic: mnemonic -> seed -> BIP-32 master extended private key ->
// two hardened child keys, selected by network.
package keys

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

// DefaultMnemonicBits is the entropy size for a fresh 12-word mnemonic.
const DefaultMnemonicBits = 128

// silentPaymentsPurpose is BIP-352's reserved purpose field.
const silentPaymentsPurpose = hdkeychain.HardenedKeyStart + 352

const (
	coinTypeMainnet = hdkeychain.HardenedKeyStart + 0
	coinTypeOther   = hdkeychain.HardenedKeyStart + 1

	accountZero = hdkeychain.HardenedKeyStart + 0

	scanChange  = hdkeychain.HardenedKeyStart + 1
	spendChange = hdkeychain.HardenedKeyStart + 0

	addressIndexZero = hdkeychain.HardenedKeyStart + 0
)

// NetworkParams returns the chain configuration for the given network
// name. testnet4 shares testnet3's address format.
func NetworkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet4":
		return &chaincfg.TestNet3Params, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network: %s (supported: mainnet, testnet4, signet)", network)
	}
}

// GenerateMnemonic creates a fresh 12-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(DefaultMnemonicBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether the given phrase is a well-formed
// BIP-39 mnemonic.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// DerivedKeys holds the scan and spend private keys produced by
// Derive.
type DerivedKeys struct {
	Mnemonic  string
	ScanPriv  *btcec.PrivateKey
	SpendPriv *btcec.PrivateKey
}

// Derive turns a mnemonic (generating one if seedphrase is empty) and
// passphrase into the BIP-352 scan/spend key pair for the given
// network. Seed derivation is PBKDF2-HMAC-SHA512("mnemonic"+passphrase,
// 2048 rounds), delegated to go-bip39's NewSeedWithErrorChecking.
func Derive(seedphrase, passphrase, network string) (*DerivedKeys, error) {
	mnemonic := seedphrase
	if mnemonic == "" {
		var err error
		mnemonic, err = GenerateMnemonic()
		if err != nil {
			return nil, err
		}
	} else if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}

	scanPriv, spendPriv, err := DeriveFromSeed(seed, network)
	if err != nil {
		return nil, err
	}

	return &DerivedKeys{Mnemonic: mnemonic, ScanPriv: scanPriv, SpendPriv: spendPriv}, nil
}

// DeriveFromSeed builds the BIP-32 master key from a raw seed and
// walks the two BIP-352 hardened paths:
//
//	mainnet:      scan m/352'/0'/0'/1'/0   spend m/352'/0'/0'/0'/0
//	other networks: scan m/352'/1'/0'/1'/0 spend m/352'/1'/0'/0'/0
func DeriveFromSeed(seed []byte, network string) (scanPriv, spendPriv *btcec.PrivateKey, err error) {
	params, err := NetworkParams(network)
	if err != nil {
		return nil, nil, err
	}

	master, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, nil, fmt.Errorf("create master key: %w", err)
	}

	coinType := uint32(coinTypeMainnet)
	if network != "mainnet" {
		coinType = coinTypeOther
	}

	scanKey, err := deriveChild(master, silentPaymentsPurpose, coinType, accountZero, scanChange, addressIndexZero)
	if err != nil {
		return nil, nil, fmt.Errorf("derive scan key: %w", err)
	}
	spendKey, err := deriveChild(master, silentPaymentsPurpose, coinType, accountZero, spendChange, addressIndexZero)
	if err != nil {
		return nil, nil, fmt.Errorf("derive spend key: %w", err)
	}

	scanPriv, err = scanKey.ECPrivKey()
	if err != nil {
		return nil, nil, fmt.Errorf("scan key to ec priv: %w", err)
	}
	spendPriv, err = spendKey.ECPrivKey()
	if err != nil {
		return nil, nil, fmt.Errorf("spend key to ec priv: %w", err)
	}
	return scanPriv, spendPriv, nil
}

func deriveChild(master *hdkeychain.ExtendedKey, path ...uint32) (*hdkeychain.ExtendedKey, error) {
	key := master
	for _, step := range path {
		next, err := key.Derive(step)
		if err != nil {
			return nil, err
		}
		key = next
	}
	return key, nil
}

// DerivationPath renders the BIP-352 path used for scan or spend keys,
// for logging and diagnostics.
func DerivationPath(network string, isScan bool) string {
	coinType := 0
	if network != "mainnet" {
		coinType = 1
	}
	change := 0
	if isScan {
		change = 1
	}
	return fmt.Sprintf("m/352'/%d'/0'/%d'/0", coinType, change)
}
