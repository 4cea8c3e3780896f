package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkParams(t *testing.T) {
	tests := []struct {
		name    string
		network string
		wantErr bool
	}{
		{"mainnet", "mainnet", false},
		{"testnet4", "testnet4", false},
		{"signet", "signet", false},
		{"unknown", "regtest", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NetworkParams(tc.network)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateMnemonicIsValid(t *testing.T) {
	m, err := GenerateMnemonic()
	require.NoError(t, err)
	assert.True(t, ValidateMnemonic(m), "generated mnemonic failed validation: %q", m)
}

func TestDeriveDeterministic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	first, err := Derive(mnemonic, "", "mainnet")
	require.NoError(t, err)
	second, err := Derive(mnemonic, "", "mainnet")
	require.NoError(t, err)

	assert.Equal(t, first.ScanPriv.Key, second.ScanPriv.Key, "scan key not deterministic")
	assert.Equal(t, first.SpendPriv.Key, second.SpendPriv.Key, "spend key not deterministic")
	assert.NotEqual(t, first.ScanPriv.Key, first.SpendPriv.Key, "scan and spend keys must differ")
}

// TestDeriveNetworkSeparation asserts mainnet and testnet4 derive
// distinct key material from the same mnemonic, per the differing
// coin-type path component.
func TestDeriveNetworkSeparation(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	main, err := Derive(mnemonic, "", "mainnet")
	require.NoError(t, err)
	test, err := Derive(mnemonic, "", "testnet4")
	require.NoError(t, err)

	assert.NotEqual(t, main.ScanPriv.Key, test.ScanPriv.Key, "expected different scan keys across networks")
}

func TestDeriveRejectsInvalidMnemonic(t *testing.T) {
	_, err := Derive("not a valid mnemonic at all", "", "mainnet")
	assert.Error(t, err)
}

func TestDerivationPath(t *testing.T) {
	tests := []struct {
		network string
		isScan  bool
		want    string
	}{
		{"mainnet", true, "m/352'/0'/0'/1'/0"},
		{"mainnet", false, "m/352'/0'/0'/0'/0"},
		{"testnet4", true, "m/352'/1'/0'/1'/0"},
		{"testnet4", false, "m/352'/1'/0'/0'/0"},
	}
	for _, tc := range tests {
		got := DerivationPath(tc.network, tc.isScan)
		assert.Equal(t, tc.want, got)
	}
}
