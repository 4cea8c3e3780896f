package spbip352

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPriv(t *testing.T, hexKey string) *btcec.PrivateKey {
	t.Helper()
	b, err := hex.DecodeString(hexKey)
	require.NoError(t, err)
	return btcec.PrivKeyFromBytes(b)
}

func TestAddressEncodeDecodeRoundTrip(t *testing.T) {
	scanPriv := mustPriv(t, "0101010101010101010101010101010101010101010101010101010101010101")
	spendPriv := mustPriv(t, "0101010101010101010101010101010101010101010101010101010101010101")

	for _, isTestnet := range []bool{false, true} {
		addr := &Address{ScanPub: scanPriv.PubKey(), SpendPub: spendPriv.PubKey(), IsTestnet: isTestnet}
		encoded, err := addr.Encode()
		require.NoError(t, err)

		decoded, err := DecodeAddress(encoded)
		require.NoError(t, err, "DecodeAddress(%q)", encoded)

		assert.Equal(t, isTestnet, decoded.IsTestnet)
		assert.True(t, decoded.ScanPub.IsEqual(addr.ScanPub), "scan pubkey mismatch after round-trip")
		assert.True(t, decoded.SpendPub.IsEqual(addr.SpendPub), "spend pubkey mismatch after round-trip")
		assert.True(t, IsAddress(encoded))
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	assert.False(t, IsAddress("bc1qnotasilentpaymentaddress"))
	_, err := DecodeAddress("not bech32 at all")
	assert.Error(t, err)
}

// TestReceiverChangeAddressDiffers covers spec scenario S2: the
// change address (label index 0) must differ from the receiving
// address even though both share the scan key.
func TestReceiverChangeAddressDiffers(t *testing.T) {
	key := mustPriv(t, "0101010101010101010101010101010101010101010101010101010101010101")
	r := NewReceiver(key, key.PubKey(), false)

	receiving, err := r.ReceivingAddress()
	require.NoError(t, err)
	change, err := r.ChangeAddress()
	require.NoError(t, err)
	assert.NotEqual(t, receiving, change)
}
