package psbtx

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// Proprietary record identity, per the external interface this wallet
// must stay wire-compatible with: prefix "sp", subtype 0, and one of
// two keys. btcutil's psbt package has no first-class proprietary-key
// type (unlike rust-bitcoin's raw::ProprietaryKey), so records are
// carried as psbt.Unknown entries whose Key bytes are the BIP-174
// proprietary key encoding: 0xFC, prefix, subtype, keydata.
const (
	proprietaryTypeByte = 0xFC
	proprietaryPrefix   = "sp"
	proprietarySubtype  = 0

	keyTweak   = "tweak"
	keyAddress = "address"
)

func proprietaryKeyBytes(key string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(proprietaryTypeByte)
	if err := wire.WriteVarString(&buf, 0, proprietaryPrefix); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, 0, proprietarySubtype); err != nil {
		return nil, err
	}
	buf.WriteString(key)
	return buf.Bytes(), nil
}

func isProprietaryKey(candidate []byte, key string) bool {
	want, err := proprietaryKeyBytes(key)
	if err != nil {
		return false
	}
	return bytes.Equal(candidate, want)
}

// newTweakUnknown builds the per-input proprietary record carrying the
// 32-byte big-endian tweak scalar.
func newTweakUnknown(tweak [32]byte) (*psbt.Unknown, error) {
	key, err := proprietaryKeyBytes(keyTweak)
	if err != nil {
		return nil, err
	}
	value := make([]byte, 32)
	copy(value, tweak[:])
	return &psbt.Unknown{Key: key, Value: value}, nil
}

// findTweak scans an input's unknown records for the tweak record,
// returning ok=false if absent.
func findTweak(unknowns []*psbt.Unknown) (tweak [32]byte, ok bool, err error) {
	for _, u := range unknowns {
		if isProprietaryKey(u.Key, keyTweak) {
			if len(u.Value) != 32 {
				return tweak, true, fmt.Errorf("tweak record has length %d, want 32", len(u.Value))
			}
			copy(tweak[:], u.Value)
			return tweak, true, nil
		}
	}
	return tweak, false, nil
}

// newAddressUnknown builds the per-output proprietary record carrying
// the silent-payment address string this output slot is destined for.
// The value is a Bitcoin-consensus varstring (compact-size length
// prefix then the bytes), matching how an external signer or filler
// would serialize it.
func newAddressUnknown(address string) (*psbt.Unknown, error) {
	key, err := proprietaryKeyBytes(keyAddress)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, address); err != nil {
		return nil, err
	}
	return &psbt.Unknown{Key: key, Value: buf.Bytes()}, nil
}

// findAddress scans an output's unknown records for the
// silent-payment address record, returning ok=false if absent.
func findAddress(unknowns []*psbt.Unknown) (address string, ok bool) {
	for _, u := range unknowns {
		if isProprietaryKey(u.Key, keyAddress) {
			addr, err := wire.ReadVarString(bytes.NewReader(u.Value), 0)
			if err != nil {
				return "", false
			}
			return addr, true
		}
	}
	return "", false
}
