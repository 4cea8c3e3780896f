package spbip352

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
)

// numsXHex is the x-coordinate of the standard "nothing up my sleeve"
// point used throughout the taproot ecosystem as a script-path-only /
// unspendable placeholder key. Its discrete log is unknown to anyone.
const numsXHex = "50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac"

var numsPoint *btcec.PublicKey

func init() {
	b, err := hex.DecodeString(numsXHex)
	if err != nil {
		panic(err)
	}
	p, err := btcec.ParsePubKey(append([]byte{0x02}, b...))
	if err != nil {
		panic(err)
	}
	numsPoint = p
}

// NUMSPlaceholder returns the x-only NUMS point used as a placeholder
// taproot script pubkey for silent-payment outputs before the real
// recipient key is derived.
func NUMSPlaceholder() *btcec.PublicKey {
	return numsPoint
}
