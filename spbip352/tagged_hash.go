package spbip352

import "crypto/sha256"

// TaggedHash implements the BIP-340 tagged hash construction:
// SHA256(SHA256(tag) || SHA256(tag) || msg...).
func TaggedHash(tag string, msg ...[]byte) [32]byte {
	tagHash := sha256.Sum256([]byte(tag))

	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	for _, m := range msg {
		h.Write(m)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// BIP-352 domain tags.
const (
	TagInputs       = "BIP0352/Inputs"
	TagSharedSecret = "BIP0352/SharedSecret"
	TagLabel        = "BIP0352/Label"
)
