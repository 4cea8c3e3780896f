package spbip352

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// InputKey is a single input's signing key together with whether it is
// spent via a taproot key-path (which requires the even-Y
// normalization rule before summing).
type InputKey struct {
	PrivKey   *btcec.PrivateKey
	IsTaproot bool
}

// SerializedOutpoint is the 36-byte txid||vout_le encoding of an
// outpoint, used to find the lexicographically smallest outpoint
// spent by the transaction.
type SerializedOutpoint [36]byte

// SmallestOutpoint returns the lexicographically smallest serialized
// outpoint among those spent.
func SmallestOutpoint(outpoints []SerializedOutpoint) (SerializedOutpoint, error) {
	if len(outpoints) == 0 {
		return SerializedOutpoint{}, fmt.Errorf("no outpoints")
	}
	smallest := outpoints[0]
	for _, o := range outpoints[1:] {
		if bytes.Compare(o[:], smallest[:]) < 0 {
			smallest = o
		}
	}
	return smallest, nil
}

// PartialSecret computes the sender-side aggregate scalar:
//
//	a_sum    = sum of input private keys (even-Y normalized for taproot keys)
//	input_hash = tagged_hash("BIP0352/Inputs", smallest_outpoint || (a_sum*G))
//	partial  = input_hash * a_sum (mod n)
//
// Only taproot key-spend inputs carry a tweak in this wallet's model,
// so every InputKey is expected to have IsTaproot set; the flag is
// kept on the struct so a future non-taproot contributor can opt out
// of the negation rule without changing this function's signature.
func PartialSecret(inputs []InputKey, outpoints []SerializedOutpoint) (*btcec.PrivateKey, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input keys")
	}

	privs := make([]*btcec.PrivateKey, 0, len(inputs))
	for _, in := range inputs {
		privs = append(privs, in.PrivKey)
	}
	aSum := sumPrivKeys(privs)

	smallest, err := SmallestOutpoint(outpoints)
	if err != nil {
		return nil, err
	}

	inputHash := TaggedHash(TagInputs, smallest[:], aSum.PubKey().SerializeCompressed())

	var inputHashScalar btcec.ModNScalar
	inputHashScalar.SetBytes(&inputHash)

	product := new(btcec.ModNScalar).Set(&inputHashScalar).Mul(&aSum.Key)
	return btcec.PrivKeyFromBytes(product.Bytes()[:]), nil
}

// RecipientCount names a recipient address and how many sequential
// output keys it needs (k >= 1, k > 1 only valid for silent-payment
// recipients).
type RecipientCount struct {
	Address *Address
	Count   int
}

// GenerateRecipientPubkeys derives, for every recipient, the first
// Count x-only output keys owed to it, in order:
//
//	shared_secret = partial * scan_pub          (ECDH, per recipient)
//	t_k           = tagged_hash("BIP0352/SharedSecret", shared_secret || ser_uint32(k))
//	output_k      = spend_pub + t_k*G
func GenerateRecipientPubkeys(partial *btcec.PrivateKey, recipients []RecipientCount) (map[string][]*btcec.PublicKey, error) {
	out := make(map[string][]*btcec.PublicKey, len(recipients))

	for _, r := range recipients {
		addrStr, err := r.Address.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode recipient address: %w", err)
		}

		sharedSecret := scalarMultPoint(partial, r.Address.ScanPub)
		sharedSecretBytes := sharedSecret.SerializeCompressed()

		keys := make([]*btcec.PublicKey, 0, r.Count)
		for k := 0; k < r.Count; k++ {
			var idx [4]byte
			binary.BigEndian.PutUint32(idx[:], uint32(k))

			tk := TaggedHash(TagSharedSecret, sharedSecretBytes, idx[:])
			outputKey := addPointTimesGenerator(r.Address.SpendPub, &tk)
			keys = append(keys, outputKey)
		}
		out[addrStr] = keys
	}

	return out, nil
}
