package spbip352

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Label computes the BIP-352 label tweak scalar for index m:
// tagged_hash("BIP0352/Label", scan_priv || ser_uint32(m)).
func Label(scanPriv *btcec.PrivateKey, m uint32) [32]byte {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], m)

	scanBytes := scanPriv.Serialize()
	return TaggedHash(TagLabel, scanBytes, idx[:])
}

// LabeledSpendPubKey returns spend_pub tweaked by a label: spend_pub +
// label*G. Used to derive a distinct, labeled address (such as the
// wallet's change address, label index 0) sharing the same scan key.
func LabeledSpendPubKey(spendPub *btcec.PublicKey, label [32]byte) *btcec.PublicKey {
	return addPointTimesGenerator(spendPub, &label)
}

// Receiver bundles the keys needed to present a wallet's receiving and
// change addresses.
type Receiver struct {
	ScanPub     *btcec.PublicKey
	SpendPub    *btcec.PublicKey
	ChangeLabel [32]byte
	IsTestnet   bool
}

// NewReceiver builds a Receiver from the wallet's scan private key and
// spend public key, deriving the change label at index 0.
func NewReceiver(scanPriv *btcec.PrivateKey, spendPub *btcec.PublicKey, isTestnet bool) *Receiver {
	return &Receiver{
		ScanPub:     scanPriv.PubKey(),
		SpendPub:    spendPub,
		ChangeLabel: Label(scanPriv, 0),
		IsTestnet:   isTestnet,
	}
}

// ReceivingAddress returns the wallet's primary, unlabeled address.
func (r *Receiver) ReceivingAddress() (string, error) {
	addr := &Address{ScanPub: r.ScanPub, SpendPub: r.SpendPub, IsTestnet: r.IsTestnet}
	return addr.Encode()
}

// ChangeAddress returns the wallet's labeled change address (label
// index 0), distinct from the receiving address but sharing the scan
// key so the wallet's own scanner still detects it.
func (r *Receiver) ChangeAddress() (string, error) {
	labeledSpend := LabeledSpendPubKey(r.SpendPub, r.ChangeLabel)
	addr := &Address{ScanPub: r.ScanPub, SpendPub: labeledSpend, IsTestnet: r.IsTestnet}
	return addr.Encode()
}
