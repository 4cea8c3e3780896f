// Package store holds the in-memory set of outputs a silent-payments
// wallet has discovered belong to it, along with their per-output
// tweak and spend status.
package store

import (
	"fmt"
	"sync"

	"github.com/cygnet3/sp-wallet/sperrors"
)

// Outpoint identifies a transaction output. TxidHex is the
// big-endian (human-readable) 32-byte transaction id.
type Outpoint struct {
	TxidHex string
	Vout    uint32
}

// String canonicalizes the outpoint as "{txid_hex}:{vout}".
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxidHex, o.Vout)
}

// SpendStatus is the lifecycle state of an OwnedOutput.
type SpendStatus int

const (
	// Unspent means the output has not been consumed by any observed
	// transaction.
	Unspent SpendStatus = iota
	// Spent means a transaction consuming this output has been seen
	// but is not yet confirmed.
	Spent
	// Mined means the spending transaction has been confirmed. This
	// status is terminal until an explicit ResetFromHeight.
	Mined
)

// OwnedOutput is a single UTXO the wallet has identified as its own
// via the BIP-352 scanning tweak.
type OwnedOutput struct {
	Outpoint     Outpoint
	BlockHeight  uint32
	AmountSat    uint64
	ScriptPubKey []byte
	Tweak        [32]byte
	Label        string // optional; empty if unlabeled
	Status       SpendStatus
	SpendingTxid string // set once Status != Unspent
	BlockHash    string // set once Status == Mined
}

// Store is the concurrency-safe mapping from outpoint to OwnedOutput
// described in spec section 4.2. All mutation methods perform a
// snapshot-and-swap internally so a failing multi-step caller (see
// spclient's MarkTransactionInputsAsSpent) never observes a partially
// mutated store.
type Store struct {
	mu      sync.RWMutex
	outputs map[Outpoint]OwnedOutput
}

// New returns an empty Store.
func New() *Store {
	return &Store{outputs: make(map[Outpoint]OwnedOutput)}
}

// Extend inserts the given outputs; entries with a matching outpoint
// are overwritten.
func (s *Store) Extend(entries []OwnedOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.outputs[e.Outpoint] = e
	}
}

// Contains reports whether the given outpoint is tracked.
func (s *Store) Contains(op Outpoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.outputs[op]
	return ok
}

// Get returns the tracked output for op, or sperrors.ErrNotFound.
func (s *Store) Get(op Outpoint) (OwnedOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.outputs[op]
	if !ok {
		return OwnedOutput{}, fmt.Errorf("%w: %s", sperrors.ErrNotFound, op)
	}
	return out, nil
}

// MarkSpent transitions op from Unspent to Spent(spendingTxid).
func (s *Store) MarkSpent(op Outpoint, spendingTxid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, ok := s.outputs[op]
	if !ok {
		return fmt.Errorf("%w: %s", sperrors.ErrNotFound, op)
	}
	if out.Status != Unspent {
		return fmt.Errorf("%w: %s", sperrors.ErrAlreadySpent, op)
	}
	out.Status = Spent
	out.SpendingTxid = spendingTxid
	s.outputs[op] = out
	return nil
}

// MarkMined transitions op to Mined(blockHash); fails if it is already
// Mined.
func (s *Store) MarkMined(op Outpoint, blockHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, ok := s.outputs[op]
	if !ok {
		return fmt.Errorf("%w: %s", sperrors.ErrNotFound, op)
	}
	if out.Status == Mined {
		return fmt.Errorf("%w: %s", sperrors.ErrAlreadyMined, op)
	}
	out.Status = Mined
	out.BlockHash = blockHash
	s.outputs[op] = out
	return nil
}

// SpendableSum returns the sum of amounts over Unspent outputs.
func (s *Store) SpendableSum() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum uint64
	for _, o := range s.outputs {
		if o.Status == Unspent {
			sum += o.AmountSat
		}
	}
	return sum
}

// UnconfirmedSum returns the sum of amounts over Spent (in-flight
// outgoing, not yet mined) outputs.
func (s *Store) UnconfirmedSum() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum uint64
	for _, o := range s.outputs {
		if o.Status == Spent {
			sum += o.AmountSat
		}
	}
	return sum
}

// MinedSum returns the sum of amounts over Mined outputs.
func (s *Store) MinedSum() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum uint64
	for _, o := range s.outputs {
		if o.Status == Mined {
			sum += o.AmountSat
		}
	}
	return sum
}

// List returns a snapshot of all tracked outputs; order is
// unspecified.
func (s *Store) List() []OwnedOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OwnedOutput, 0, len(s.outputs))
	for _, o := range s.outputs {
		out = append(out, o)
	}
	return out
}

// ListSpendable returns a snapshot of outputs with Status == Unspent.
func (s *Store) ListSpendable() []OwnedOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OwnedOutput, 0, len(s.outputs))
	for _, o := range s.outputs {
		if o.Status == Unspent {
			out = append(out, o)
		}
	}
	return out
}

// ResetFromHeight drops every entry with BlockHeight > h. Entries at
// or below h retain whatever status they already had — this does not
// force Spent/Mined entries back to Unspent.
func (s *Store) ResetFromHeight(h uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for op, o := range s.outputs {
		if o.BlockHeight > h {
			delete(s.outputs, op)
		}
	}
}

// Clone returns an independent copy of the store. Used by callers that
// need to apply a multi-step mutation atomically: mutate the clone,
// and only adopt it in place of the original once every step succeeds.
func (s *Store) Clone() *Store {
	return LoadSnapshot(s.Snapshot())
}

// Snapshot returns an immutable copy of the full output set, for the
// persistence collaborator to serialize.
func (s *Store) Snapshot() map[Outpoint]OwnedOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Outpoint]OwnedOutput, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// LoadSnapshot replaces the store's contents wholesale, for the
// persistence collaborator on load.
func LoadSnapshot(snap map[Outpoint]OwnedOutput) *Store {
	s := New()
	for k, v := range snap {
		s.outputs[k] = v
	}
	return s
}
