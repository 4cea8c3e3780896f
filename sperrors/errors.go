// Package sperrors defines the sentinel error kinds returned by the
// wallet core. Callers match with errors.Is; Error() text stays close
// to the short, lowercase phrasing the rest of this module uses for
// wrapped errors.
package sperrors

import "errors"

var (
	// ErrInvalidInput covers malformed addresses, wrong network, bad
	// hex, invalid scalars and malformed PSBTs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWatchOnly is returned when a spending operation is attempted
	// on a wallet holding only a public spend key.
	ErrWatchOnly = errors.New("wallet is watch-only")

	// ErrInsufficientFunds is returned when selected inputs do not
	// cover requested outputs.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDustChange is returned when leftover change falls strictly
	// between zero and the dust threshold.
	ErrDustChange = errors.New("change amount is dust")

	// ErrMissingChange is returned by the fee setter when the psbt
	// carries more dust than expected, meaning the builder failed to
	// place a change output.
	ErrMissingChange = errors.New("missing change output")

	// ErrInvalidTweak is returned when a proprietary tweak record is
	// the wrong length or decodes to a scalar outside the curve order.
	ErrInvalidTweak = errors.New("invalid tweak")

	// ErrNotFound covers an absent outpoint in the output store, or an
	// absent wallet record on disk.
	ErrNotFound = errors.New("not found")

	// ErrAlreadySpent is a state-machine violation: mark_spent on an
	// output that is not Unspent.
	ErrAlreadySpent = errors.New("output already spent")

	// ErrAlreadyMined is a state-machine violation: mark_mined on an
	// output that is already Mined.
	ErrAlreadyMined = errors.New("output already mined")

	// ErrPayerNotInTx is returned when the fee setter's payer address
	// matches no output in the transaction.
	ErrPayerNotInTx = errors.New("payer not found in transaction")

	// ErrCryptographic covers signing, derivation or verification
	// failures.
	ErrCryptographic = errors.New("cryptographic operation failed")

	// ErrAssertionFailed marks an internal invariant violation, such as
	// a recipient key list that does not empty out after filling.
	ErrAssertionFailed = errors.New("internal assertion failed")
)
