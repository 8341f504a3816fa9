// Package protoerr defines the sentinel error kinds shared across the
// block, bloom, OT, PSI, and PSU packages, matching the teacher's pattern of
// wrapping a small fixed set of sentinels with fmt.Errorf("...: %w", ...)
// rather than defining one bespoke error type per package.
package protoerr

import "errors"

var (
	// ErrDimension signals a matrix/vector size contract violation: OTE
	// row/column mod-128 checks, Bloom bit-table size mismatches, PP or
	// set-size mismatches.
	ErrDimension = errors.New("dimension error")

	// ErrIO wraps a channel read/write failure or a file open failure for
	// public-parameter or test-case persistence.
	ErrIO = errors.New("io error")

	// ErrProtocolAborted signals the peer closed mid-session; unrecoverable
	// for the current invocation.
	ErrProtocolAborted = errors.New("protocol aborted")

	// ErrVerificationFailure names the NIZK verification-failure kind.
	// dleq.Verify and ptk.Verify report a failed proof as a false return
	// value, not as this error.
	ErrVerificationFailure = errors.New("verification failure")

	// ErrSerialization signals a malformed curve encoding or a truncated
	// buffer during deserialization.
	ErrSerialization = errors.New("serialization error")
)
