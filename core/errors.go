package core

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrorClass is the closed taxonomy into which every collaborator-reported
// failure is mapped at the boundary. The relay loop's control flow depends on
// the class only, never on the underlying error type.
type ErrorClass int

const (
	// ClassTransient failures are retried with bounded backoff, then escalated
	// to abandonment of the batch.
	ClassTransient ErrorClass = iota

	// ClassStale failures mean the event is no longer actionable as-is
	// (the timeout window has passed); the message kind is switched instead
	// of retrying.
	ClassStale

	// ClassPermanent failures will not change on retry (channel closed, packet
	// already received); the batch is dropped as a success-equivalent no-op.
	ClassPermanent

	// ClassFatal failures indicate misconfiguration; the link for the path is
	// disabled and the operator is notified. Other paths are unaffected.
	ClassFatal
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassStale:
		return "stale"
	case ClassPermanent:
		return "permanent"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Sentinel errors for the ChainHandle submission boundary. Chain
// implementations mark their transport-specific failures with these so that
// Classify can resolve them without knowing the transport.
var (
	ErrNodeUnavailable      = errors.New("node unavailable")
	ErrSequenceMismatch     = errors.New("account sequence mismatch")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTxRejected           = errors.New("transaction rejected")
	ErrPacketTimedOut       = errors.New("packet timed out")
	ErrChannelClosed        = errors.New("channel closed")
	ErrPacketAlreadyHandled = errors.New("packet already handled")
	ErrChannelNotFound      = errors.New("channel not found")
)

// Classify maps an error reported by a collaborator into the taxonomy.
// Unrecognized errors are treated as transient: anything a node can report
// spuriously must not permanently drop a batch.
func Classify(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrPacketTimedOut):
		return ClassStale
	case errors.Is(err, ErrChannelClosed),
		errors.Is(err, ErrPacketAlreadyHandled),
		errors.Is(err, ErrTxRejected):
		return ClassPermanent
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrChannelNotFound):
		return ClassFatal
	case errors.Is(err, ErrNodeUnavailable),
		errors.Is(err, ErrSequenceMismatch),
		errors.Is(err, context.DeadlineExceeded):
		return ClassTransient
	default:
		return ClassTransient
	}
}

// ClassifiedError pairs an error with its resolved class so callers up the
// stack do not re-classify.
type ClassifiedError struct {
	Class ErrorClass
	cause error
}

func NewClassifiedError(class ErrorClass, cause error) *ClassifiedError {
	return &ClassifiedError{Class: class, cause: cause}
}

func (e *ClassifiedError) Error() string {
	return e.Class.String() + ": " + e.cause.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// ClassOf resolves the class of an error, honoring an embedded ClassifiedError
// before falling back to Classify.
func ClassOf(err error) ErrorClass {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	return Classify(err)
}
