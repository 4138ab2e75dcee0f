package core

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrConnectionLost is reported by an EventMonitor whose transport to the node
// has failed. The subscription is not restartable in place; the caller must
// call Subscribe again.
var ErrConnectionLost = errors.New("event subscription connection lost")

// EventMonitor produces a lazy, infinite, restartable sequence of event
// batches for one chain.
//
// Batches are delivered in non-decreasing height order; batches for the same
// height preserve the chain's emission order. No deduplication is performed:
// after a restart-induced gap, events may be re-delivered and consumers must
// be idempotent.
//
// On transport failure the batch channel is closed and SubscriptionError
// reports ErrConnectionLost (possibly wrapped with transport detail) instead
// of silently stalling.
type EventMonitor interface {
	// Subscribe starts a subscription to the chain's event stream.
	Subscribe(ctx context.Context) (<-chan EventBatch, error)

	// SubscriptionError returns the terminal condition of the most recent
	// subscription after its channel has been closed. It returns nil when the
	// subscription was closed by context cancellation.
	SubscriptionError() error
}
