package core

import (
	"fmt"
	"sort"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// RelayAction identifies the kind of destination-chain message a relay entry
// will become.
type RelayAction int

const (
	ActionRecvPacket RelayAction = iota
	ActionAcknowledgePacket
	ActionTimeoutPacket
)

func (a RelayAction) String() string {
	switch a {
	case ActionRecvPacket:
		return "recv_packet"
	case ActionAcknowledgePacket:
		return "acknowledge_packet"
	case ActionTimeoutPacket:
		return "timeout_packet"
	default:
		return "unknown"
	}
}

// RelayEntry is one observed protocol event pending conversion into a message.
type RelayEntry struct {
	Action RelayAction
	Packet *PacketInfo
}

// OperationalData accumulates relay entries that share a target chain and a
// proof height, so the whole batch can be proven against a single consensus
// state and submitted as one transaction.
type OperationalData struct {
	TargetChainID string
	ProofHeight   clienttypes.Height
	Entries       []RelayEntry

	CreatedAt   time.Time
	ScheduledAt time.Time
	Attempts    uint

	inFlight bool
	ready    bool
}

func (od *OperationalData) Append(entry RelayEntry) {
	od.Entries = append(od.Entries, entry)
}

func (od *OperationalData) Size() int {
	return len(od.Entries)
}

func (od *OperationalData) contains(action RelayAction, sequence uint64) bool {
	for _, e := range od.Entries {
		if e.Action == action && e.Packet.Sequence == sequence {
			return true
		}
	}
	return false
}

func (od *OperationalData) String() string {
	return fmt.Sprintf("target=%s proof_height=%v entries=%d attempts=%d",
		od.TargetChainID, od.ProofHeight, len(od.Entries), od.Attempts)
}

type opDataKey struct {
	chainID     string
	proofHeight clienttypes.Height
}

// opDataStore indexes pending batches by (target chain, proof height).
// It is owned by a single link goroutine and is not safe for concurrent use.
type opDataStore struct {
	data map[opDataKey]*OperationalData
}

func newOpDataStore() *opDataStore {
	return &opDataStore{data: make(map[opDataKey]*OperationalData)}
}

func (s *opDataStore) len() int {
	return len(s.data)
}

// lookupOrCreate returns the batch for the given target and proof height,
// creating it if absent.
func (s *opDataStore) lookupOrCreate(chainID string, proofHeight clienttypes.Height, now time.Time) *OperationalData {
	key := opDataKey{chainID: chainID, proofHeight: proofHeight}
	if od, ok := s.data[key]; ok {
		return od
	}
	od := &OperationalData{
		TargetChainID: chainID,
		ProofHeight:   proofHeight,
		CreatedAt:     now,
	}
	s.data[key] = od
	return od
}

// markReady flips to ready every batch targeting chainID whose proof height
// does not exceed upToHeight. Batches become eligible for submission only
// after the event batch that produced them has been fully consumed.
func (s *opDataStore) markReady(chainID string, upToHeight clienttypes.Height) {
	for key, od := range s.data {
		if key.chainID != chainID {
			continue
		}
		if od.ProofHeight.GT(upToHeight) {
			continue
		}
		od.ready = true
	}
}

// markAllReady flips every batch to ready regardless of height. Used by the
// clearing pass, whose entries are synthesized at a finalized height.
func (s *opDataStore) markAllReady() {
	for _, od := range s.data {
		od.ready = true
	}
}

// popReady returns the eligible batch with the lowest proof height, or nil.
// A batch is eligible when it is ready, not already submitted, not deferred
// past now, and non-empty. At most one batch per target chain may be in
// flight at a time; proof-height order is preserved per target.
func (s *opDataStore) popReady(now time.Time) *OperationalData {
	inFlight := make(map[string]bool)
	for _, od := range s.data {
		if od.inFlight {
			inFlight[od.TargetChainID] = true
		}
	}

	var best *OperationalData
	for _, od := range s.data {
		if !od.ready || od.inFlight || od.Size() == 0 {
			continue
		}
		if inFlight[od.TargetChainID] {
			continue
		}
		if !od.ScheduledAt.IsZero() && od.ScheduledAt.After(now) {
			continue
		}
		if best == nil || od.ProofHeight.LT(best.ProofHeight) {
			best = od
		}
	}
	if best != nil {
		best.inFlight = true
	}
	return best
}

// settle removes a batch whose submission has concluded, successfully or as a
// permanent no-op.
func (s *opDataStore) settle(od *OperationalData) {
	delete(s.data, opDataKey{chainID: od.TargetChainID, proofHeight: od.ProofHeight})
}

// requeue returns an in-flight batch to the store for a later attempt.
func (s *opDataStore) requeue(od *OperationalData, retryAt time.Time) {
	od.inFlight = false
	od.ScheduledAt = retryAt
	od.Attempts++
}

// deferUntil returns an in-flight batch to the store without consuming a
// retry attempt. Used when the batch is not yet eligible rather than failed.
func (s *opDataStore) deferUntil(od *OperationalData, at time.Time) {
	od.inFlight = false
	od.ScheduledAt = at
}

// drop abandons a batch. The periodic clearing pass re-discovers anything
// still unrelayed on chain.
func (s *opDataStore) drop(od *OperationalData) {
	s.settle(od)
}

// coalesce merges every batch targeting chainID that is not in flight into a
// single batch keyed at the given proof height. Entries keep ascending
// proof-height order across the merged batches; map iteration order must not
// leak into packet order. A state committed at some height stays provable at
// any later height, so raising a batch's proof height is always sound.
func (s *opDataStore) coalesce(chainID string, proofHeight clienttypes.Height, now time.Time) *OperationalData {
	var candidates []*OperationalData
	for _, od := range s.data {
		if od.TargetChainID != chainID || od.inFlight {
			continue
		}
		// never lower an entry's proof height: merge at the maximum involved
		if od.ProofHeight.GT(proofHeight) {
			proofHeight = od.ProofHeight
		}
		candidates = append(candidates, od)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ProofHeight.LT(candidates[j].ProofHeight)
	})

	merged := s.lookupOrCreate(chainID, proofHeight, now)
	var entries []RelayEntry
	for _, od := range candidates {
		entries = append(entries, od.Entries...)
		if od == merged {
			continue
		}
		if od.CreatedAt.Before(merged.CreatedAt) {
			merged.CreatedAt = od.CreatedAt
		}
		merged.Attempts = max(merged.Attempts, od.Attempts)
		merged.ready = merged.ready || od.ready
		delete(s.data, opDataKey{chainID: chainID, proofHeight: od.ProofHeight})
	}
	merged.Entries = entries
	return merged
}

// prune removes entries matching drop from every batch targeting chainID that
// is not in flight.
func (s *opDataStore) prune(chainID string, drop func(RelayEntry) bool) {
	for key, od := range s.data {
		if key.chainID != chainID || od.inFlight {
			continue
		}
		kept := od.Entries[:0]
		for _, e := range od.Entries {
			if !drop(e) {
				kept = append(kept, e)
			}
		}
		od.Entries = kept
	}
}

// flushAged promotes to ready every batch older than maxAge.
func (s *opDataStore) flushAged(maxAge time.Duration, now time.Time) {
	for _, od := range s.data {
		if od.inFlight || od.ready {
			continue
		}
		if now.Sub(od.CreatedAt) >= maxAge {
			od.ready = true
		}
	}
}

// oldest returns the creation time of the oldest pending batch, or zero time.
func (s *opDataStore) oldest() time.Time {
	var t time.Time
	for _, od := range s.data {
		if t.IsZero() || od.CreatedAt.Before(t) {
			t = od.CreatedAt
		}
	}
	return t
}

// backlog returns the total number of pending entries across batches.
func (s *opDataStore) backlog() int {
	var n int
	for _, od := range s.data {
		n += od.Size()
	}
	return n
}
