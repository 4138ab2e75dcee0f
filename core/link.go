package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/cockroachdb/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	api "go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/ibc-ferry/ferry/metrics"
)

// linkTickInterval drives the link worker's periodic wakeups for deferred and
// aged batches.
const linkTickInterval = 100 * time.Millisecond

type linkTask interface {
	isLinkTask()
}

type taskEventBatch struct {
	batch EventBatch
}

type taskClear struct{}

type taskRefresh struct{}

func (taskEventBatch) isLinkTask() {}
func (taskClear) isLinkTask()      {}
func (taskRefresh) isLinkTask()    {}

// Link converts protocol events observed on its source chain into transactions
// on its destination chain. All pending state is owned by the single goroutine
// running Run; other goroutines interact only through Deliver and the trigger
// methods, which enqueue tasks with blocking backpressure.
type Link struct {
	src *ProvableChain
	dst *ProvableChain
	cfg *LinkConfig

	store    *opDataStore
	tasks    chan linkTask
	feedback chan<- EventBatch

	disabled atomic.Bool

	// closed when Run exits, so producers never block on a queue nothing drains
	done chan struct{}
}

func NewLink(src, dst *ProvableChain, cfg *LinkConfig, feedback chan<- EventBatch) *Link {
	if cfg == nil {
		cfg = DefaultLinkConfig()
	} else {
		cfg.FillDefaults()
	}
	return &Link{
		src:      src,
		dst:      dst,
		cfg:      cfg,
		store:    newOpDataStore(),
		tasks:    make(chan linkTask, cfg.QueueSize),
		feedback: feedback,
		done:     make(chan struct{}),
	}
}

func (l *Link) SrcChainID() string {
	return l.src.ChainID()
}

func (l *Link) DstChainID() string {
	return l.dst.ChainID()
}

// Disabled reports whether the link has been taken out of service after a
// fatal error.
func (l *Link) Disabled() bool {
	return l.disabled.Load()
}

// Deliver hands an event batch to the link worker. It blocks while the task
// queue is full, which propagates backpressure to the dispatcher.
func (l *Link) Deliver(ctx context.Context, batch EventBatch) error {
	if l.Disabled() {
		return nil
	}
	select {
	case l.tasks <- taskEventBatch{batch: batch}:
		return nil
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerClear schedules a backlog-clearing pass.
func (l *Link) TriggerClear(ctx context.Context) error {
	if l.Disabled() {
		return nil
	}
	select {
	case l.tasks <- taskClear{}:
		return nil
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerRefresh schedules a client-refresh check.
func (l *Link) TriggerRefresh(ctx context.Context) error {
	if l.Disabled() {
		return nil
	}
	select {
	case l.tasks <- taskRefresh{}:
		return nil
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the link worker loop until the context is canceled or a fatal
// error disables the link. Run must be called at most once per link.
func (l *Link) Run(ctx context.Context) error {
	defer close(l.done)

	logger := GetChannelPairLogger(l.src, l.dst)
	logger.Info("link worker started",
		"max_batch_size", l.cfg.MaxBatchSize,
		"max_retry_attempts", l.cfg.MaxRetryAttempts,
	)

	ticker := time.NewTicker(linkTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("link worker stopped")
			return nil
		case task := <-l.tasks:
			switch t := task.(type) {
			case taskEventBatch:
				l.handleEventBatch(t.batch)
			case taskClear:
				if err := l.clearPending(ctx); err != nil {
					logger.Error("failed to clear pending packets", err)
				}
			case taskRefresh:
				if err := l.refreshClient(ctx); err != nil {
					logger.Error("failed to refresh client", err)
				}
			}
		case <-ticker.C:
		}

		l.store.flushAged(l.cfg.MaxBatchAge, time.Now())
		if err := l.submitReady(ctx); err != nil {
			l.disabled.Store(true)
			logger.ErrorWithStack("fatal error, link disabled", err)
			return err
		}
		l.observeBacklog()
	}
}

// handleEventBatch converts one delivered batch and marks everything at or
// below its height ready: the monitor delivers all events of a height at once,
// so no further events can arrive for it.
func (l *Link) handleEventBatch(batch EventBatch) {
	l.processBatch(batch)
	l.store.markReady(l.dst.ChainID(), batch.Height)
}

// processBatch converts the events of one batch into relay entries. Events
// that do not concern the configured channel are ignored. Entries accumulate
// until the batch fills up or ages out.
func (l *Link) processBatch(batch EventBatch) {
	logger := GetChannelPairLogger(l.src, l.dst)
	now := time.Now()
	srcEnd := l.src.Path()

	var od *OperationalData
	ensure := func() *OperationalData {
		if od == nil {
			od = l.store.coalesce(l.dst.ChainID(), batch.Height, now)
		}
		return od
	}

	for _, ev := range batch.Events {
		switch ev := ev.(type) {
		case *EventSendPacket:
			if ev.Packet.SourcePort != srcEnd.PortID || ev.Packet.SourceChannel != srcEnd.ChannelID {
				continue
			}
			p := ev.Packet
			if ensure().contains(ActionRecvPacket, p.Sequence) {
				continue
			}
			od.Append(RelayEntry{Action: ActionRecvPacket, Packet: &p})
		case *EventWriteAcknowledgement:
			if ev.Packet.DestinationPort != srcEnd.PortID || ev.Packet.DestinationChannel != srcEnd.ChannelID {
				continue
			}
			p := ev.Packet
			if ensure().contains(ActionAcknowledgePacket, p.Sequence) {
				continue
			}
			od.Append(RelayEntry{Action: ActionAcknowledgePacket, Packet: &p})
		case *EventTimeoutPacket:
			if ev.Packet.SourcePort != srcEnd.PortID || ev.Packet.SourceChannel != srcEnd.ChannelID {
				continue
			}
			// the packet was closed out on its source; pending receives are moot
			seq := ev.Packet.Sequence
			l.store.prune(l.dst.ChainID(), func(e RelayEntry) bool {
				return e.Action == ActionRecvPacket && e.Packet.Sequence == seq
			})
		case *EventChannelClosed:
			logger.Info("observed channel closure",
				"port_id", ev.PortID,
				"channel_id", ev.ChannelID,
			)
		case *EventUpdateClient, *EventUnknown:
		}
	}

	if od != nil {
		if uint64(od.Size()) >= l.cfg.MaxBatchSize || now.Sub(od.CreatedAt) >= l.cfg.MaxBatchAge {
			od.ready = true
		}
	}

	metrics.ProcessedBlockHeightGauge.Set(
		int64(batch.Height.GetRevisionHeight()),
		AttributeKeyChainID.String(batch.ChainID),
	)
}

// deferredError reports that a batch is not yet eligible for submission and
// should be retried at the given time without consuming a retry attempt.
type deferredError struct {
	at time.Time
}

func (e *deferredError) Error() string {
	return fmt.Sprintf("submission deferred until %s", e.at)
}

// submitReady pops eligible batches in proof-height order and submits them,
// applying the error taxonomy to each outcome. A fatal error is returned to
// the caller; everything else is handled here.
func (l *Link) submitReady(ctx context.Context) error {
	logger := GetChannelPairLogger(l.src, l.dst)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		od := l.store.popReady(time.Now())
		if od == nil {
			return nil
		}

		start := time.Now()
		err := l.submitOne(ctx, od)
		metrics.RelayAttemptsCounter.Add(ctx, 1, api.WithAttributes(
			AttributeKeyChainID.String(od.TargetChainID),
		))

		var deferred *deferredError
		switch {
		case err == nil:
			l.store.settle(od)
		case errors.As(err, &deferred):
			l.store.deferUntil(od, deferred.at)
		default:
			switch ClassOf(err) {
			case ClassFatal:
				l.store.drop(od)
				return err
			case ClassPermanent:
				logger.Info("dropping batch on permanent failure",
					"target_chain_id", od.TargetChainID,
					"entries", od.Size(),
					"error", err.Error(),
				)
				l.store.settle(od)
			case ClassStale:
				// chain state moved under us; the timeout check on the next
				// attempt converts the affected entries
				l.store.deferUntil(od, time.Now().Add(l.cfg.RetryInterval))
			default:
				if od.Attempts+1 >= l.cfg.MaxRetryAttempts {
					logger.ErrorWithStack("abandoning batch after exhausting retries", err,
						"target_chain_id", od.TargetChainID,
						"entries", od.Size(),
						"attempts", od.Attempts+1,
					)
					metrics.AbandonedBatchesCounter.Add(ctx, 1, api.WithAttributes(
						AttributeKeyChainID.String(od.TargetChainID),
					))
					l.store.drop(od)
				} else {
					backoff := l.cfg.RetryInterval * time.Duration(od.Attempts+1)
					logger.Error("batch submission failed", err,
						"target_chain_id", od.TargetChainID,
						"attempt", od.Attempts+1,
						"elapsed", time.Since(start).String(),
					)
					l.store.requeue(od, time.Now().Add(backoff))
				}
			}
		}
	}
}

// ends resolves the batch's target chain and its counterparty, which serves
// the proofs.
func (l *Link) ends(od *OperationalData) (target, counterparty *ProvableChain) {
	if od.TargetChainID == l.dst.ChainID() {
		return l.dst, l.src
	}
	return l.src, l.dst
}

// submitOne runs the full submission pipeline for one batch: connection-delay
// check, timeout split, message assembly, send, and result confirmation.
// On success the submitted entries are removed from the batch; a non-empty
// remainder (payload capped by MaxBatchSize) is reported as deferred.
func (l *Link) submitOne(ctx context.Context, od *OperationalData) error {
	logger := GetChannelPairLogger(l.src, l.dst)
	target, counterparty := l.ends(od)

	attemptCtx, cancel := context.WithTimeout(ctx, l.cfg.SubmitTimeout)
	defer cancel()

	if l.cfg.ConnectionDelay > 0 {
		ts, err := counterparty.Timestamp(attemptCtx, od.ProofHeight)
		if err != nil {
			return err
		}
		if eligible := ts.Add(l.cfg.ConnectionDelay); time.Now().Before(eligible) {
			return &deferredError{at: eligible}
		}
	}

	if err := l.splitTimedOut(attemptCtx, od); err != nil {
		return err
	}
	if od.Size() == 0 {
		return nil
	}

	entries := od.Entries
	if uint64(len(entries)) > l.cfg.MaxBatchSize {
		entries = entries[:l.cfg.MaxBatchSize]
	}

	msgs, err := l.assemble(attemptCtx, od, target, counterparty, entries)
	if err != nil {
		return err
	}

	var msgIDs []MsgID
	var unrecoverable error
	if err := retry.Do(func() error {
		ids, err := target.SendMsgs(attemptCtx, msgs)
		if err != nil {
			if ClassOf(err) != ClassTransient {
				unrecoverable = err
				return retry.Unrecoverable(err)
			}
			return err
		}
		msgIDs = ids
		return nil
	}, rtyAtt, rtyDel, rtyErr, retry.Context(attemptCtx), retry.OnRetry(func(n uint, err error) {
		logger.Info("retrying batch submission",
			"target_chain_id", od.TargetChainID,
			"try", fmt.Sprintf("%d/%d", n+1, rtyAttNum),
			"error", err.Error(),
		)
	})); err != nil {
		if unrecoverable != nil {
			return unrecoverable
		}
		return err
	}

	var feedbackEvents []ChainEvent
	var resultHeight clienttypes.Height
	for _, id := range msgIDs {
		result, err := target.GetMsgResult(attemptCtx, id)
		if err != nil {
			return err
		}
		if ok, reason := result.Status(); !ok {
			return errors.Wrapf(ErrTxRejected, "execution failed: %s", reason)
		}
		resultHeight = result.BlockHeight()
		feedbackEvents = append(feedbackEvents, result.Events()...)
	}

	od.Entries = od.Entries[len(entries):]

	metrics.RelayedPacketsCounter.Add(ctx, int64(len(entries)), api.WithAttributes(
		AttributeKeyChainID.String(od.TargetChainID),
	))
	logger.Info("batch relayed",
		"target_chain_id", od.TargetChainID,
		"proof_height", od.ProofHeight.String(),
		"entries", len(entries),
		"msgs", len(msgs),
		"attempts", od.Attempts+1,
	)

	l.sendFeedback(EventBatch{
		ChainID: target.ChainID(),
		Height:  resultHeight,
		Events:  feedbackEvents,
	})

	if od.Size() > 0 {
		return &deferredError{at: time.Now()}
	}
	return nil
}

// splitTimedOut moves entries whose packets can no longer be received into a
// new batch of timeout messages targeting the packets' source chain. On an
// ordered channel nothing sent after the first timed-out packet can ever be
// received, so those entries are withheld; the clearing pass re-discovers
// anything that remains actionable.
func (l *Link) splitTimedOut(ctx context.Context, od *OperationalData) error {
	hasRecv := false
	for _, e := range od.Entries {
		if e.Action == ActionRecvPacket {
			hasRecv = true
			break
		}
	}
	if !hasRecv {
		return nil
	}

	target, counterparty := l.ends(od)
	th, err := target.LatestHeight(ctx)
	if err != nil {
		return err
	}
	ts, err := target.Timestamp(ctx, th)
	if err != nil {
		return err
	}

	ordered := l.src.Path().Ordered()
	var live []RelayEntry
	var timedOut []*PacketInfo
	withheld := 0
	for i, e := range od.Entries {
		if e.Action != ActionRecvPacket || !packetTimedOut(e.Packet, th, ts) {
			live = append(live, e)
			continue
		}
		timedOut = append(timedOut, e.Packet)
		if ordered {
			withheld = len(od.Entries) - i - 1
			break
		}
	}
	if len(timedOut) == 0 {
		return nil
	}

	logger := GetChannelPairLogger(l.src, l.dst)
	tod := l.store.lookupOrCreate(counterparty.ChainID(), toHeight(th), time.Now())
	for _, p := range timedOut {
		if tod.contains(ActionTimeoutPacket, p.Sequence) {
			continue
		}
		tod.Append(RelayEntry{Action: ActionTimeoutPacket, Packet: p})
	}
	tod.ready = true
	od.Entries = live

	logger.Info("switching timed-out packets to timeout handling",
		"timed_out", len(timedOut),
		"withheld", withheld,
	)
	return nil
}

// assemble builds the message sequence for the given entries, prepending the
// client update needed for the proofs to verify on the target chain.
func (l *Link) assemble(ctx context.Context, od *OperationalData, target, counterparty *ProvableChain, entries []RelayEntry) ([]sdk.Msg, error) {
	addr, err := target.GetAddress()
	if err != nil {
		return nil, err
	}
	signer := addr.String()

	tlh, err := target.LatestHeight(ctx)
	if err != nil {
		return nil, err
	}
	csRes, err := target.QueryClientState(NewQueryContext(ctx, tlh))
	if err != nil {
		return nil, err
	}
	clientState, err := clienttypes.UnpackClientState(csRes.ClientState)
	if err != nil {
		return nil, err
	}

	var msgs []sdk.Msg

	// state committed at the event height is provable once the next block
	// exists, so the client must cover at least proof height + 1
	proveHeight := clientState.GetLatestHeight()
	needed := od.ProofHeight.Increment()
	if proveHeight.LT(needed) {
		latest, err := counterparty.GetLatestFinalizedHeader(ctx)
		if err != nil {
			return nil, err
		}
		if latest.GetHeight().LT(needed) {
			return nil, &deferredError{at: time.Now().Add(l.cfg.RetryInterval)}
		}
		headers, err := counterparty.SetupHeadersForUpdate(ctx, target, latest)
		if err != nil {
			return nil, err
		}
		for _, h := range headers {
			msg, err := clienttypes.NewMsgUpdateClient(target.Path().ClientID, h, signer)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
		if len(headers) > 0 {
			proveHeight = headers[len(headers)-1].GetHeight()
		} else {
			proveHeight = latest.GetHeight()
		}
	}

	proveCtx := NewQueryContext(ctx, proveHeight)
	for _, e := range entries {
		p := e.Packet
		switch e.Action {
		case ActionRecvPacket:
			commitment := chantypes.CommitPacket(counterparty.Codec(), &p.Packet)
			path := host.PacketCommitmentPath(p.SourcePort, p.SourceChannel, p.Sequence)
			proof, proofHeight, err := counterparty.ProveState(proveCtx, path, commitment)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, chantypes.NewMsgRecvPacket(p.Packet, proof, proofHeight, signer))
		case ActionAcknowledgePacket:
			commitment := chantypes.CommitAcknowledgement(p.Acknowledgement)
			path := host.PacketAcknowledgementPath(p.DestinationPort, p.DestinationChannel, p.Sequence)
			proof, proofHeight, err := counterparty.ProveState(proveCtx, path, commitment)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, chantypes.NewMsgAcknowledgement(p.Packet, p.Acknowledgement, proof, proofHeight, signer))
		case ActionTimeoutPacket:
			var (
				nextSeqRecv uint64
				path        string
				value       []byte
			)
			if target.Path().Ordered() {
				res, err := counterparty.QueryNextSequenceReceive(proveCtx)
				if err != nil {
					return nil, err
				}
				nextSeqRecv = res.NextSequenceReceive
				path = host.NextSequenceRecvPath(p.DestinationPort, p.DestinationChannel)
				value = sdk.Uint64ToBigEndian(nextSeqRecv)
			} else {
				nextSeqRecv = p.Sequence
				path = host.PacketReceiptPath(p.DestinationPort, p.DestinationChannel, p.Sequence)
				value = nil // absence proof
			}
			proof, proofHeight, err := counterparty.ProveState(proveCtx, path, value)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, chantypes.NewMsgTimeout(p.Packet, nextSeqRecv, proof, proofHeight, signer))
		}
	}
	return msgs, nil
}

// clearPending re-derives the backlog from chain state at the latest finalized
// heights and feeds it through the regular batch path. This is the safety net
// behind abandonment, feedback drops, and subscription gaps.
func (l *Link) clearPending(ctx context.Context) error {
	logger := GetChannelPairLogger(l.src, l.dst)
	defer logger.TimeTrack(time.Now(), "ClearPending")

	srcHeader, err := l.src.GetLatestFinalizedHeader(ctx)
	if err != nil {
		return err
	}
	dstHeader, err := l.dst.GetLatestFinalizedHeader(ctx)
	if err != nil {
		return err
	}
	srcCtx := NewQueryContext(ctx, srcHeader.GetHeight())
	dstCtx := NewQueryContext(ctx, dstHeader.GetHeight())

	var (
		eg    = new(errgroup.Group)
		sent  PacketInfoList
		acked PacketInfoList
	)
	eg.Go(func() error {
		return retry.Do(func() error {
			var err error
			sent, err = l.src.QuerySendPackets(srcCtx)
			return err
		}, rtyAtt, rtyDel, rtyErr, retry.Context(ctx), retry.OnRetry(func(n uint, err error) {
			logger.Info("query send packets",
				"src_revision_height", srcCtx.Height().GetRevisionHeight(),
				"try", fmt.Sprintf("%d/%d", n+1, rtyAttNum),
				"error", err.Error(),
			)
		}))
	})
	eg.Go(func() error {
		return retry.Do(func() error {
			var err error
			acked, err = l.src.QueryWrittenAcknowledgements(srcCtx)
			return err
		}, rtyAtt, rtyDel, rtyErr, retry.Context(ctx), retry.OnRetry(func(n uint, err error) {
			logger.Info("query written acknowledgements",
				"src_revision_height", srcCtx.Height().GetRevisionHeight(),
				"try", fmt.Sprintf("%d/%d", n+1, rtyAttNum),
				"error", err.Error(),
			)
		}))
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if len(sent) > 0 {
		unrecv, err := l.dst.QueryUnreceivedPackets(dstCtx, sent.ExtractSequenceList())
		if err != nil {
			return err
		}
		sent = sent.Filter(unrecv)
	}
	if len(acked) > 0 {
		unack, err := l.dst.QueryUnreceivedAcknowledgements(dstCtx, acked.ExtractSequenceList())
		if err != nil {
			return err
		}
		acked = acked.Filter(unack)
	}

	if len(sent) > 0 || len(acked) > 0 {
		var events []ChainEvent
		for _, p := range sent {
			events = append(events, &EventSendPacket{Packet: *p})
		}
		for _, p := range acked {
			events = append(events, &EventWriteAcknowledgement{Packet: *p})
		}
		logger.Info("clearing backlog",
			"unreceived_packets", len(sent),
			"unreceived_acks", len(acked),
		)
		l.processBatch(EventBatch{
			ChainID: l.src.ChainID(),
			Height:  toHeight(srcHeader.GetHeight()),
			Events:  events,
		})
	}

	// everything pending is re-verified against chain state now; flush it all
	l.store.markAllReady()
	return nil
}

// refreshClient updates the client on the destination chain when it is close
// enough to expiry that the prover asks for a refresh.
func (l *Link) refreshClient(ctx context.Context) error {
	logger := GetClientPairLogger(l.src, l.dst)

	required, err := l.src.CheckRefreshRequired(ctx, l.dst)
	if err != nil {
		return err
	}
	if !required {
		return nil
	}

	addr, err := l.dst.GetAddress()
	if err != nil {
		return err
	}
	header, err := l.src.GetLatestFinalizedHeader(ctx)
	if err != nil {
		return err
	}
	headers, err := l.src.SetupHeadersForUpdate(ctx, l.dst, header)
	if err != nil {
		return err
	}
	var msgs []sdk.Msg
	for _, h := range headers {
		msg, err := clienttypes.NewMsgUpdateClient(l.dst.Path().ClientID, h, addr.String())
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	ids, err := l.dst.SendMsgs(ctx, msgs)
	if err != nil {
		return err
	}
	for _, id := range ids {
		result, err := l.dst.GetMsgResult(ctx, id)
		if err != nil {
			return err
		}
		if ok, reason := result.Status(); !ok {
			return errors.Wrapf(ErrTxRejected, "client refresh failed: %s", reason)
		}
	}
	logger.Info("client refreshed", "headers", len(headers))
	return nil
}

// sendFeedback hands the transaction's result events to the dispatcher so the
// opposite link can act on them. Dropping on a full channel is safe: the
// clearing pass recovers anything missed.
func (l *Link) sendFeedback(batch EventBatch) {
	if l.feedback == nil || len(batch.Events) == 0 {
		return
	}
	select {
	case l.feedback <- batch:
	default:
		GetChannelPairLogger(l.src, l.dst).Info("feedback channel full, dropping result events",
			"events", len(batch.Events),
		)
	}
}

func (l *Link) observeBacklog() {
	metrics.BacklogSizeGauge.Set(int64(l.store.backlog()),
		AttributeKeyChainID.String(l.src.ChainID()),
	)
	var oldest int64
	if t := l.store.oldest(); !t.IsZero() {
		oldest = t.UnixNano()
	}
	metrics.BacklogOldestTimestampGauge.Set(oldest,
		AttributeKeyChainID.String(l.src.ChainID()),
	)
}

func packetTimedOut(p *PacketInfo, height ibcexported.Height, ts time.Time) bool {
	if !p.TimeoutHeight.IsZero() && height.GTE(p.TimeoutHeight) {
		return true
	}
	if p.TimeoutTimestamp != 0 && uint64(ts.UnixNano()) >= p.TimeoutTimestamp {
		return true
	}
	return false
}

func toHeight(h ibcexported.Height) clienttypes.Height {
	if ch, ok := h.(clienttypes.Height); ok {
		return ch
	}
	return clienttypes.NewHeight(h.GetRevisionNumber(), h.GetRevisionHeight())
}
