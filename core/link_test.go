package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	ibctm "github.com/cosmos/ibc-go/v8/modules/light-clients/07-tendermint"
	"github.com/stretchr/testify/require"
)

// testHeader is a minimal client message for driving client updates in tests.
type testHeader struct {
	height clienttypes.Height
}

var _ Header = (*testHeader)(nil)

func (h *testHeader) Reset()                        {}
func (h *testHeader) String() string                { return fmt.Sprintf("testHeader(%v)", h.height) }
func (h *testHeader) ProtoMessage()                 {}
func (h *testHeader) XXX_MessageName() string       { return "test.Header" }
func (h *testHeader) Marshal() ([]byte, error)      { return nil, nil }
func (h *testHeader) ClientType() string            { return "test" }
func (h *testHeader) ValidateBasic() error          { return nil }
func (h *testHeader) GetHeight() ibcexported.Height { return h.height }

type testMsgID struct {
	call int
}

func (testMsgID) IsMsgID() {}

type testMsgResult struct {
	height  clienttypes.Height
	failure string
	events  []ChainEvent
}

func (r testMsgResult) BlockHeight() clienttypes.Height { return r.height }
func (r testMsgResult) Status() (bool, string)          { return r.failure == "", r.failure }
func (r testMsgResult) Events() []ChainEvent            { return r.events }

// testChain is an in-memory Chain whose queries and submissions are driven by
// plain fields.
type testChain struct {
	mu sync.Mutex

	id           string
	pathEnd      *PathEnd
	latestHeight clienttypes.Height
	timestamp    time.Time

	// latest height of the client hosted on this chain
	clientHeight clienttypes.Height

	sent        [][]sdk.Msg
	sendErrs    []error
	sendCalls   int
	execFailure string

	// events attached to every message result
	resultEvents []ChainEvent

	sendPackets       PacketInfoList
	writtenAcks       PacketInfoList
	unreceivedPackets func([]uint64) []uint64
	unreceivedAcks    func([]uint64) []uint64
	nextSeqRecv       uint64

	batches chan EventBatch
	subErr  error
}

var _ Chain = (*testChain)(nil)

func newTestChain(id, channelID, clientID string, order string) *testChain {
	return &testChain{
		id: id,
		pathEnd: &PathEnd{
			ChainID:      id,
			ClientID:     clientID,
			ConnectionID: "connection-0",
			ChannelID:    channelID,
			PortID:       "transfer",
			Order:        order,
			Version:      "ics20-1",
		},
		latestHeight: clienttypes.NewHeight(0, 100),
		timestamp:    time.Now(),
		clientHeight: clienttypes.NewHeight(0, 50),
		nextSeqRecv:  1,
	}
}

func (c *testChain) ChainID() string { return c.id }

func (c *testChain) LatestHeight(ctx context.Context) (ibcexported.Height, error) {
	return c.latestHeight, nil
}

func (c *testChain) Timestamp(ctx context.Context, height ibcexported.Height) (time.Time, error) {
	return c.timestamp, nil
}

func (c *testChain) GetAddress() (sdk.AccAddress, error) {
	return sdk.AccAddress([]byte("relayertestaddr00000")), nil
}

func (c *testChain) Codec() codec.ProtoCodecMarshaler { return nil }

func (c *testChain) SetRelayInfo(path *PathEnd, counterparty *ProvableChain, counterpartyPath *PathEnd) error {
	c.pathEnd = path
	return nil
}

func (c *testChain) Path() *PathEnd { return c.pathEnd }

func (c *testChain) Init(homePath string, timeout time.Duration, codec codec.ProtoCodecMarshaler, debug bool) error {
	return nil
}

func (c *testChain) SetupForRelay(ctx context.Context) error { return nil }

func (c *testChain) SendMsgs(ctx context.Context, msgs []sdk.Msg) ([]MsgID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendCalls++
	if len(c.sendErrs) > 0 {
		err := c.sendErrs[0]
		c.sendErrs = c.sendErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	c.sent = append(c.sent, msgs)
	return []MsgID{testMsgID{call: len(c.sent)}}, nil
}

func (c *testChain) GetMsgResult(ctx context.Context, id MsgID) (MsgResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return testMsgResult{
		height:  c.latestHeight,
		failure: c.execFailure,
		events:  c.resultEvents,
	}, nil
}

func (c *testChain) RegisterMsgEventListener(MsgEventListener) {}

func (c *testChain) Subscribe(ctx context.Context) (<-chan EventBatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan EventBatch, 16)
	c.batches = ch
	return ch, nil
}

func (c *testChain) SubscriptionError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subErr
}

func (c *testChain) publish(batch EventBatch) {
	c.mu.Lock()
	ch := c.batches
	c.mu.Unlock()
	ch <- batch
}

func (c *testChain) closeSubscription(err error) {
	c.mu.Lock()
	ch := c.batches
	c.batches = nil
	c.subErr = err
	c.mu.Unlock()
	close(ch)
}

func (c *testChain) QueryClientState(ctx QueryContext) (*clienttypes.QueryClientStateResponse, error) {
	anyClient, err := codectypes.NewAnyWithValue(&ibctm.ClientState{LatestHeight: c.clientHeight})
	if err != nil {
		return nil, err
	}
	return &clienttypes.QueryClientStateResponse{ClientState: anyClient}, nil
}

func (c *testChain) QueryChannel(ctx QueryContext) (*chantypes.QueryChannelResponse, error) {
	return &chantypes.QueryChannelResponse{}, nil
}

func (c *testChain) QuerySendPackets(ctx QueryContext) (PacketInfoList, error) {
	return c.sendPackets, nil
}

func (c *testChain) QueryWrittenAcknowledgements(ctx QueryContext) (PacketInfoList, error) {
	return c.writtenAcks, nil
}

func (c *testChain) QueryUnreceivedPackets(ctx QueryContext, seqs []uint64) ([]uint64, error) {
	if c.unreceivedPackets == nil {
		return seqs, nil
	}
	return c.unreceivedPackets(seqs), nil
}

func (c *testChain) QueryUnreceivedAcknowledgements(ctx QueryContext, seqs []uint64) ([]uint64, error) {
	if c.unreceivedAcks == nil {
		return seqs, nil
	}
	return c.unreceivedAcks(seqs), nil
}

func (c *testChain) QueryNextSequenceReceive(ctx QueryContext) (*chantypes.QueryNextSequenceReceiveResponse, error) {
	return &chantypes.QueryNextSequenceReceiveResponse{NextSequenceReceive: c.nextSeqRecv}, nil
}

func (c *testChain) sentKinds() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ret [][]string
	for _, msgs := range c.sent {
		ret = append(ret, msgKinds(msgs))
	}
	return ret
}

type testProver struct {
	finalizedHeight clienttypes.Height
	refreshRequired bool
	proofPaths      []string
}

var _ Prover = (*testProver)(nil)

func (p *testProver) Init(homePath string, timeout time.Duration, codec codec.ProtoCodecMarshaler, debug bool) error {
	return nil
}

func (p *testProver) SetRelayInfo(path *PathEnd, counterparty *ProvableChain, counterpartyPath *PathEnd) error {
	return nil
}

func (p *testProver) SetupForRelay(ctx context.Context) error { return nil }

func (p *testProver) GetLatestFinalizedHeader(ctx context.Context) (Header, error) {
	return &testHeader{height: p.finalizedHeight}, nil
}

func (p *testProver) SetupHeadersForUpdate(ctx context.Context, counterparty ChainInfo, latestFinalizedHeader Header) ([]Header, error) {
	return []Header{latestFinalizedHeader}, nil
}

func (p *testProver) CheckRefreshRequired(ctx context.Context, counterparty ChainInfo) (bool, error) {
	return p.refreshRequired, nil
}

func (p *testProver) ProveState(ctx QueryContext, path string, value []byte) ([]byte, clienttypes.Height, error) {
	p.proofPaths = append(p.proofPaths, path)
	return []byte("proof"), toHeight(ctx.Height()), nil
}

func msgKinds(msgs []sdk.Msg) []string {
	var ret []string
	for _, msg := range msgs {
		switch m := msg.(type) {
		case *clienttypes.MsgUpdateClient:
			ret = append(ret, fmt.Sprintf("MsgUpdateClient(%s)", m.ClientId))
		case *chantypes.MsgRecvPacket:
			ret = append(ret, fmt.Sprintf("MsgRecvPacket(%d)", m.Packet.Sequence))
		case *chantypes.MsgAcknowledgement:
			ret = append(ret, fmt.Sprintf("MsgAcknowledgement(%d)", m.Packet.Sequence))
		case *chantypes.MsgTimeout:
			ret = append(ret, fmt.Sprintf("MsgTimeout(%d)", m.Packet.Sequence))
		default:
			ret = append(ret, fmt.Sprintf("%T", msg))
		}
	}
	return ret
}

type testRelaySetup struct {
	chainA, chainB   *testChain
	proverA, proverB *testProver
	link             *Link
	feedback         chan EventBatch
}

// newTestLink builds a chainA -> chainB link over fakes. Client heights start
// high enough that no client update is needed unless a test lowers them.
func newTestLink(t *testing.T, cfg *LinkConfig, order string) *testRelaySetup {
	t.Helper()
	s := &testRelaySetup{
		chainA:   newTestChain("chainA", "channel-0", "07-tendermint-0", order),
		chainB:   newTestChain("chainB", "channel-1", "07-tendermint-1", order),
		proverA:  &testProver{finalizedHeight: clienttypes.NewHeight(0, 100)},
		proverB:  &testProver{finalizedHeight: clienttypes.NewHeight(0, 100)},
		feedback: make(chan EventBatch, 8),
	}
	src := NewProvableChain(s.chainA, s.proverA)
	dst := NewProvableChain(s.chainB, s.proverB)
	s.link = NewLink(src, dst, cfg, s.feedback)
	return s
}

func (s *testRelaySetup) sendPacket(seq uint64, timeoutHeight clienttypes.Height) PacketInfo {
	return PacketInfo{
		Packet: chantypes.Packet{
			Sequence:           seq,
			SourcePort:         s.chainA.pathEnd.PortID,
			SourceChannel:      s.chainA.pathEnd.ChannelID,
			DestinationPort:    s.chainB.pathEnd.PortID,
			DestinationChannel: s.chainB.pathEnd.ChannelID,
			Data:               []byte("data"),
			TimeoutHeight:      timeoutHeight,
		},
		EventHeight: clienttypes.NewHeight(0, 10),
	}
}

func (s *testRelaySetup) ackedPacket(seq uint64) PacketInfo {
	return PacketInfo{
		Packet: chantypes.Packet{
			Sequence:           seq,
			SourcePort:         s.chainB.pathEnd.PortID,
			SourceChannel:      s.chainB.pathEnd.ChannelID,
			DestinationPort:    s.chainA.pathEnd.PortID,
			DestinationChannel: s.chainA.pathEnd.ChannelID,
			Data:               []byte("data"),
			TimeoutHeight:      clienttypes.NewHeight(0, 1000),
		},
		Acknowledgement: []byte("ack"),
		EventHeight:     clienttypes.NewHeight(0, 10),
	}
}

func onlyBatch(t *testing.T, s *opDataStore) *OperationalData {
	t.Helper()
	require.Equal(t, 1, s.len())
	for _, od := range s.data {
		return od
	}
	return nil
}

func TestLinkRelaysPacketsWithClientUpdate(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 2}, "UNORDERED")
	s.chainB.clientHeight = clienttypes.NewHeight(0, 5)
	s.proverA.finalizedHeight = clienttypes.NewHeight(0, 12)

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
			&EventSendPacket{Packet: s.sendPacket(4, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Equal(t, [][]string{{
		"MsgUpdateClient(07-tendermint-1)",
		"MsgRecvPacket(3)",
		"MsgRecvPacket(4)",
	}}, s.chainB.sentKinds())
	require.Empty(t, s.chainA.sentKinds())
	require.Equal(t, 0, s.link.store.len())

	// the commitments were proven at the updated client height
	require.Equal(t, []string{
		host.PacketCommitmentPath("transfer", "channel-0", 3),
		host.PacketCommitmentPath("transfer", "channel-0", 4),
	}, s.proverA.proofPaths)
}

func TestLinkSkipsClientUpdateWhenCovered(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Equal(t, [][]string{{"MsgRecvPacket(3)"}}, s.chainB.sentKinds())
}

func TestLinkProcessBatchFiltersAndDedups(t *testing.T) {
	s := newTestLink(t, DefaultLinkConfig(), "UNORDERED")

	foreign := s.sendPacket(2, clienttypes.NewHeight(0, 1000))
	foreign.SourceChannel = "channel-9"

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(1, clienttypes.NewHeight(0, 1000))},
			&EventSendPacket{Packet: foreign},
			&EventSendPacket{Packet: s.sendPacket(1, clienttypes.NewHeight(0, 1000))},
			&EventWriteAcknowledgement{Packet: s.ackedPacket(7)},
			&EventTimeoutPacket{Packet: s.sendPacket(1, clienttypes.NewHeight(0, 1000))},
		},
	})

	od := onlyBatch(t, s.link.store)
	require.Equal(t, 1, od.Size())
	require.False(t, od.contains(ActionRecvPacket, 1))
	require.False(t, od.contains(ActionRecvPacket, 2))
	require.True(t, od.contains(ActionAcknowledgePacket, 7))
}

func TestLinkPermanentFailureSettles(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	s.chainB.sendErrs = []error{errors.Wrap(ErrPacketAlreadyHandled, "tx simulation")}

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Empty(t, s.chainB.sentKinds())
	require.Equal(t, 1, s.chainB.sendCalls)
	require.Equal(t, 0, s.link.store.len())
}

func TestLinkFatalFailureSurfaces(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	s.chainB.sendErrs = []error{errors.Wrap(ErrInsufficientFunds, "fee payment")}

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})

	err := s.link.submitReady(context.TODO())
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, 0, s.link.store.len())
}

func TestLinkTransientFailureRequeuesThenAbandons(t *testing.T) {
	s := newTestLink(t, &LinkConfig{
		MaxBatchSize:     1,
		MaxRetryAttempts: 2,
		RetryInterval:    time.Millisecond,
		SubmitTimeout:    20 * time.Millisecond,
	}, "UNORDERED")
	for i := 0; i < 20; i++ {
		s.chainB.sendErrs = append(s.chainB.sendErrs, errors.Wrap(ErrNodeUnavailable, "dial tcp"))
	}

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})

	// first attempt fails and is requeued with backoff
	require.NoError(t, s.link.submitReady(context.TODO()))
	od := onlyBatch(t, s.link.store)
	require.Equal(t, uint(1), od.Attempts)

	// second attempt exhausts the retry budget; clearing recovers the packet
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, s.link.submitReady(context.TODO()))
	require.Equal(t, 0, s.link.store.len())
	require.Empty(t, s.chainB.sentKinds())
}

func TestLinkDefersUntilClientCanCoverProofHeight(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1, RetryInterval: time.Millisecond}, "UNORDERED")
	s.chainB.clientHeight = clienttypes.NewHeight(0, 5)
	s.proverA.finalizedHeight = clienttypes.NewHeight(0, 8)

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})

	// finalized height 8 cannot prove state committed at height 10
	require.NoError(t, s.link.submitReady(context.TODO()))
	od := onlyBatch(t, s.link.store)
	require.Equal(t, uint(0), od.Attempts)
	require.Equal(t, 0, s.chainB.sendCalls)

	// deferral is not failure: once finality catches up the batch goes through
	s.proverA.finalizedHeight = clienttypes.NewHeight(0, 12)
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.link.submitReady(context.TODO()))
	require.Equal(t, [][]string{{
		"MsgUpdateClient(07-tendermint-1)",
		"MsgRecvPacket(3)",
	}}, s.chainB.sentKinds())
	require.Equal(t, 0, s.link.store.len())
}

func TestLinkDefersForConnectionDelay(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1, ConnectionDelay: time.Hour}, "UNORDERED")
	s.chainA.timestamp = time.Now()

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	od := onlyBatch(t, s.link.store)
	require.Equal(t, uint(0), od.Attempts)
	require.Equal(t, 0, s.chainB.sendCalls)
}

func TestLinkSwitchesTimedOutPacketToTimeout(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	s.chainA.clientHeight = clienttypes.NewHeight(0, 200)
	s.chainB.latestHeight = clienttypes.NewHeight(0, 100)

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(5, clienttypes.NewHeight(0, 8))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Empty(t, s.chainB.sentKinds())
	require.Equal(t, [][]string{{"MsgTimeout(5)"}}, s.chainA.sentKinds())
	require.Equal(t, 0, s.link.store.len())

	// unordered channels prove the absence of the receipt
	require.Equal(t, []string{
		host.PacketReceiptPath("transfer", "channel-1", 5),
	}, s.proverB.proofPaths)
}

func TestLinkOrderedTimeoutWithholdsLaterPackets(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 2}, "ORDERED")
	s.chainA.clientHeight = clienttypes.NewHeight(0, 200)
	s.chainB.latestHeight = clienttypes.NewHeight(0, 100)

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(1, clienttypes.NewHeight(0, 8))},
			&EventSendPacket{Packet: s.sendPacket(2, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	// sequence 2 can never be received after 1 timed out, so it is withheld
	require.Empty(t, s.chainB.sentKinds())
	require.Equal(t, [][]string{{"MsgTimeout(1)"}}, s.chainA.sentKinds())

	// the ordered timeout is proven against the next receive sequence
	require.Equal(t, []string{
		host.NextSequenceRecvPath("transfer", "channel-1"),
	}, s.proverB.proofPaths)
}

func TestLinkClearPending(t *testing.T) {
	s := newTestLink(t, nil, "UNORDERED")
	s.proverA.finalizedHeight = clienttypes.NewHeight(0, 12)

	sent1 := s.sendPacket(1, clienttypes.NewHeight(0, 1000))
	sent2 := s.sendPacket(2, clienttypes.NewHeight(0, 1000))
	acked := s.ackedPacket(7)
	s.chainA.sendPackets = PacketInfoList{&sent1, &sent2}
	s.chainA.writtenAcks = PacketInfoList{&acked}

	// sequence 1 was already received on the destination
	s.chainB.unreceivedPackets = func(seqs []uint64) []uint64 {
		return SubtractSequences(seqs, []uint64{1})
	}

	require.NoError(t, s.link.clearPending(context.TODO()))
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Equal(t, [][]string{{
		"MsgRecvPacket(2)",
		"MsgAcknowledgement(7)",
	}}, s.chainB.sentKinds())
	require.Equal(t, 0, s.link.store.len())
}

func TestLinkFeedsBackResultEvents(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	s.chainB.resultEvents = []ChainEvent{
		&EventWriteAcknowledgement{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
	}

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	select {
	case batch := <-s.feedback:
		require.Equal(t, "chainB", batch.ChainID)
		require.Equal(t, s.chainB.latestHeight, batch.Height)
		require.Len(t, batch.Events, 1)
	default:
		t.Fatal("expected result events on the feedback channel")
	}
}

func TestLinkExecutionFailureIsPermanent(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	s.chainB.execFailure = "out of gas"

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(3, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Equal(t, 0, s.link.store.len())
	require.Equal(t, 1, s.chainB.sendCalls)
}

func TestLinkRefreshClient(t *testing.T) {
	s := newTestLink(t, nil, "UNORDERED")

	s.proverA.refreshRequired = false
	require.NoError(t, s.link.refreshClient(context.TODO()))
	require.Empty(t, s.chainB.sentKinds())

	s.proverA.refreshRequired = true
	s.proverA.finalizedHeight = clienttypes.NewHeight(0, 60)
	require.NoError(t, s.link.refreshClient(context.TODO()))
	require.Equal(t, [][]string{{"MsgUpdateClient(07-tendermint-1)"}}, s.chainB.sentKinds())
}

func TestLinkSubmitsCompletedDeliveryImmediately(t *testing.T) {
	// default tuning: one packet fills neither MaxBatchSize nor MaxBatchAge,
	// yet a fully consumed delivery must not wait for either
	s := newTestLink(t, nil, "UNORDERED")

	s.link.handleEventBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(6, clienttypes.NewHeight(0, 1000))},
		},
	})
	require.NoError(t, s.link.submitReady(context.TODO()))

	require.Equal(t, [][]string{{"MsgRecvPacket(6)"}}, s.chainB.sentKinds())
	require.Equal(t, 0, s.link.store.len())
}

func TestLinkTimeoutEventIgnoresOtherChannels(t *testing.T) {
	s := newTestLink(t, DefaultLinkConfig(), "UNORDERED")

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(5, clienttypes.NewHeight(0, 1000))},
		},
	})

	// same sequence, different path: must not touch this link's pending recv
	foreign := s.sendPacket(5, clienttypes.NewHeight(0, 1000))
	foreign.SourcePort = "othermodule"
	foreign.SourceChannel = "channel-9"
	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 11),
		Events:  []ChainEvent{&EventTimeoutPacket{Packet: foreign}},
	})

	od := onlyBatch(t, s.link.store)
	require.True(t, od.contains(ActionRecvPacket, 5))

	s.link.processBatch(EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 12),
		Events:  []ChainEvent{&EventTimeoutPacket{Packet: s.sendPacket(5, clienttypes.NewHeight(0, 1000))}},
	})
	require.False(t, od.contains(ActionRecvPacket, 5))
}

func TestLinkRunDeliversAndSubmits(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.link.Run(ctx) }()

	require.NoError(t, s.link.Deliver(ctx, EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(9, clienttypes.NewHeight(0, 1000))},
		},
	}))

	require.Eventually(t, func() bool {
		return len(s.chainB.sentKinds()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.False(t, s.link.Disabled())
}

func TestLinkRunDisablesOnFatalError(t *testing.T) {
	s := newTestLink(t, &LinkConfig{MaxBatchSize: 1}, "UNORDERED")
	s.chainB.sendErrs = []error{errors.Wrap(ErrChannelNotFound, "channel-1")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.link.Run(ctx) }()

	require.NoError(t, s.link.Deliver(ctx, EventBatch{
		ChainID: "chainA",
		Height:  clienttypes.NewHeight(0, 10),
		Events: []ChainEvent{
			&EventSendPacket{Packet: s.sendPacket(9, clienttypes.NewHeight(0, 1000))},
		},
	}))

	err := <-done
	require.ErrorIs(t, err, ErrChannelNotFound)
	require.True(t, s.link.Disabled())

	// a disabled link drops further work instead of blocking callers
	require.NoError(t, s.link.Deliver(ctx, EventBatch{ChainID: "chainA"}))
	require.NoError(t, s.link.TriggerClear(ctx))
}

func TestLinkDeliverDoesNotBlockAfterRunExit(t *testing.T) {
	s := newTestLink(t, &LinkConfig{QueueSize: 1}, "UNORDERED")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.link.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)

	// fill the queue; the worker is gone and will never drain it
	s.link.tasks <- taskClear{}

	errs := make(chan error, 3)
	go func() {
		errs <- s.link.Deliver(context.Background(), EventBatch{ChainID: "chainA"})
		errs <- s.link.TriggerClear(context.Background())
		errs <- s.link.TriggerRefresh(context.Background())
	}()
	for i := 0; i < 3; i++ {
		select {
		case err := <-errs:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("producer blocked on a stopped link")
		}
	}
}
