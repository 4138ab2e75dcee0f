package core

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

// ChainInfo is public information about a chain.
type ChainInfo interface {
	// ChainID returns ID of the chain
	ChainID() string

	// LatestHeight returns the latest height of the chain
	//
	// NOTE: The returned height does not have to be finalized.
	// If a finalized height is needed, use the Prover's `GetLatestFinalizedHeader` instead.
	LatestHeight(ctx context.Context) (ibcexported.Height, error)

	// Timestamp returns the block timestamp at a given height
	Timestamp(ctx context.Context, height ibcexported.Height) (time.Time, error)
}

// Chain represents a chain that supports sending transactions and querying the state
type Chain interface {
	// GetAddress returns the address of relayer
	GetAddress() (sdk.AccAddress, error)

	// Codec returns the codec
	Codec() codec.ProtoCodecMarshaler

	// SetRelayInfo sets source's path and counterparty's info to the chain
	SetRelayInfo(path *PathEnd, counterparty *ProvableChain, counterpartyPath *PathEnd) error

	// Path returns the path
	Path() *PathEnd

	// Init initializes the chain
	Init(homePath string, timeout time.Duration, codec codec.ProtoCodecMarshaler, debug bool) error

	// SetupForRelay performs chain-specific setup before starting the relay
	SetupForRelay(ctx context.Context) error

	// SendMsgs sends msgs to the chain
	SendMsgs(ctx context.Context, msgs []sdk.Msg) ([]MsgID, error)

	// GetMsgResult returns the execution result of a message sent by `SendMsgs`
	GetMsgResult(ctx context.Context, id MsgID) (MsgResult, error)

	// RegisterMsgEventListener registers a given EventListener to the chain
	RegisterMsgEventListener(MsgEventListener)

	ChainInfo
	EventMonitor
	ICS04Querier
}

// MsgEventListener is a listener that listens a msg send to the chain
type MsgEventListener interface {
	// OnSentMsg is a callback function that is called when a msg send to the chain
	OnSentMsg(ctx context.Context, msgs []sdk.Msg) error
}

// ICS04Querier is an interface to the packet-related state of the chain.
// All queries are evaluated at the height carried by the QueryContext.
type ICS04Querier interface {
	// QueryClientState returns the state of the client hosted on this chain
	// that tracks the counterparty chain
	QueryClientState(ctx QueryContext) (*clienttypes.QueryClientStateResponse, error)

	// QueryChannel returns the channel associated with the configured channelID
	QueryChannel(ctx QueryContext) (*chantypes.QueryChannelResponse, error)

	// QuerySendPackets returns packets sent on this chain whose commitments
	// are still present, in the order the underlying SendPacket events occurred
	QuerySendPackets(ctx QueryContext) (PacketInfoList, error)

	// QueryWrittenAcknowledgements returns packets received on this chain for
	// which an acknowledgement has been written, in event order
	QueryWrittenAcknowledgements(ctx QueryContext) (PacketInfoList, error)

	// QueryUnreceivedPackets returns the subset of seqs not yet received on this chain
	QueryUnreceivedPackets(ctx QueryContext, seqs []uint64) ([]uint64, error)

	// QueryUnreceivedAcknowledgements returns the subset of seqs whose acks are not yet
	// processed on this chain
	QueryUnreceivedAcknowledgements(ctx QueryContext, seqs []uint64) ([]uint64, error)

	// QueryNextSequenceReceive returns the next receive sequence of the configured channel
	QueryNextSequenceReceive(ctx QueryContext) (*chantypes.QueryNextSequenceReceiveResponse, error)
}

// QueryContext is a context that contains a height of the target chain for querying states
type QueryContext interface {
	// Context returns `context.Context``
	Context() context.Context

	// Height returns a height of the target chain for querying a state
	Height() ibcexported.Height
}

type queryContext struct {
	ctx    context.Context
	height ibcexported.Height
}

var _ QueryContext = (*queryContext)(nil)

// NewQueryContext returns a new context for querying states
func NewQueryContext(ctx context.Context, height ibcexported.Height) QueryContext {
	return queryContext{ctx: ctx, height: height}
}

// Context returns `context.Context`
func (qc queryContext) Context() context.Context {
	return qc.ctx
}

// Height returns a height of the target chain for querying a state
func (qc queryContext) Height() ibcexported.Height {
	return qc.height
}
