package core

import (
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// ChainEvent is a protocol event observed on a chain, either live through an
// EventMonitor subscription, synthesized by the backlog-clearing pass, or
// extracted from a transaction result.
type ChainEvent interface {
	isChainEvent()
}

var (
	_ ChainEvent = (*EventSendPacket)(nil)
	_ ChainEvent = (*EventWriteAcknowledgement)(nil)
	_ ChainEvent = (*EventTimeoutPacket)(nil)
	_ ChainEvent = (*EventChannelClosed)(nil)
	_ ChainEvent = (*EventUpdateClient)(nil)
	_ ChainEvent = (*EventUnknown)(nil)
)

func (*EventSendPacket) isChainEvent()           {}
func (*EventWriteAcknowledgement) isChainEvent() {}
func (*EventTimeoutPacket) isChainEvent()        {}
func (*EventChannelClosed) isChainEvent()        {}
func (*EventUpdateClient) isChainEvent()         {}
func (*EventUnknown) isChainEvent()              {}

// EventSendPacket is emitted when a packet is sent on the chain.
type EventSendPacket struct {
	Packet PacketInfo
}

// EventWriteAcknowledgement is emitted when the chain, as a packet's destination,
// writes an acknowledgement for a received packet.
type EventWriteAcknowledgement struct {
	Packet PacketInfo
}

// EventTimeoutPacket is emitted when a packet is proven timed out on its source chain.
type EventTimeoutPacket struct {
	Packet PacketInfo
}

// EventChannelClosed is emitted when a channel end transitions to CLOSED.
type EventChannelClosed struct {
	PortID    string
	ChannelID string
	Height    clienttypes.Height
}

// EventUpdateClient is emitted when an on-chain client is advanced.
type EventUpdateClient struct {
	ClientID        string
	ConsensusHeight clienttypes.Height
}

type EventUnknown struct {
	Value any
}

// EventBatch is the unit of delivery from an EventMonitor: all events emitted
// by one chain at one height, in the chain's emission order.
type EventBatch struct {
	ChainID string
	Height  clienttypes.Height
	Events  []ChainEvent
}

func DrainEventBatchChan(batches <-chan EventBatch) []EventBatch {
	var ret []EventBatch
	for b := range batches {
		ret = append(ret, b)
	}
	return ret
}

func MakeEventBatchChan(batches ...EventBatch) <-chan EventBatch {
	ch := make(chan EventBatch, len(batches))
	for _, b := range batches {
		ch <- b
	}
	close(ch)
	return ch
}
