package core

import (
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// MsgID is an identifier of a message that was sent to a chain
type MsgID interface {
	IsMsgID()
}

// MsgResult is the execution result of a message identified by a MsgID
type MsgResult interface {
	// BlockHeight returns the height of the block that includes the message
	BlockHeight() clienttypes.Height
	// Status returns whether the execution succeeded, and the failure reason if not
	Status() (bool, string)
	// Events returns the protocol events emitted by the message execution
	Events() []ChainEvent
}
