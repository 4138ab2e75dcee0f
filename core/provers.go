package core

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

// Prover represents a prover that supports generating headers for client
// updates and commitment proofs for relayed state.
type Prover interface {
	// Init initializes the chain
	Init(homePath string, timeout time.Duration, codec codec.ProtoCodecMarshaler, debug bool) error

	// SetRelayInfo sets source's path and counterparty's info to the chain
	SetRelayInfo(path *PathEnd, counterparty *ProvableChain, counterpartyPath *PathEnd) error

	// SetupForRelay performs chain-specific setup before starting the relay
	SetupForRelay(ctx context.Context) error

	LightClient
	StateProver
}

// LightClient provides the header-related functions of the light client
type LightClient interface {
	// GetLatestFinalizedHeader returns the latest finalized header on this chain
	// The returned header is expected to be the latest one of headers that can be verified by the light client
	GetLatestFinalizedHeader(ctx context.Context) (Header, error)

	// SetupHeadersForUpdate creates a sequence of new headers that would create an UpdateClient
	// transaction to the client on the counterparty chain, updating it from the client's current
	// trusted height to `latestFinalizedHeader`.
	SetupHeadersForUpdate(ctx context.Context, counterparty ChainInfo, latestFinalizedHeader Header) ([]Header, error)

	// CheckRefreshRequired returns whether the on-chain client of `counterparty` that tracks
	// this chain needs to be refreshed to avoid expiry
	CheckRefreshRequired(ctx context.Context, counterparty ChainInfo) (bool, error)
}

// StateProver generates commitment proofs of the host chain's state
type StateProver interface {
	// ProveState returns a proof of an IBC state specified by `path` and `value`.
	// The height of the returned proof is the proof height, which can differ from the
	// height in `ctx` when the underlying consensus commits state with a delay.
	// Proving the absence of state is requested with a nil `value`.
	ProveState(ctx QueryContext, path string, value []byte) ([]byte, clienttypes.Height, error)
}

// Header is a client message that advances the trusted height of an on-chain client
type Header interface {
	ibcexported.ClientMessage
	GetHeight() ibcexported.Height
}
