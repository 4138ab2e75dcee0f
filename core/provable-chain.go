package core

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProvableChain represents a chain that is supported by the relayer.
//
// It wraps primary methods of the Chain and Prover interfaces with tracing.
// This allows the relayer to provide tracing functionality without modifying module code.
type ProvableChain struct {
	Chain
	Prover
}

// NewProvableChain returns a new ProvableChain instance
func NewProvableChain(chain Chain, prover Prover) *ProvableChain {
	return &ProvableChain{Chain: chain, Prover: prover}
}

func (pc *ProvableChain) Init(homePath string, timeout time.Duration, codec codec.ProtoCodecMarshaler, debug bool) error {
	if err := pc.Chain.Init(homePath, timeout, codec, debug); err != nil {
		return err
	}
	if err := pc.Prover.Init(homePath, timeout, codec, debug); err != nil {
		return err
	}
	return nil
}

func (pc *ProvableChain) SetRelayInfo(path *PathEnd, counterparty *ProvableChain, counterpartyPath *PathEnd) error {
	if err := pc.Chain.SetRelayInfo(path, counterparty, counterpartyPath); err != nil {
		return err
	}
	if err := pc.Prover.SetRelayInfo(path, counterparty, counterpartyPath); err != nil {
		return err
	}
	return nil
}

func (pc *ProvableChain) SetupForRelay(ctx context.Context) error {
	if err := pc.Chain.SetupForRelay(ctx); err != nil {
		return err
	}
	if err := pc.Prover.SetupForRelay(ctx); err != nil {
		return err
	}
	return nil
}

func (pc *ProvableChain) SendMsgs(ctx context.Context, msgs []sdk.Msg) ([]MsgID, error) {
	ctx, span := tracer.Start(ctx, "Chain.SendMsgs", WithChainAttributes(pc.ChainID()))
	defer span.End()

	ids, err := pc.Chain.SendMsgs(ctx, msgs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return ids, err
}

func (pc *ProvableChain) GetMsgResult(ctx context.Context, id MsgID) (MsgResult, error) {
	ctx, span := tracer.Start(ctx, "Chain.GetMsgResult", WithChainAttributes(pc.ChainID()))
	defer span.End()

	result, err := pc.Chain.GetMsgResult(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (pc *ProvableChain) LatestHeight(ctx context.Context) (ibcexported.Height, error) {
	ctx, span := tracer.Start(ctx, "Chain.LatestHeight", WithChainAttributes(pc.ChainID()))
	defer span.End()

	height, err := pc.Chain.LatestHeight(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return height, err
}

func (pc *ProvableChain) QueryUnreceivedPackets(ctx QueryContext, seqs []uint64) ([]uint64, error) {
	ctx, span := StartTraceWithQueryContext(tracer, ctx, "Chain.QueryUnreceivedPackets", WithChannelAttributes(pc))
	defer span.End()

	packets, err := pc.Chain.QueryUnreceivedPackets(ctx, seqs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return packets, err
}

func (pc *ProvableChain) QueryUnreceivedAcknowledgements(ctx QueryContext, seqs []uint64) ([]uint64, error) {
	ctx, span := StartTraceWithQueryContext(tracer, ctx, "Chain.QueryUnreceivedAcknowledgements", WithChannelAttributes(pc))
	defer span.End()

	acks, err := pc.Chain.QueryUnreceivedAcknowledgements(ctx, seqs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return acks, err
}

func (pc *ProvableChain) QuerySendPackets(ctx QueryContext) (PacketInfoList, error) {
	ctx, span := StartTraceWithQueryContext(tracer, ctx, "Chain.QuerySendPackets", WithChannelAttributes(pc))
	defer span.End()

	list, err := pc.Chain.QuerySendPackets(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return list, err
}

func (pc *ProvableChain) QueryWrittenAcknowledgements(ctx QueryContext) (PacketInfoList, error) {
	ctx, span := StartTraceWithQueryContext(tracer, ctx, "Chain.QueryWrittenAcknowledgements", WithChannelAttributes(pc))
	defer span.End()

	list, err := pc.Chain.QueryWrittenAcknowledgements(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return list, err
}

func (pc *ProvableChain) GetLatestFinalizedHeader(ctx context.Context) (Header, error) {
	ctx, span := tracer.Start(ctx, "Prover.GetLatestFinalizedHeader", WithChainAttributes(pc.ChainID()))
	defer span.End()

	header, err := pc.Prover.GetLatestFinalizedHeader(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return header, err
}

func (pc *ProvableChain) SetupHeadersForUpdate(ctx context.Context, counterparty ChainInfo, latestFinalizedHeader Header) ([]Header, error) {
	ctx, span := tracer.Start(ctx, "Prover.SetupHeadersForUpdate",
		WithChainAttributes(pc.ChainID()),
		trace.WithAttributes(attribute.String("counterparty_chain_id", counterparty.ChainID())),
	)
	defer span.End()

	headers, err := pc.Prover.SetupHeadersForUpdate(ctx, counterparty, latestFinalizedHeader)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return headers, err
}

func (pc *ProvableChain) CheckRefreshRequired(ctx context.Context, counterparty ChainInfo) (bool, error) {
	ctx, span := tracer.Start(ctx, "Prover.CheckRefreshRequired",
		WithChainAttributes(pc.ChainID()),
		trace.WithAttributes(attribute.String("counterparty_chain_id", counterparty.ChainID())),
	)
	defer span.End()

	required, err := pc.Prover.CheckRefreshRequired(ctx, counterparty)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return required, err
}

func (pc *ProvableChain) ProveState(ctx QueryContext, path string, value []byte) ([]byte, clienttypes.Height, error) {
	ctx, span := StartTraceWithQueryContext(tracer, ctx, "Prover.ProveState",
		WithChainAttributes(pc.ChainID()),
		trace.WithAttributes(AttributeKeyPath.String(path)),
	)
	defer span.End()

	proof, height, err := pc.Prover.ProveState(ctx, path, value)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return proof, height, err
}
