package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	slogmulti "github.com/samber/slog-multi"
)

type RelayLogger struct {
	slog.Logger
}

var relayLogger *RelayLogger

// InitLogger initializes the global logger with the given parameters.
func InitLogger(logLevel, format, output string, slogHandlers ...slog.Handler) error {
	var writer io.Writer
	switch output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		return errors.New("invalid log output")
	}
	return InitLoggerWithWriter(logLevel, format, writer, slogHandlers...)
}

// InitLoggerWithWriter initializes the global logger to write to the given
// writer. Extra handlers receive every record via fan-out.
func InitLoggerWithWriter(logLevel, format string, writer io.Writer, slogHandlers ...slog.Handler) error {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: true,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(writer, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		return errors.New("invalid log format")
	}

	if len(slogHandlers) > 0 {
		handler = slogmulti.Fanout(append([]slog.Handler{handler}, slogHandlers...)...)
	}

	relayLogger = &RelayLogger{
		*slog.New(handler),
	}
	return nil
}

// GetLogger returns the global logger. InitLogger must be called beforehand.
func GetLogger() *RelayLogger {
	return relayLogger
}

func (rl *RelayLogger) Error(msg string, err error, otherArgs ...any) {
	err = errors.WithStackDepth(err, 1)
	args := []any{
		"error", fmt.Sprintf("%v", err),
	}
	args = append(args, otherArgs...)
	rl.Logger.Error(msg, args...)
}

func (rl *RelayLogger) ErrorContext(ctx context.Context, msg string, err error, otherArgs ...any) {
	err = errors.WithStackDepth(err, 1)
	args := []any{
		"error", fmt.Sprintf("%v", err),
	}
	args = append(args, otherArgs...)
	rl.Logger.ErrorContext(ctx, msg, args...)
}

func (rl *RelayLogger) ErrorWithStack(msg string, err error, otherArgs ...any) {
	err = errors.WithStackDepth(err, 1)
	args := []any{
		"error", fmt.Sprintf("%v", err),
		"stack", fmt.Sprintf("%+v", err),
	}
	args = append(args, otherArgs...)
	rl.Logger.Error(msg, args...)
}

// TimeTrack logs the elapsed time since start. Intended to be deferred.
func (rl *RelayLogger) TimeTrack(start time.Time, name string, otherArgs ...any) {
	elapsed := time.Since(start)
	args := []any{
		"name", name,
		"elapsed", elapsed.Nanoseconds(),
	}
	args = append(args, otherArgs...)
	rl.Logger.Info("time track", args...)
}

func (rl *RelayLogger) TimeTrackContext(ctx context.Context, start time.Time, name string, otherArgs ...any) {
	elapsed := time.Since(start)
	args := []any{
		"name", name,
		"elapsed", elapsed.Nanoseconds(),
	}
	args = append(args, otherArgs...)
	rl.Logger.InfoContext(ctx, "time track", args...)
}

func (rl *RelayLogger) WithChain(
	chainID string,
) *RelayLogger {
	return &RelayLogger{
		*rl.With(
			"chain_id", chainID,
		),
	}
}

func (rl *RelayLogger) WithChannel(
	chainID, portID, channelID string,
) *RelayLogger {
	return &RelayLogger{
		*rl.With(
			"chain_id", chainID,
			"port_id", portID,
			"channel_id", channelID,
		),
	}
}

func (rl *RelayLogger) WithChannelPair(
	srcChainID, srcPortID, srcChannelID string,
	dstChainID, dstPortID, dstChannelID string,
) *RelayLogger {
	return &RelayLogger{
		*rl.With(
			"src_chain_id", srcChainID,
			"src_port_id", srcPortID,
			"src_channel_id", srcChannelID,
			"dst_chain_id", dstChainID,
			"dst_port_id", dstPortID,
			"dst_channel_id", dstChannelID,
		),
	}
}

func (rl *RelayLogger) WithClientPair(
	srcChainID, srcClientID string,
	dstChainID, dstClientID string,
) *RelayLogger {
	return &RelayLogger{
		*rl.With(
			"src_chain_id", srcChainID,
			"src_client_id", srcClientID,
			"dst_chain_id", dstChainID,
			"dst_client_id", dstClientID,
		),
	}
}

func (rl *RelayLogger) WithModule(
	moduleName string,
) *RelayLogger {
	return &RelayLogger{
		*rl.With(
			"module", moduleName,
		),
	}
}
