package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ibc-ferry/ferry/config"
	"github.com/ibc-ferry/ferry/core"
	"github.com/ibc-ferry/ferry/metrics"
)

func serviceCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Relay Service Commands",
		Long:  "Commands to manage the relay service",
		RunE:  noCommand,
	}
	cmd.AddCommand(
		startCmd(ctx),
	)
	return cmd
}

func startCmd(ctx *config.Context) *cobra.Command {
	const flagPrometheusAddr = "prometheus-addr"

	cmd := &cobra.Command{
		Use:   "start [path-name...]",
		Short: "start the relay engine on the given paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := metrics.ShutdownMetrics(cmd.Context()); err != nil {
				return fmt.Errorf("failed to shutdown the metrics subsystem with null exporter: %v", err)
			}
			addr := viper.GetString(flagPrometheusAddr)
			if addr == "" {
				addr = ctx.Config.Global.PrometheusAddr
			}
			if err := metrics.InitializeMetrics(metrics.ExporterProm{Addr: addr}); err != nil {
				return fmt.Errorf("failed to re-initialize the metrics subsystem with prometheus exporter: %v", err)
			}

			sv := core.NewSupervisor(ctx.Config.Supervisor)
			for _, name := range args {
				chains, src, dst, err := ctx.Config.ChainsFromPath(name)
				if err != nil {
					return err
				}
				path, err := ctx.Config.Paths.Get(name)
				if err != nil {
					return err
				}
				if err := sv.AddPath(chains[src], chains[dst], path); err != nil {
					return err
				}
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := sv.Start(sigCtx); err != nil {
				return err
			}
			<-sigCtx.Done()
			sv.Shutdown()
			return nil
		},
	}
	cmd.Flags().String(flagPrometheusAddr, "", "host address to which the prometheus exporter listens")
	if err := viper.BindPFlag(flagPrometheusAddr, cmd.Flags().Lookup(flagPrometheusAddr)); err != nil {
		panic(err)
	}
	return cmd
}
