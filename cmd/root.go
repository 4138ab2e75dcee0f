package cmd

import (
	"os"
	"path"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	ibctypes "github.com/cosmos/ibc-go/v8/modules/core/types"
	mocktypes "github.com/datachainlab/ibc-mock-client/modules/light-clients/xx-mock/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ibc-ferry/ferry/config"
	"github.com/ibc-ferry/ferry/log"
	"github.com/ibc-ferry/ferry/metrics"
)

const configPath = "config/config.json"

var (
	homePath string
	debug    bool
)

// Execute builds the command tree for the given modules and runs it.
// This is called by main.main().
func Execute(modules ...config.ModuleI) error {
	cobra.EnableCommandSorting = false

	ctx := &config.Context{
		Modules: modules,
		Codec:   makeCodec(modules),
	}

	rootCmd := &cobra.Command{
		Use:   "ferry",
		Short: "This application relays packets between configured IBC enabled chains",
	}
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&homePath, flagHome, defaultHomePath(), "set home directory")
	rootCmd.PersistentFlags().BoolVarP(&debug, flagDebug, "d", false, "debug output")
	if err := viper.BindPFlag(flagHome, rootCmd.PersistentFlags().Lookup(flagHome)); err != nil {
		return err
	}
	if err := viper.BindPFlag(flagDebug, rootCmd.PersistentFlags().Lookup(flagDebug)); err != nil {
		return err
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// reads `homePath/config/config.json` into `ctx.Config` before each command
		if err := initConfig(ctx, cmd); err != nil {
			return err
		}
		lc := ctx.Config.Global.LoggerConfig
		if err := log.InitLogger(lc.Level, lc.Format, lc.Output); err != nil {
			return err
		}
		return metrics.InitializeMetrics(metrics.ExporterNull{})
	}

	rootCmd.AddCommand(
		configCmd(ctx),
		chainsCmd(ctx),
		pathsCmd(ctx),
		serviceCmd(ctx),
	)
	for _, module := range modules {
		if cmd := module.GetCmd(ctx); cmd != nil {
			rootCmd.AddCommand(cmd)
		}
	}

	return rootCmd.Execute()
}

func defaultHomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ferry"
	}
	return path.Join(home, ".ferry")
}

func makeCodec(modules []config.ModuleI) codec.ProtoCodecMarshaler {
	registry := codectypes.NewInterfaceRegistry()
	ibctypes.RegisterInterfaces(registry)
	mocktypes.RegisterInterfaces(registry)
	for _, module := range modules {
		module.RegisterInterfaces(registry)
	}
	return codec.NewProtoCodec(registry)
}

func noCommand(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
