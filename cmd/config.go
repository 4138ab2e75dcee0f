package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ibc-ferry/ferry/config"
)

func configCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "manage configuration file",
		RunE:    noCommand,
	}

	cmd.AddCommand(
		configShowCmd(ctx),
		configInitCmd(ctx),
	)

	return cmd
}

// Command for inititalizing an empty config at the --home location
func configInitCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "Creates a default home directory at path defined by --home",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := filepath.Join(homePath, configPath)
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists: %s", cfgPath)
			}
			cfg := config.DefaultConfig(cfgPath)
			return cfg.Save()
		},
	}
	return cmd
}

// Command for printing current configuration
func configShowCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"s", "list", "l"},
		Short:   "Prints current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := ctx.Config.ConfigPath
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				return fmt.Errorf("config does not exist: %s", cfgPath)
			}

			out, err := json.MarshalIndent(ctx.Config, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))
			return nil
		},
	}

	return cmd
}

// initConfig reads in config file if it exists; otherwise the default config
// is used in memory.
func initConfig(ctx *config.Context, cmd *cobra.Command) error {
	cfgPath := filepath.Join(homePath, configPath)
	cfg := config.DefaultConfig(cfgPath)
	ctx.Config = &cfg
	ctx.HomePath = homePath

	if _, err := os.Stat(cfgPath); err != nil {
		return nil
	}

	file, err := os.ReadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := json.Unmarshal(file, ctx.Config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}
	ctx.Config.ConfigPath = cfgPath

	if err := config.InitChains(ctx, homePath, debug); err != nil {
		return fmt.Errorf("error parsing chain config: %w", err)
	}
	return nil
}

func overWriteConfig(ctx *config.Context) error {
	return ctx.Config.Save()
}
