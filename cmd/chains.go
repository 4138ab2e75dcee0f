package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ibc-ferry/ferry/config"
	"github.com/ibc-ferry/ferry/core"
)

func chainsCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "manage chain configurations",
		RunE:  noCommand,
	}

	cmd.AddCommand(
		chainsListCmd(ctx),
		chainsAddCmd(ctx),
	)

	return cmd
}

func chainsListCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "print out configured chain IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range ctx.Config.Chains {
				var cc core.ChainProverConfig
				if err := json.Unmarshal(raw, &cc); err != nil {
					return err
				}
				if err := cc.Init(ctx.Codec); err != nil {
					return err
				}
				chain, err := cc.Build()
				if err != nil {
					return err
				}
				fmt.Println(chain.ChainID())
			}
			return nil
		},
	}
	return cmd
}

func chainsAddCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "add a chain to the list of configured chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString(flagFile)
			if err != nil {
				return err
			}
			if err := fileInputChainAdd(ctx, file); err != nil {
				return err
			}
			return overWriteConfig(ctx)
		},
	}
	cmd = fileFlag(cmd)
	if err := cmd.MarkFlagRequired(flagFile); err != nil {
		panic(err)
	}
	return cmd
}

func fileInputChainAdd(ctx *config.Context, file string) error {
	byt, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var cc core.ChainProverConfig
	if err := json.Unmarshal(byt, &cc); err != nil {
		return err
	}
	if err := cc.Init(ctx.Codec); err != nil {
		return err
	}

	return ctx.Config.AddChain(ctx, cc)
}
