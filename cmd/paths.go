package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ibc-ferry/ferry/config"
	"github.com/ibc-ferry/ferry/core"
)

func pathsCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "manage path configurations",
		Long: `
A path represents the "full path" or "link" for communication between two chains. This includes the client,
connection, and channel ids from both the source and destination chains as well as the relay tuning of the pair`,
		RunE: noCommand,
	}

	cmd.AddCommand(
		pathsListCmd(ctx),
		pathsAddCmd(ctx),
	)

	return cmd
}

func pathsListCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "print out configured paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsn, _ := cmd.Flags().GetBool(flagJSON)
			yml, _ := cmd.Flags().GetBool(flagYAML)
			switch {
			case yml && jsn:
				return fmt.Errorf("can't pass both --json and --yaml, must pick one")
			case yml:
				out, err := yaml.Marshal(ctx.Config.Paths)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			default: // default format is json
				out, err := json.Marshal(ctx.Config.Paths)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
		},
	}
	return yamlFlag(jsonFlag(cmd))
}

func pathsAddCmd(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [path-name]",
		Short: "add a path to the list of paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString(flagFile)
			if err != nil {
				return err
			}
			if err := fileInputPathAdd(ctx, file, args[0]); err != nil {
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

func fileInputPathAdd(ctx *config.Context, file, name string) error {
	byt, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var path core.Path
	if err := json.Unmarshal(byt, &path); err != nil {
		return err
	}

	return ctx.Config.Paths.Add(name, &path)
}
