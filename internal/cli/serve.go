package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkmemo/internal/app"
	"github.com/MrSnakeDoc/linkmemo/internal/memofile"
	"github.com/MrSnakeDoc/linkmemo/internal/version"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(g.serverConfig())
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}

func newInitCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the memo document with its header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.documentConfig()
			if err != nil {
				return err
			}
			codec, err := app.NewCodec(cfg.LabelsFile)
			if err != nil {
				return err
			}
			created, err := memofile.Create(cfg.MemoFile, codec.Header())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", cfg.MemoFile)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, left untouched\n", cfg.MemoFile)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
