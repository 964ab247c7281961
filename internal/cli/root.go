// Package cli wires the linkmemo commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkmemo/internal/app"
	"github.com/MrSnakeDoc/linkmemo/internal/config"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

// globalFlags override the file settings from the environment.
type globalFlags struct {
	file   string
	labels string
}

// serverConfig loads the full server configuration; invalid settings panic.
func (g *globalFlags) serverConfig() *config.Config {
	cfg := config.Load()
	g.override(cfg)
	return cfg
}

// documentConfig loads only what the data commands need.
func (g *globalFlags) documentConfig() (*config.Config, error) {
	cfg := config.LoadDocument()
	g.override(cfg)
	if err := cfg.ValidateDocument(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *globalFlags) override(cfg *config.Config) {
	if g.file != "" {
		cfg.MemoFile = g.file
	}
	if g.labels != "" {
		cfg.LabelsFile = g.labels
	}
}

// openStore opens the memo file without loading it.
func (g *globalFlags) openStore() (*memo.Store, error) {
	cfg, err := g.documentConfig()
	if err != nil {
		return nil, err
	}
	return app.OpenStore(cfg, logger.Nop(), false)
}

// loadStore opens the memo file, which must already exist, and loads it.
func (g *globalFlags) loadStore(ctx context.Context) (*memo.Store, error) {
	cfg, err := g.documentConfig()
	if err != nil {
		return nil, err
	}
	store, err := app.OpenStore(cfg, logger.Nop(), false)
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("%w (run 'linkmemo init --file %s' to create it)", err, cfg.MemoFile)
	}
	return store, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "linkmemo",
		Short: "Keep link memos in a plain Markdown file",
		Long: `linkmemo saves links with a memo and tags into a single Markdown document,
newest first when listed, oldest first on disk.

The document can be edited by hand; the server picks up external changes.
Settings come from LINKMEMO_* environment variables; --file and --labels override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.file, "file", "", "memo document path (overrides LINKMEMO_FILE)")
	root.PersistentFlags().StringVar(&g.labels, "labels", "", "labels YAML path (overrides LINKMEMO_LABELS_FILE)")

	root.AddCommand(
		newServeCmd(g),
		newInitCmd(g),
		newAddCmd(g),
		newListCmd(g),
		newEditCmd(g),
		newRmCmd(g),
		newRenderCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
