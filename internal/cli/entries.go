package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/linkmemo/internal/domain"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
	"github.com/MrSnakeDoc/linkmemo/internal/render"
)

func newAddCmd(g *globalFlags) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:     "add <url> <memo>",
		Short:   "Append a new entry",
		Example: `  linkmemo add https://go.dev "The Go site" --tags "go, docs"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			entry, err := store.AddNew(cmd.Context(), args[0], args[1], domain.SplitTags(tags))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", entry.URL, entry.Timestamp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "comma separated tags")
	return cmd
}

func newListCmd(g *globalFlags) *cobra.Command {
	var (
		query  string
		tag    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			items := store.Select(query, tag)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), entryTable(items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "case-insensitive text in url, memo or tags")
	cmd.Flags().StringVar(&tag, "tag", "", "exact tag")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func entryTable(items []memo.Indexed) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Saved", "URL", "Memo", "Tags")
	for _, it := range items {
		t.Row(strconv.Itoa(it.Index), it.Entry.Timestamp, it.Entry.URL, it.Entry.Memo, strings.Join(it.Entry.Tags, ", "))
	}
	return t.Render()
}

func newEditCmd(g *globalFlags) *cobra.Command {
	var url, memoText, tags string

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change url, memo or tags of an entry",
		Long: `Change an entry by its index in 'linkmemo list'. Fields not given keep
their value; --tags "" clears the tags. The timestamp never changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			store, err := g.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			entries := store.Entries()
			if index < 0 || index >= len(entries) {
				return fmt.Errorf("%w: %d (have %d entries)", memo.ErrInvalidIndex, index, len(entries))
			}

			current := entries[index]
			newTags := current.Tags
			if !cmd.Flags().Changed("url") {
				url = current.URL
			}
			if !cmd.Flags().Changed("memo") {
				memoText = current.Memo
			}
			if cmd.Flags().Changed("tags") {
				newTags = domain.SplitTags(tags)
			}

			if err := store.Update(cmd.Context(), index, url, memoText, newTags); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d\n", index)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "new url")
	cmd.Flags().StringVarP(&memoText, "memo", "m", "", "new memo")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "new comma separated tags")
	return cmd
}

func newRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			store, err := g.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			entries := store.Entries()
			if err := store.Remove(cmd.Context(), index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", entries[index].URL)
			return nil
		},
	}
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the document in canonical form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			codec := store.Codec()
			text := codec.FormatAll(store.Entries(), true)
			if !asHTML {
				_, err := fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			page, err := render.New().Page(codec.Labels().Title, text)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(page)
			return err
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render as an HTML page")
	return cmd
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index must be an integer, got %q", s)
	}
	return i, nil
}
