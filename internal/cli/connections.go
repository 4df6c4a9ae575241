package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loom/internal/vault"
	"github.com/kittclouds/loom/pkg/connections"
)

// NewConnectionsCommand creates the connections command.
func NewConnectionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "connections <page-uid>",
		Short: "Show pages related to a page by shared and direct links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			pages, err := loadPageLinks(v)
			if err != nil {
				return err
			}
			var active *connections.PageLinks
			var others []connections.PageLinks
			for i := range pages {
				if pages[i].UID == args[0] {
					active = &pages[i]
				} else {
					others = append(others, pages[i])
				}
			}
			if active == nil {
				return fmt.Errorf("page %q not found", args[0])
			}

			for _, c := range connections.Score(*active, others) {
				fmt.Fprintf(cmd.OutOrStdout(), "%.1f\t%s\t%s\n",
					c.Score, c.UID, strings.Join(c.Reasons, "; "))
			}
			return nil
		},
	}
}

// loadPageLinks assembles the per-page link-target adjacency the scorer
// consumes, from the persisted edges.
func loadPageLinks(v *vault.Vault) ([]connections.PageLinks, error) {
	pages, err := v.Store.ListPages()
	if err != nil {
		return nil, err
	}
	edges, err := v.Store.ListPageLinks()
	if err != nil {
		return nil, err
	}

	byUID := make(map[string]int, len(pages))
	out := make([]connections.PageLinks, 0, len(pages))
	for i, p := range pages {
		byUID[p.UID] = i
		out = append(out, connections.PageLinks{
			UID:     p.UID,
			Title:   p.Title,
			Targets: make(map[string]struct{}),
		})
	}
	for _, e := range edges {
		if i, ok := byUID[e.SourcePageUID]; ok {
			out[i].Targets[e.TargetUID] = struct{}{}
		}
	}
	return out, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
