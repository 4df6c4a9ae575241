package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loom/pkg/outline"
)

// NewOutlineCommand creates the outline command: the visible projection
// of a page under a set of collapsed blocks.
func NewOutlineCommand(rootOpts *RootOptions) *cobra.Command {
	var collapse []string

	cmd := &cobra.Command{
		Use:   "outline <page-uid>",
		Short: "Print a page's visible outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			page, err := v.Store.GetPageByUID(args[0])
			if err != nil {
				return err
			}
			blocks, err := v.Store.ListBlocks(page.ID)
			if err != nil {
				return err
			}

			rows := make([]outline.Row, len(blocks))
			for i, b := range blocks {
				rows[i] = outline.Row{UID: b.UID, Indent: b.Indent, Type: outline.BlockType(b.Type)}
			}
			collapsed := make(map[string]bool, len(collapse))
			for _, uid := range collapse {
				collapsed[uid] = true
			}

			p := outline.Project(rows, collapsed)
			for _, actual := range p.VisibleToActual {
				b := blocks[actual]
				marker := " "
				if p.HasChildren[actual] && collapsed[b.UID] {
					marker = "+"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\t%s\n",
					strings.Repeat("  ", b.Indent), marker, b.UID, b.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "block uids to treat as collapsed")
	return cmd
}
