package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loom/pkg/mentions"
)

// NewMentionsCommand creates the mentions command: unlinked references
// to other pages inside a page's blocks, link suggestions in effect.
func NewMentionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mentions <page-uid>",
		Short: "Find unlinked mentions of other pages in a page",
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
			pages, err := v.Store.ListPages()
			if err != nil {
				return err
			}

			var refs []mentions.PageRef
			for _, p := range pages {
				if p.UID == page.UID {
					continue
				}
				refs = append(refs, mentions.PageRef{UID: p.UID, Title: p.Title})
			}
			scanner, err := mentions.NewScanner(refs)
			if err != nil {
				return err
			}

			blocks, err := v.Store.ListBlocks(page.ID)
			if err != nil {
				return err
			}
			for _, b := range blocks {
				for _, m := range scanner.Scan(b.Text) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%q\n", b.UID, m.PageUID, m.Text)
				}
			}
			return nil
		},
	}
}
