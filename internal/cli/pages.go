package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPagesCommand creates the pages command group.
func NewPagesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List and manage pages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			pages, err := v.Store.ListPages()
			if err != nil {
				return err
			}
			for _, p := range pages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.UID, p.Title)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <title>",
		Short: "Create a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			p, err := v.Store.CreatePage(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.UID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <uid> <new-title>",
		Short: "Rename a page, rewriting wikilinks that target it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			p, err := v.Store.GetPageByUID(args[0])
			if err != nil {
				return err
			}
			return v.Store.RenamePage(p.ID, args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <uid>",
		Short: "Delete a page and its blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			p, err := v.Store.GetPageByUID(args[0])
			if err != nil {
				return err
			}
			return v.Store.DeletePage(p.ID)
		},
	})

	return cmd
}
