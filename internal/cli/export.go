package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loom/internal/refresh"
	"github.com/kittclouds/loom/pkg/shadow"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export [page-uid]",
		Short: "Write shadow exports for one page or the whole vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, cfg, err := openVault(rootOpts)
			if err != nil {
				return err
			}
			defer v.Close()

			dir := outDir
			if dir == "" {
				dir = v.ShadowDir(cfg)
			}
			if err := ensureDir(dir); err != nil {
				return err
			}
			w := shadow.NewWriter(dir)

			if len(args) == 1 {
				page, err := v.Store.GetPageByUID(args[0])
				if err != nil {
					return err
				}
				blocks, err := v.Store.ListBlocks(page.ID)
				if err != nil {
					return err
				}
				if err := w.WritePage(page, blocks); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), w.PagePath(page.UID))
				return nil
			}

			// Drive the full export through the flusher so it shares the
			// dirty-tracking path the background exporter uses.
			pages, err := v.Store.ListPages()
			if err != nil {
				return err
			}
			f := refresh.NewFlusher(nil)
			for _, p := range pages {
				f.MarkDirty(p.UID)
			}
			n, _, err := f.Flush(func(uid string) error {
				page, err := v.Store.GetPageByUID(uid)
				if err != nil {
					return err
				}
				blocks, err := v.Store.ListBlocks(page.ID)
				if err != nil {
					return err
				}
				return w.WritePage(page, blocks)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages)\n", dir, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "export directory (default <vault>/shadow)")
	return cmd
}
