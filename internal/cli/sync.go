package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/loom/internal/store"
)

// NewSyncCommand creates the sync command group.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and append to the sync log",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <page-uid>",
		Short: "List a page's sync ops in replay order",
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
			ops, err := v.Store.ListOpsForPage(page.ID)
			if err != nil {
				return err
			}
			for _, op := range ops {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n",
					op.CreatedAt, op.OpID, op.DeviceID, op.OpType)
			}
			return nil
		},
	})

	var deviceID string
	appendCmd := &cobra.Command{
		Use:   "append <page-uid> <op-type> [payload]",
		Short: "Append one op to the sync log",
		Args:  cobra.RangeArgs(2, 3),
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
			op := &store.SyncOp{PageID: page.ID, DeviceID: deviceID, OpType: args[1]}
			if len(args) == 3 {
				op.Payload = []byte(args[2])
			}
			if err := v.Store.AppendOp(op); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), op.OpID)
			return nil
		},
	}
	appendCmd.Flags().StringVar(&deviceID, "device", "cli", "device id recorded on the op")
	cmd.AddCommand(appendCmd)

	return cmd
}
