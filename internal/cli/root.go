// Package cli wires the command surface: vault resolution, store access
// and the derived views, behind cobra commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/kittclouds/loom/internal/logging"
	"github.com/kittclouds/loom/internal/vault"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	VaultPath  string
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the loom root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "loom",
		Short:         "Loom - local-first outliner core",
		Long:          "Loom manages a local vault of outlined pages: storage, search,\nlink graph, sync log and shadow export.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.VaultPath, "vault", "", "vault directory (overrides LOOM_VAULT and config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $LOOM_CONFIG or ~/.config/loom/config.json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewPagesCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewConnectionsCommand(opts))
	cmd.AddCommand(NewMentionsCommand(opts))
	cmd.AddCommand(NewOutlineCommand(opts))

	return cmd
}

// openVault loads config and opens the vault for a command invocation.
func openVault(opts *RootOptions) (*vault.Vault, vault.Config, error) {
	cfg, err := vault.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, cfg, err
	}
	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	v, err := vault.Open(opts.VaultPath, cfg, logging.New(level))
	if err != nil {
		return nil, cfg, err
	}
	return v, cfg, nil
}
