package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Fchery87/Rapid-CRM/internal/config"
	"github.com/Fchery87/Rapid-CRM/internal/logging"
)

// rootOptions is shared by every subcommand. cfg and logger are set in
// PersistentPreRunE.
type rootOptions struct {
	version    string
	configFile string
	envFiles   []string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "parser",
		Short: "Credit report normalization service",
		Long: `parser turns tri-bureau credit report documents into a canonical
NormalizedReport: personal info reconciled across bureaus, tradelines
classified and deduplicated, scores, inquiries and public records.

Run it as an HTTP API, a parse-job worker, or both; or parse local files.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{
				ConfigFile: opts.configFile,
				EnvFiles:   opts.envFiles,
				Version:    opts.version,
			})
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logging.Init(cfg.LogFormat, cfg.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (keys match the environment variable names)")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load (default .env)")

	cmd.AddGroup(
		&cobra.Group{ID: "serve", Title: "Service Commands:"},
		&cobra.Group{ID: "local", Title: "Local Commands:"},
	)

	cmd.AddCommand(
		newAPICmd(opts),
		newWorkerCmd(opts),
		newAllCmd(opts),
		newParseCmd(opts),
		newClassifyCmd(opts),
		newVendorsCmd(opts),
		newTokenCmd(opts),
		newHashKeyCmd(),
	)

	return cmd
}
