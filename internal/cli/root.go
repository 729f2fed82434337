// Package cli implements the sfh command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/sfh/internal/config"
	"github.com/xiaot623/gogo/sfh/internal/observability"
	"github.com/xiaot623/gogo/sfh/internal/provider"
)

type rootOptions struct {
	configFile string
	logLevel   string
	mock       bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the sfh command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "sfh",
		Short: "SFH therapy chat server with provider failover and axiom compliance",
		Long: `sfh routes client messages to OpenAI-compatible LLM providers (xAI Grok, Groq),
fails over between them, and validates every reply against the 37 SFH axioms,
re-prompting with repair instructions when a reply does not comply.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				if err := os.Setenv("SFH_CONFIG_FILE", opts.configFile); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.mock {
				cfg.Mode = provider.ModeMock
			}
			logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.cfg = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (overrides SFH_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.mock, "mock", false, "use offline mock providers")

	root.AddCommand(
		newServeCommand(opts),
		newChatCommand(opts),
		newValidateCommand(),
		newAxiomsCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
