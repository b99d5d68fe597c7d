package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/DGarbs51/dbplatform/db"
	"github.com/DGarbs51/dbplatform/internal/config"
	"github.com/DGarbs51/dbplatform/internal/dialect"
	"github.com/DGarbs51/dbplatform/internal/prompt"
	"github.com/DGarbs51/dbplatform/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrUnknownPlatform is returned for a --platform value no dialect handles
var ErrUnknownPlatform = errors.New("unknown platform")

// rootOptions holds the persistent flags and the collaborators shared by
// every subcommand
type rootOptions struct {
	platform string
	verbose  bool
	envFile  string

	logger   *zap.Logger
	env      config.Env
	prompter *prompt.Prompter
}

// NewRootCmd creates the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbplatform",
		Short: "Generate DB2 SQL from abstract schema definitions",
		Long: `A CLI tool that turns abstract table definitions and table diffs into
platform specific SQL. DB2 is the primary platform; MySQL and PostgreSQL are
available for comparison.

Generated DDL is printed by default. Use --apply to run it against a live
DB2 database after pre-flight checks, or --dry-run to see what would run.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.env == nil {
				config.LoadEnv(envFiles(opts.envFile)...)
				opts.env = config.OSEnv{}
			}
			if opts.logger != nil {
				return nil
			}

			cfg := zap.NewProductionConfig()
			if opts.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.platform, "platform", "p", "db2", "Target platform ("+strings.Join(dialect.Names(), ", ")+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load connection defaults from this file (default: ./.env)")

	rootCmd.AddCommand(newCreateTableCmd(opts))
	rootCmd.AddCommand(newAlterTableCmd(opts))
	rootCmd.AddCommand(newDropTableCmd(opts))
	rootCmd.AddCommand(newLimitCmd(opts))
	rootCmd.AddCommand(newExprCmd(opts))
	rootCmd.AddCommand(newCatalogCmd(opts))
	rootCmd.AddCommand(newTypesCmd(opts))
	rootCmd.AddCommand(newCapabilitiesCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))

	return rootCmd
}

func envFiles(file string) []string {
	if file == "" {
		return nil
	}
	return []string{file}
}

// resolvePlatform returns the dialect selected by --platform
func (o *rootOptions) resolvePlatform() (dialect.Platform, error) {
	name := config.NormalizeEngine(o.platform)
	p := dialect.New(name)
	if p == nil {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownPlatform, o.platform, strings.Join(dialect.Names(), ", "))
	}
	return p, nil
}

// connect opens a connection to the database described by the environment,
// prompting for whatever is missing
func (o *rootOptions) connect(ctx context.Context, platform dialect.Platform) (*sql.DB, error) {
	cfg := config.Load(o.env)
	if cfg.Engine == "" {
		cfg.Engine = platform.Name()
	}
	if config.Validate(cfg) != nil {
		if o.prompter == nil {
			o.prompter = prompt.DefaultPrompter()
		}
		cfg = o.prompter.PromptDatabase(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Engine != platform.Name() {
		return nil, fmt.Errorf("connection engine %s does not match platform %s", cfg.Engine, platform.Name())
	}
	return db.Open(ctx, cfg, o.logger)
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		ui.Error(os.Stderr, err.Error())
		os.Exit(1)
	}
}
