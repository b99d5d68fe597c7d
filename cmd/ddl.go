package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/DGarbs51/dbplatform/internal/catalog"
	"github.com/DGarbs51/dbplatform/internal/dialect"
	"github.com/DGarbs51/dbplatform/internal/migrator"
	"github.com/DGarbs51/dbplatform/internal/preflight"
	"github.com/DGarbs51/dbplatform/internal/prompt"
	"github.com/DGarbs51/dbplatform/internal/schema"
	"github.com/DGarbs51/dbplatform/internal/ui"
	"github.com/spf13/cobra"
)

// applyFlags controls whether generated DDL is executed
type applyFlags struct {
	apply     bool
	dryRun    bool
	assumeYes bool
}

func (f *applyFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.apply, "apply", false, "Execute the statements against the configured DB2 database")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Run pre-flight checks and show what would be executed without making changes")
	cmd.Flags().BoolVarP(&f.assumeYes, "yes", "y", false, "Do not ask for confirmation before executing")
}

func (f *applyFlags) enabled() bool {
	return f.apply || f.dryRun
}

func newCreateTableCmd(opts *rootOptions) *cobra.Command {
	var flags applyFlags
	cmd := &cobra.Command{
		Use:   "create-table FILE",
		Short: "Generate CREATE TABLE statements from a YAML table definition",
		Long: `Generate the statements that create a table, its foreign keys and its
indexes. FILE is a YAML table definition, or - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			table, err := schema.LoadTable(r)
			if err != nil {
				return err
			}
			stmts, err := platform.CreateTableSQL(table)
			if err != nil {
				return fmt.Errorf("create table %s: %w", table.Name, err)
			}

			if !flags.enabled() {
				ui.Statements(cmd.OutOrStdout(), stmts)
				return nil
			}
			return opts.withMigrator(cmd, platform, flags, func(ctx context.Context, m *migrator.Migrator) error {
				return m.CreateTable(ctx, table, stmts)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newAlterTableCmd(opts *rootOptions) *cobra.Command {
	var flags applyFlags
	cmd := &cobra.Command{
		Use:   "alter-table FILE",
		Short: "Generate ALTER TABLE statements from a YAML table diff",
		Long: `Generate the statements that apply a table diff: column changes, a table
rename, then foreign key and index changes. FILE is a YAML table diff, or -
to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			diff, err := schema.LoadTableDiff(r)
			if err != nil {
				return err
			}
			stmts, err := platform.AlterTableSQL(diff)
			if err != nil {
				return fmt.Errorf("alter table %s: %w", diff.Name, err)
			}
			if len(stmts) == 0 {
				ui.Info(cmd.ErrOrStderr(), "No changes")
				return nil
			}

			if !flags.enabled() {
				ui.Statements(cmd.OutOrStdout(), stmts)
				return nil
			}
			return opts.withMigrator(cmd, platform, flags, func(ctx context.Context, m *migrator.Migrator) error {
				return m.AlterTable(ctx, diff, stmts)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newDropTableCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop-table TABLE",
		Short: "Generate a DROP TABLE statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			ui.Statements(cmd.OutOrStdout(), []string{platform.DropTableSQL(args[0])})
			return nil
		},
	}
}

// withMigrator connects to the target database and hands a configured
// migrator to fn. Only DB2 targets are supported since pre-flight checks
// read the DB2 catalog.
func (o *rootOptions) withMigrator(cmd *cobra.Command, platform dialect.Platform, flags applyFlags, fn func(context.Context, *migrator.Migrator) error) error {
	if platform.Name() != "db2" {
		return fmt.Errorf("--apply and --dry-run: %w", &dialect.NotSupportedError{Platform: platform.Name(), Op: "Apply"})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := o.connect(ctx, platform)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer conn.Close()

	if o.prompter == nil {
		o.prompter = prompt.DefaultPrompter()
	}
	out := cmd.OutOrStdout()
	m := migrator.New(conn, out, migrator.Options{
		Checker:   preflight.NewChecker(catalog.NewReader(o.logger), out, o.logger),
		Executor:  catalog.NewApplier(o.logger, flags.dryRun),
		Prompter:  o.prompter,
		Logger:    o.logger,
		DryRun:    flags.dryRun,
		AssumeYes: flags.assumeYes,
	})

	err = fn(ctx, m)
	if errors.Is(err, migrator.ErrPreflightFailed) {
		return fmt.Errorf("nothing applied: %w", err)
	}
	return err
}

// openInput opens the named file, or stdin for "-"
func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
