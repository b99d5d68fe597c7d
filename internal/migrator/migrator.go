package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/DGarbs51/dbplatform/internal/preflight"
	"github.com/DGarbs51/dbplatform/internal/prompt"
	"github.com/DGarbs51/dbplatform/internal/schema"
	"github.com/DGarbs51/dbplatform/internal/ui"
	"go.uber.org/zap"
)

// ErrPreflightFailed is returned when a pre-flight check rejects the change
var ErrPreflightFailed = errors.New("pre-flight checks failed")

// Checker validates the target database before a change
type Checker interface {
	CreateTable(ctx context.Context, db *sql.DB, table schema.Table) (*preflight.Result, error)
	AlterTable(ctx context.Context, db *sql.DB, diff schema.TableDiff) (*preflight.Result, error)
}

// Executor runs generated statements
type Executor interface {
	Apply(ctx context.Context, db *sql.DB, stmts []string) (int, error)
}

// Options configures a Migrator
type Options struct {
	Checker   Checker
	Executor  Executor
	Prompter  *prompt.Prompter
	Logger    *zap.Logger
	DryRun    bool
	AssumeYes bool
}

// Migrator applies generated DDL to a live database: pre-flight checks,
// confirmation, then execution
type Migrator struct {
	conn      *sql.DB
	out       io.Writer
	checker   Checker
	executor  Executor
	prompter  *prompt.Prompter
	logger    *zap.Logger
	dryRun    bool
	assumeYes bool
}

// New creates a migrator writing progress to out
func New(conn *sql.DB, out io.Writer, opts Options) *Migrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{
		conn:      conn,
		out:       out,
		checker:   opts.Checker,
		executor:  opts.Executor,
		prompter:  opts.Prompter,
		logger:    logger,
		dryRun:    opts.DryRun,
		assumeYes: opts.AssumeYes,
	}
}

// CreateTable applies the statements that create table
func (m *Migrator) CreateTable(ctx context.Context, table schema.Table, stmts []string) error {
	result, err := m.checker.CreateTable(ctx, m.conn, table)
	if err != nil {
		return fmt.Errorf("pre-flight failed: %w", err)
	}
	return m.run(ctx, table.Name, result, stmts)
}

// AlterTable applies the statements that alter the table described by diff
func (m *Migrator) AlterTable(ctx context.Context, diff schema.TableDiff, stmts []string) error {
	result, err := m.checker.AlterTable(ctx, m.conn, diff)
	if err != nil {
		return fmt.Errorf("pre-flight failed: %w", err)
	}
	return m.run(ctx, diff.Name, result, stmts)
}

func (m *Migrator) run(ctx context.Context, table string, result *preflight.Result, stmts []string) error {
	if !result.Passed {
		ui.Error(m.out, "Pre-flight checks failed. Cannot apply changes.")
		return ErrPreflightFailed
	}

	ui.Header(m.out, "Statements")
	ui.Statements(m.out, stmts)
	fmt.Fprintln(m.out)

	if m.dryRun {
		if _, err := m.executor.Apply(ctx, m.conn, stmts); err != nil {
			return err
		}
		ui.DryRun(m.out, fmt.Sprintf("Would execute %d statements against %s", len(stmts), table))
		return nil
	}

	if !m.assumeYes && !m.prompter.ConfirmWithWarning(
		fmt.Sprintf("This will change %s on the live database", table),
		fmt.Sprintf("Execute %d statements?", len(stmts)),
	) {
		ui.Info(m.out, "Cancelled by user")
		return nil
	}

	start := time.Now()
	n, err := m.executor.Apply(ctx, m.conn, stmts)
	if err != nil {
		ui.Error(m.out, err.Error())
		m.logger.Error("apply failed", zap.String("table", table), zap.Int("executed", n), zap.Error(err))
		return err
	}
	ui.Applied(m.out, n, time.Since(start))
	m.logger.Info("applied", zap.String("table", table), zap.Int("statements", n))
	return nil
}
