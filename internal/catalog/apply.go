package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Applier executes generated statements against a database
type Applier struct {
	logger *zap.Logger
	dryRun bool
}

// NewApplier creates an applier. In dry-run mode statements are logged but
// not executed.
func NewApplier(logger *zap.Logger, dryRun bool) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{logger: logger, dryRun: dryRun}
}

// Apply executes the statements in order and stops at the first failure.
// It returns the number of statements executed.
func (a *Applier) Apply(ctx context.Context, db *sql.DB, stmts []string) (int, error) {
	for i, stmt := range stmts {
		if a.dryRun {
			a.logger.Info("dry run", zap.String("sql", stmt))
			continue
		}
		a.logger.Debug("exec", zap.String("sql", stmt))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	if a.dryRun {
		return 0, nil
	}
	return len(stmts), nil
}
