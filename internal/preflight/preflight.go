package preflight

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/schema"
	"github.com/DGarbs51/dbplatform/internal/ui"
	"go.uber.org/zap"
)

// VersionSQL reads the service level of the connected DB2 instance
const VersionSQL = "SELECT SERVICE_LEVEL FROM SYSIBMADM.ENV_INST_INFO"

// CheckResult represents the result of a single pre-flight check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	Warning bool
}

// Result contains all pre-flight check results
type Result struct {
	Version      string
	MajorVersion int
	Checks       []CheckResult
	Passed       bool
}

func (r *Result) pass(name, message string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Passed: true, Message: message})
}

func (r *Result) warn(name, message string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Passed: true, Warning: true, Message: message})
}

func (r *Result) fail(name, message string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Passed: false, Message: message})
	r.Passed = false
}

// TableLister lists the base tables of the connected database
type TableLister interface {
	ListTableNames(ctx context.Context, db *sql.DB) ([]string, error)
}

// Checker validates a target database before DDL is applied to it
type Checker struct {
	tables TableLister
	out    io.Writer
	logger *zap.Logger
}

// NewChecker creates a checker that reports each check on out
func NewChecker(tables TableLister, out io.Writer, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{tables: tables, out: out, logger: logger}
}

// CreateTable checks that table can be created: the target name must be
// free and every referenced table must exist or be the table itself.
func (c *Checker) CreateTable(ctx context.Context, db *sql.DB, table schema.Table) (*Result, error) {
	result, existing, err := c.start(ctx, db)
	if err != nil {
		return result, err
	}

	name := catalogName(table.Name)
	if existing[name] {
		c.fail(result, "Target table", fmt.Sprintf("Table %s already exists", name))
	} else {
		c.pass(result, "Target table", fmt.Sprintf("Table %s does not exist yet", name))
	}

	c.checkReferences(result, existing, name, table.ForeignKeys)
	return result, nil
}

// AlterTable checks that diff can be applied: the table must exist and a
// rename target must be free.
func (c *Checker) AlterTable(ctx context.Context, db *sql.DB, diff schema.TableDiff) (*Result, error) {
	result, existing, err := c.start(ctx, db)
	if err != nil {
		return result, err
	}

	name := catalogName(diff.Name)
	if existing[name] {
		c.pass(result, "Target table", fmt.Sprintf("Table %s exists", name))
	} else {
		c.fail(result, "Target table", fmt.Sprintf("Table %s does not exist", name))
	}

	if diff.NewName != "" {
		newName := catalogName(diff.NewName)
		if existing[newName] && newName != name {
			c.fail(result, "Rename target", fmt.Sprintf("Table %s already exists", newName))
		} else {
			c.pass(result, "Rename target", fmt.Sprintf("Table %s is free", newName))
		}
		name = newName
	}

	fks := append([]schema.ForeignKey{}, diff.AddedForeignKeys...)
	fks = append(fks, diff.ChangedForeignKeys...)
	c.checkReferences(result, existing, name, fks)
	return result, nil
}

// start runs the checks shared by every operation and returns the set of
// existing table names
func (c *Checker) start(ctx context.Context, db *sql.DB) (*Result, map[string]bool, error) {
	result := &Result{Passed: true}

	ui.Header(c.out, "Pre-flight Checks")

	var version string
	if err := db.QueryRowContext(ctx, VersionSQL).Scan(&version); err != nil {
		// SYSIBMADM views need extra privileges; the DDL itself may still succeed
		c.logger.Debug("version query failed", zap.Error(err))
		c.warn(result, "Server version", fmt.Sprintf("Could not read server version: %s", err))
	} else {
		result.Version = strings.TrimSpace(version)
		result.MajorVersion = extractMajorVersion(result.Version)
		c.pass(result, "Server version", result.Version)
	}

	names, err := c.tables.ListTableNames(ctx, db)
	if err != nil {
		c.fail(result, "Catalog", err.Error())
		return result, nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c.pass(result, "Catalog", fmt.Sprintf("%d tables in catalog", len(names)))

	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}
	return result, existing, nil
}

func (c *Checker) checkReferences(result *Result, existing map[string]bool, self string, fks []schema.ForeignKey) {
	for _, fk := range fks {
		ref := catalogName(fk.ForeignTable)
		if ref == self || existing[ref] {
			continue
		}
		c.fail(result, "Foreign key", fmt.Sprintf("Referenced table %s does not exist", ref))
	}
}

func (c *Checker) pass(result *Result, name, message string) {
	result.pass(name, message)
	ui.Success(c.out, message)
}

func (c *Checker) warn(result *Result, name, message string) {
	result.warn(name, message)
	ui.Warning(c.out, message)
}

func (c *Checker) fail(result *Result, name, message string) {
	result.fail(name, message)
	ui.Error(c.out, message)
}

// catalogName returns name as DB2 stores it in SYSCAT: unquoted identifiers
// are folded to upper case, quoted ones are kept verbatim.
func catalogName(name string) string {
	if schema.IsQuoted(name) {
		return schema.UnquotedName(name)
	}
	return strings.ToUpper(name)
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// extractMajorVersion extracts the major version number from a version string
func extractMajorVersion(version string) int {
	// Match patterns like "DB2 v11.5.8.0", "v10.5.0.10"
	matches := versionPattern.FindStringSubmatch(version)
	if len(matches) >= 2 {
		major, _ := strconv.Atoi(matches[1])
		return major
	}
	return 0
}
