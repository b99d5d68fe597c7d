package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/dialect"
	"github.com/DGarbs51/dbplatform/internal/ui"
	"github.com/spf13/cobra"
)

func newLimitCmd(opts *rootOptions) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "limit QUERY",
		Short: "Rewrite a SELECT to return a window of rows",
		Example: `  dbplatform limit "SELECT * FROM users" --limit 10 --offset 20
  dbplatform limit "SELECT * FROM users" --offset 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			query, err := platform.ModifyLimitQuery(args[0], limit, offset)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", dialect.NoLimit, "Maximum number of rows (-1 for no limit)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of rows to skip")
	return cmd
}

// expressions maps an expr KIND to its renderer and the arguments it takes
var expressions = map[string]struct {
	args   string
	minArg int
	maxArg int
	render func(p dialect.Platform, args []string) (string, error)
}{
	"locate": {"STR SUBSTR [START]", 2, 3, func(p dialect.Platform, a []string) (string, error) {
		return p.LocateExpression(a[0], a[1], optional(a, 2)), nil
	}},
	"substring": {"VALUE FROM [LENGTH]", 2, 3, func(p dialect.Platform, a []string) (string, error) {
		return p.SubstringExpression(a[0], a[1], optional(a, 2)), nil
	}},
	"current-date":      {"", 0, 0, fixed(dialect.Platform.CurrentDateSQL)},
	"current-time":      {"", 0, 0, fixed(dialect.Platform.CurrentTimeSQL)},
	"current-timestamp": {"", 0, 0, fixed(dialect.Platform.CurrentTimestampSQL)},
	"dummy-select":      {"", 0, 0, fixed(dialect.Platform.DummySelectSQL)},
	"for-update":        {"", 0, 0, fixed(dialect.Platform.ForUpdateSQL)},
	"temp-table": {"TABLE", 1, 1, func(p dialect.Platform, a []string) (string, error) {
		return p.CreateTemporaryTableSnippetSQL() + " " + p.TemporaryTableName(a[0]), nil
	}},
	"empty-insert": {"TABLE COLUMN", 2, 2, func(p dialect.Platform, a []string) (string, error) {
		return p.EmptyIdentityInsertSQL(a[0], a[1]), nil
	}},
	"result-casing": {"COLUMN", 1, 1, func(p dialect.Platform, a []string) (string, error) {
		return p.SQLResultCasing(a[0]), nil
	}},
	"placeholder": {"POSITION", 1, 1, func(p dialect.Platform, a []string) (string, error) {
		n, err := strconv.Atoi(a[0])
		if err != nil || n < 1 {
			return "", fmt.Errorf("%w: placeholder position must be a positive integer, got %q", dialect.ErrInvalidArgument, a[0])
		}
		return p.Placeholder(n), nil
	}},
	"fk-checks": {"on|off", 1, 1, func(p dialect.Platform, a []string) (string, error) {
		switch a[0] {
		case "on":
			return p.EnableFKChecksSQL()
		case "off":
			return p.DisableFKChecksSQL()
		}
		return "", fmt.Errorf("%w: fk-checks wants on or off, got %q", dialect.ErrInvalidArgument, a[0])
	}},
}

// fixed adapts an argument-free snippet to an expression renderer
func fixed(snippet func(dialect.Platform) string) func(dialect.Platform, []string) (string, error) {
	return func(p dialect.Platform, _ []string) (string, error) {
		return snippet(p), nil
	}
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func expressionKinds() []string {
	kinds := make([]string, 0, len(expressions))
	for k := range expressions {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func newExprCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expr KIND [ARGS...]",
		Short: "Render a platform specific SQL expression",
		Long:  "Render a platform specific SQL expression. KIND is one of: " + strings.Join(expressionKinds(), ", "),
		Example: `  dbplatform expr locate "'abc'" "'b'" 2
  dbplatform expr substring name 1 3
  dbplatform expr current-timestamp
  dbplatform -p pgsql expr placeholder 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			e, ok := expressions[args[0]]
			if !ok {
				return fmt.Errorf("unknown expression %q (want one of %s)", args[0], strings.Join(expressionKinds(), ", "))
			}
			rest := args[1:]
			if len(rest) < e.minArg || len(rest) > e.maxArg {
				return fmt.Errorf("usage: expr %s %s", args[0], e.args)
			}
			out, err := e.render(platform, rest)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// catalogQueries maps a catalog KIND to the query builder. Builders taking a
// table name report needsTable.
var catalogQueries = map[string]struct {
	needsTable bool
	build      func(p dialect.Platform, arg string) (string, error)
}{
	"tables":       {false, func(p dialect.Platform, _ string) (string, error) { return p.ListTablesSQL() }},
	"views":        {false, func(p dialect.Platform, db string) (string, error) { return p.ListViewsSQL(db) }},
	"databases":    {false, func(p dialect.Platform, _ string) (string, error) { return p.ListDatabasesSQL() }},
	"sequences":    {false, func(p dialect.Platform, db string) (string, error) { return p.ListSequencesSQL(db) }},
	"users":        {false, func(p dialect.Platform, _ string) (string, error) { return p.ListUsersSQL() }},
	"columns":      {true, func(p dialect.Platform, t string) (string, error) { return p.ListTableColumnsSQL(t) }},
	"indexes":      {true, func(p dialect.Platform, t string) (string, error) { return p.ListTableIndexesSQL(t) }},
	"foreign-keys": {true, func(p dialect.Platform, t string) (string, error) { return p.ListTableForeignKeysSQL(t) }},
	"constraints":  {true, func(p dialect.Platform, t string) (string, error) { return p.ListTableConstraintsSQL(t) }},
}

func catalogKinds() []string {
	kinds := make([]string, 0, len(catalogQueries))
	for k := range catalogQueries {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog KIND [TABLE]",
		Short: "Print the query that reads schema metadata from the system catalog",
		Long:  "Print the query that reads schema metadata from the system catalog. KIND is one of: " + strings.Join(catalogKinds(), ", "),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			q, ok := catalogQueries[args[0]]
			if !ok {
				return fmt.Errorf("unknown catalog kind %q (want one of %s)", args[0], strings.Join(catalogKinds(), ", "))
			}
			arg := optional(args, 1)
			if q.needsTable && arg == "" {
				return fmt.Errorf("catalog %s requires a table name", args[0])
			}
			sql, err := q.build(platform, arg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		},
	}
}

func newTypesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Show how native column types map to abstract types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			ui.TypeMapping(cmd.OutOrStdout(), platform.Name(), platform.TypeMapping())
			return nil
		},
	}
}

func newCapabilitiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Show which features the platform supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			ui.Capabilities(cmd.OutOrStdout(), p.Name(), []ui.Capability{
				{Name: "Create/drop database", Supported: p.SupportsCreateDropDatabase()},
				{Name: "Savepoints", Supported: p.SupportsSavepoints()},
				{Name: "Release savepoints", Supported: p.SupportsReleaseSavepoints()},
				{Name: "Identity columns", Supported: p.SupportsIdentityColumns()},
				{Name: "Prefers identity columns", Supported: p.PrefersIdentityColumns()},
				{Name: "Foreign key constraints", Supported: p.SupportsForeignKeyConstraints()},
				{Name: "Sequences", Supported: p.SupportsSequences()},
				{Name: "Limit/offset", Supported: p.SupportsLimitOffset()},
				{Name: "Inline column comments", Supported: p.SupportsInlineColumnComments()},
				{Name: "Positional placeholders", Supported: p.PlaceholderStyle() == dialect.PlaceholderPositional},
			})
			return nil
		},
	}
}
