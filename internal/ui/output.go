package ui

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DGarbs51/dbplatform/internal/format"
	"github.com/DGarbs51/dbplatform/internal/schema"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Header prints a bold section header
func Header(w io.Writer, text string) {
	fmt.Fprintf(w, "\n  %s\n", bold(text))
	fmt.Fprintf(w, "  %s\n\n", dim(strings.Repeat("─", len(text)+2)))
}

// Success prints a green checkmark with message
func Success(w io.Writer, text string) {
	fmt.Fprintf(w, "  %s %s\n", green("✓"), text)
}

// Error prints a red X with message
func Error(w io.Writer, text string) {
	fmt.Fprintf(w, "  %s %s\n", red("✗"), text)
}

// Warning prints a yellow warning with message
func Warning(w io.Writer, text string) {
	fmt.Fprintf(w, "  %s %s\n", yellow("⚠"), text)
}

// Info prints an info message
func Info(w io.Writer, text string) {
	fmt.Fprintf(w, "  %s\n", text)
}

// DryRun prints a dry run prefixed message
func DryRun(w io.Writer, text string) {
	fmt.Fprintf(w, "  %s %s\n", cyan("[DRY RUN]"), text)
}

// Statements prints SQL statements one per line, each terminated with a
// semicolon. Output is uncolored so it can be piped into a SQL client.
func Statements(w io.Writer, stmts []string) {
	for _, stmt := range stmts {
		fmt.Fprintln(w, strings.TrimSuffix(stmt, ";")+";")
	}
}

// Applied reports how many statements were executed and how long it took
func Applied(w io.Writer, n int, d time.Duration) {
	Success(w, fmt.Sprintf("Applied %s statements (%s)", format.Number(int64(n)), format.Duration(d)))
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// TableDefinition renders the columns of a table followed by its keys,
// indexes and foreign keys
func TableDefinition(w io.Writer, def schema.Table, defaultFKAction string) {
	Header(w, def.Name)

	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Type", "Length", "Precision", "Not Null", "Default", "Identity"})
	for _, col := range def.Columns {
		t.AppendRow(table.Row{
			col.Name,
			string(col.Type),
			sizeCell(col.Length, col.Fixed),
			precisionCell(col.Precision, col.Scale),
			yesNo(col.NotNull),
			defaultCell(col.Default),
			yesNo(col.Autoincrement),
		})
	}
	t.Render()

	if len(def.PrimaryKey) > 0 {
		fmt.Fprintf(w, "  %s %s\n", cyan("Primary key:"), strings.Join(def.PrimaryKey, ", "))
	}
	for _, idx := range def.Indexes {
		kind := "Index:"
		if idx.Unique {
			kind = "Unique index:"
		}
		fmt.Fprintf(w, "  %s %s (%s)\n", cyan(kind), idx.Name, strings.Join(idx.Columns, ", "))
	}
	for _, fk := range def.ForeignKeys {
		fmt.Fprintf(w, "  %s %s (%s) -> %s (%s) %s\n",
			cyan("Foreign key:"), fk.Name,
			strings.Join(fk.LocalColumns, ", "),
			fk.ForeignTable, strings.Join(fk.ForeignColumns, ", "),
			dim("ON DELETE "+orDefault(fk.OnDelete, defaultFKAction)+" ON UPDATE "+orDefault(fk.OnUpdate, defaultFKAction)),
		)
	}
}

func orDefault(action, def string) string {
	if action == "" {
		return def
	}
	return action
}

// TypeMapping renders a native type to abstract type mapping sorted by native type
func TypeMapping(w io.Writer, platform string, mapping map[string]schema.Type) {
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable(w)
	t.SetTitle(platform)
	t.AppendHeader(table.Row{"Native Type", "Type"})
	for _, name := range names {
		t.AppendRow(table.Row{name, string(mapping[name])})
	}
	t.Render()
}

// Capability is a named feature flag of a platform
type Capability struct {
	Name      string
	Supported bool
}

// Capabilities renders the feature flags of a platform
func Capabilities(w io.Writer, platform string, caps []Capability) {
	t := newTable(w)
	t.SetTitle(platform)
	t.AppendHeader(table.Row{"Capability", "Supported"})
	for _, c := range caps {
		mark := red("no")
		if c.Supported {
			mark = green("yes")
		}
		t.AppendRow(table.Row{c.Name, mark})
	}
	t.Render()
}

// Views renders view names with their definitions shortened to one line
func Views(w io.Writer, views []schema.View) {
	if len(views) == 0 {
		fmt.Fprintln(w, "(0 views)")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"View", "Definition"})
	for _, v := range views {
		t.AppendRow(table.Row{v.Name, format.Truncate(format.OneLine(v.SQL), 80)})
	}
	t.Render()
}

func sizeCell(length int, fixed bool) string {
	if length <= 0 {
		return ""
	}
	if fixed {
		return strconv.Itoa(length) + " (fixed)"
	}
	return strconv.Itoa(length)
}

func precisionCell(precision, scale int) string {
	if precision <= 0 {
		return ""
	}
	return fmt.Sprintf("%d, %d", precision, scale)
}

func defaultCell(def *string) string {
	if def == nil {
		return dim("NULL")
	}
	return *def
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
