package schema

import "strings"

// Type is an abstract, platform independent column type
type Type string

const (
	TypeInteger  Type = "integer"
	TypeBigInt   Type = "bigint"
	TypeSmallInt Type = "smallint"
	TypeString   Type = "string"
	TypeText     Type = "text"
	TypeBoolean  Type = "boolean"
	TypeDateTime Type = "datetime"
	TypeDate     Type = "date"
	TypeTime     Type = "time"
	TypeDecimal  Type = "decimal"
	TypeFloat    Type = "float"
)

// Types lists every abstract type a platform is expected to declare
var Types = []Type{
	TypeInteger, TypeBigInt, TypeSmallInt,
	TypeString, TypeText, TypeBoolean,
	TypeDateTime, TypeDate, TypeTime,
	TypeDecimal, TypeFloat,
}

// IsIntegerType reports whether t is one of the integer types
func IsIntegerType(t Type) bool {
	return t == TypeInteger || t == TypeBigInt || t == TypeSmallInt
}

// Column describes a single column as supplied by the caller
type Column struct {
	Name             string  `yaml:"name"`
	Type             Type    `yaml:"type"`
	Length           int     `yaml:"length,omitempty"`
	Fixed            bool    `yaml:"fixed,omitempty"`
	Precision        int     `yaml:"precision,omitempty"`
	Scale            int     `yaml:"scale,omitempty"`
	NotNull          bool    `yaml:"notnull,omitempty"`
	Default          *string `yaml:"default,omitempty"`
	Autoincrement    bool    `yaml:"autoincrement,omitempty"`
	Version          bool    `yaml:"version,omitempty"`
	Unique           bool    `yaml:"unique,omitempty"`
	Unsigned         bool    `yaml:"unsigned,omitempty"`
	Check            string  `yaml:"check,omitempty"`
	Comment          string  `yaml:"comment,omitempty"`
	ColumnDefinition string  `yaml:"definition,omitempty"` // raw declaration, replaces type and modifiers
}

// Index describes an index or unique constraint
type Index struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
	Primary bool     `yaml:"primary,omitempty"`
}

// ForeignKey describes a foreign key constraint
type ForeignKey struct {
	Name           string   `yaml:"name,omitempty"`
	LocalColumns   []string `yaml:"columns"`
	ForeignTable   string   `yaml:"references"`
	ForeignColumns []string `yaml:"foreign_columns"`
	OnUpdate       string   `yaml:"on_update,omitempty"`
	OnDelete       string   `yaml:"on_delete,omitempty"`
}

// View is a named query
type View struct {
	Name string `yaml:"name"`
	SQL  string `yaml:"sql"`
}

// Table is the full definition used for CREATE TABLE
type Table struct {
	Name              string       `yaml:"name"`
	Columns           []Column     `yaml:"columns"`
	PrimaryKey        []string     `yaml:"primary_key,omitempty"`
	Indexes           []Index      `yaml:"indexes,omitempty"`
	UniqueConstraints []Index      `yaml:"unique_constraints,omitempty"`
	ForeignKeys       []ForeignKey `yaml:"foreign_keys,omitempty"`
}

// Column returns the column with the given name (case-insensitive)
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(UnquotedName(c.Name), UnquotedName(name)) {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnDiff is a column whose definition changed
type ColumnDiff struct {
	OldColumnName string `yaml:"old_name"`
	Column        Column `yaml:"column"`
}

// RenamedColumn is a column that only changed its name
type RenamedColumn struct {
	OldName string `yaml:"old_name"`
	Column  Column `yaml:"column"`
}

// TableDiff describes the changes between two versions of a table. It is
// computed by the caller; platforms only render it.
type TableDiff struct {
	Name    string `yaml:"name"`
	NewName string `yaml:"new_name,omitempty"`

	AddedColumns   []Column        `yaml:"added_columns,omitempty"`
	RemovedColumns []Column        `yaml:"removed_columns,omitempty"`
	ChangedColumns []ColumnDiff    `yaml:"changed_columns,omitempty"`
	RenamedColumns []RenamedColumn `yaml:"renamed_columns,omitempty"`

	AddedIndexes   []Index `yaml:"added_indexes,omitempty"`
	ChangedIndexes []Index `yaml:"changed_indexes,omitempty"`
	RemovedIndexes []Index `yaml:"removed_indexes,omitempty"`

	AddedForeignKeys   []ForeignKey `yaml:"added_foreign_keys,omitempty"`
	ChangedForeignKeys []ForeignKey `yaml:"changed_foreign_keys,omitempty"`
	RemovedForeignKeys []ForeignKey `yaml:"removed_foreign_keys,omitempty"`
}

// Quoter quotes identifiers for a specific platform
type Quoter interface {
	QuoteIdentifier(name string) string
}

// IsQuoted reports whether name carries the backtick quoting marker
func IsQuoted(name string) bool {
	return len(name) >= 2 && name[0] == '`' && name[len(name)-1] == '`'
}

// UnquotedName strips the backtick quoting marker
func UnquotedName(name string) string {
	if IsQuoted(name) {
		return name[1 : len(name)-1]
	}
	return name
}

// QuotedName returns the name as it should appear in SQL. Names written as
// `name` are quoted with the platform's identifier quote; others are emitted as-is.
func QuotedName(name string, q Quoter) string {
	if IsQuoted(name) {
		return q.QuoteIdentifier(UnquotedName(name))
	}
	return name
}
