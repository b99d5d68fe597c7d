package dialect

import "github.com/DGarbs51/dbplatform/internal/schema"

// PlaceholderStyle indicates how SQL parameters are specified
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (MySQL, DB2)
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderPositional uses $1, $2, etc. (PostgreSQL)
	PlaceholderPositional
)

// NoLimit marks an absent limit in ModifyLimitQuery
const NoLimit = -1

// Platform translates the abstract schema model into SQL for one engine.
// Every method is a pure function of its arguments.
type Platform interface {
	// Name returns the platform identifier ("db2", "mysql" or "pgsql")
	Name() string

	// QuoteIdentifier quotes a table/column name for the engine
	QuoteIdentifier(name string) string

	// QuoteLiteral quotes a string literal value
	QuoteLiteral(value string) string

	// Placeholder returns the parameter placeholder for the given position (1-indexed)
	Placeholder(position int) string

	// PlaceholderStyle indicates if placeholders are positional
	PlaceholderStyle() PlaceholderStyle

	// MappedType returns the abstract type for a native database type
	MappedType(dbType string) (schema.Type, error)

	// TypeMapping returns a copy of the native → abstract type table
	TypeMapping() map[string]schema.Type

	// Type declarations
	TypeDeclarationSQL(col schema.Column) (string, error)
	VarcharTypeDeclarationSQL(col schema.Column) string
	VarcharTypeDeclarationSQLSnippet(length int, fixed bool) string
	ClobTypeDeclarationSQL(col schema.Column) string
	BooleanTypeDeclarationSQL(col schema.Column) string
	IntegerTypeDeclarationSQL(col schema.Column) string
	BigIntTypeDeclarationSQL(col schema.Column) string
	SmallIntTypeDeclarationSQL(col schema.Column) string
	DateTimeTypeDeclarationSQL(col schema.Column) string
	DateTypeDeclarationSQL(col schema.Column) string
	TimeTypeDeclarationSQL(col schema.Column) string
	DecimalTypeDeclarationSQL(col schema.Column) string
	FloatDeclarationSQL(col schema.Column) string
	DefaultValueDeclarationSQL(col schema.Column) string

	// Column and constraint declarations
	ColumnDeclarationSQL(name string, col schema.Column) (string, error)
	ColumnDeclarationListSQL(cols []schema.Column) (string, error)
	IndexDeclarationSQL(name string, idx schema.Index) (string, error)
	UniqueConstraintDeclarationSQL(name string, idx schema.Index) (string, error)
	ForeignKeyDeclarationSQL(fk schema.ForeignKey) (string, error)

	// DDL
	CreateTableSQL(table schema.Table) ([]string, error)
	DropTableSQL(table string) string
	AlterTableSQL(diff schema.TableDiff) ([]string, error)
	CreateIndexSQL(idx schema.Index, table string) (string, error)
	DropIndexSQL(idx schema.Index, table string) string
	CreateForeignKeySQL(fk schema.ForeignKey, table string) (string, error)
	DropForeignKeySQL(fk schema.ForeignKey, table string) string
	CreateViewSQL(name, sql string) string
	DropViewSQL(name string) string
	CreateDatabaseSQL(name string) (string, error)
	DropDatabaseSQL(name string) (string, error)
	DropSequenceSQL(name string) (string, error)
	SequenceNextValSQL(name string) (string, error)
	EmptyIdentityInsertSQL(table, identifierColumn string) string
	CreateTemporaryTableSnippetSQL() string
	TemporaryTableName(table string) string

	// Catalog queries
	ListDatabasesSQL() (string, error)
	ListSequencesSQL(database string) (string, error)
	ListTableConstraintsSQL(table string) (string, error)
	ListTableColumnsSQL(table string) (string, error)
	ListTablesSQL() (string, error)
	ListUsersSQL() (string, error)
	ListViewsSQL(database string) (string, error)
	ListTableIndexesSQL(table string) (string, error)
	ListTableForeignKeysSQL(table string) (string, error)

	// Queries and expressions
	ModifyLimitQuery(query string, limit, offset int) (string, error)
	LocateExpression(str, substr, startPos string) string
	SubstringExpression(value, from, length string) string
	CurrentDateSQL() string
	CurrentTimeSQL() string
	CurrentTimestampSQL() string
	ForUpdateSQL() string
	DummySelectSQL() string
	SQLResultCasing(column string) string

	// FK check toggles used around bulk loads
	DisableFKChecksSQL() (string, error)
	EnableFKChecksSQL() (string, error)

	// DefaultFKAction returns the default ON DELETE/UPDATE action
	DefaultFKAction() string

	// Capabilities
	SupportsCreateDropDatabase() bool
	SupportsReleaseSavepoints() bool
	SupportsSavepoints() bool
	SupportsIdentityColumns() bool
	PrefersIdentityColumns() bool
	SupportsForeignKeyConstraints() bool
	SupportsSequences() bool
	SupportsLimitOffset() bool
	SupportsInlineColumnComments() bool
}

// limiter is the platform specific half of ModifyLimitQuery. Base validates
// the arguments and hands over.
type limiter interface {
	doModifyLimitQuery(query string, limit, offset int) string
}

// New returns the appropriate platform for the engine name
func New(engine string) Platform {
	switch engine {
	case "db2":
		return NewDB2()
	case "mysql":
		return NewMySQL()
	case "pgsql":
		return NewPostgres()
	default:
		return nil
	}
}

// Names lists the engines New understands
func Names() []string {
	return []string{"db2", "mysql", "pgsql"}
}
