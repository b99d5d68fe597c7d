package dialect

import (
	"fmt"

	"github.com/DGarbs51/dbplatform/internal/schema"
)

var postgresTypeMapping = map[string]schema.Type{
	"smallint":          schema.TypeSmallInt,
	"int2":              schema.TypeSmallInt,
	"int":               schema.TypeInteger,
	"int4":              schema.TypeInteger,
	"integer":           schema.TypeInteger,
	"serial":            schema.TypeInteger,
	"bigint":            schema.TypeBigInt,
	"int8":              schema.TypeBigInt,
	"bigserial":         schema.TypeBigInt,
	"varchar":           schema.TypeString,
	"character varying": schema.TypeString,
	"char":              schema.TypeString,
	"bpchar":            schema.TypeString,
	"text":              schema.TypeText,
	"boolean":           schema.TypeBoolean,
	"bool":              schema.TypeBoolean,
	"timestamp":         schema.TypeDateTime,
	"timestamptz":       schema.TypeDateTime,
	"date":              schema.TypeDate,
	"time":              schema.TypeTime,
	"numeric":           schema.TypeDecimal,
	"decimal":           schema.TypeDecimal,
	"double precision":  schema.TypeFloat,
	"float8":            schema.TypeFloat,
	"real":              schema.TypeFloat,
	"float4":            schema.TypeFloat,
}

// PostgresPlatform implements Platform for PostgreSQL databases
type PostgresPlatform struct {
	Base
}

// NewPostgres creates the PostgreSQL platform
func NewPostgres() *PostgresPlatform {
	p := &PostgresPlatform{}
	p.Base = newBase(p, "pgsql", postgresTypeMapping)
	return p
}

// Placeholder returns "$N" where N is the position
func (p *PostgresPlatform) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// PlaceholderStyle returns PlaceholderPositional for PostgreSQL
func (p *PostgresPlatform) PlaceholderStyle() PlaceholderStyle {
	return PlaceholderPositional
}

func (p *PostgresPlatform) ClobTypeDeclarationSQL(col schema.Column) string {
	return "TEXT"
}

// IntegerTypeDeclarationSQL uses SERIAL for autoincrement columns
func (p *PostgresPlatform) IntegerTypeDeclarationSQL(col schema.Column) string {
	if col.Autoincrement {
		return "SERIAL"
	}
	return "INT"
}

func (p *PostgresPlatform) BigIntTypeDeclarationSQL(col schema.Column) string {
	if col.Autoincrement {
		return "BIGSERIAL"
	}
	return "BIGINT"
}

func (p *PostgresPlatform) DateTimeTypeDeclarationSQL(col schema.Column) string {
	return "TIMESTAMP(0) WITHOUT TIME ZONE"
}

func (p *PostgresPlatform) TimeTypeDeclarationSQL(col schema.Column) string {
	return "TIME(0) WITHOUT TIME ZONE"
}

// AlterTableSQL renders one statement per change
func (p *PostgresPlatform) AlterTableSQL(diff schema.TableDiff) ([]string, error) {
	var stmts []string
	prefix := "ALTER TABLE " + schema.QuotedName(diff.Name, p) + " "

	for _, col := range diff.AddedColumns {
		decl, err := p.ColumnDeclarationSQL(schema.QuotedName(col.Name, p), col)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		stmts = append(stmts, prefix+"ADD "+decl)
	}
	for _, col := range diff.RemovedColumns {
		stmts = append(stmts, prefix+"DROP "+schema.QuotedName(col.Name, p))
	}
	for _, cd := range diff.ChangedColumns {
		typeDecl, err := p.TypeDeclarationSQL(cd.Column)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		oldName := schema.QuotedName(cd.OldColumnName, p)
		stmts = append(stmts, prefix+"ALTER "+oldName+" TYPE "+typeDecl)
		if cd.Column.NotNull {
			stmts = append(stmts, prefix+"ALTER "+oldName+" SET NOT NULL")
		} else {
			stmts = append(stmts, prefix+"ALTER "+oldName+" DROP NOT NULL")
		}
		newName := schema.QuotedName(cd.Column.Name, p)
		if newName != oldName {
			stmts = append(stmts, prefix+"RENAME COLUMN "+oldName+" TO "+newName)
		}
	}
	for _, rc := range diff.RenamedColumns {
		stmts = append(stmts, prefix+"RENAME COLUMN "+schema.QuotedName(rc.OldName, p)+" TO "+schema.QuotedName(rc.Column.Name, p))
	}
	if diff.NewName != "" {
		stmts = append(stmts, prefix+"RENAME TO "+schema.QuotedName(diff.NewName, p))
	}

	more, err := p.alterTableIndexForeignKeySQL(diff)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", diff.Name, err)
	}
	return append(stmts, more...), nil
}

func (p *PostgresPlatform) DropForeignKeySQL(fk schema.ForeignKey, table string) string {
	return "ALTER TABLE " + table + " DROP CONSTRAINT " + schema.QuotedName(fk.Name, p)
}

func (p *PostgresPlatform) CreateDatabaseSQL(name string) (string, error) {
	return "CREATE DATABASE " + name, nil
}

func (p *PostgresPlatform) DropDatabaseSQL(name string) (string, error) {
	return "DROP DATABASE " + name, nil
}

func (p *PostgresPlatform) DropSequenceSQL(name string) (string, error) {
	return "DROP SEQUENCE " + name, nil
}

func (p *PostgresPlatform) SequenceNextValSQL(name string) (string, error) {
	return "SELECT NEXTVAL(" + p.QuoteLiteral(name) + ")", nil
}

func (p *PostgresPlatform) ListDatabasesSQL() (string, error) {
	return "SELECT datname FROM pg_database", nil
}

func (p *PostgresPlatform) ListSequencesSQL(database string) (string, error) {
	return "SELECT c.relname FROM pg_class c JOIN pg_namespace n ON n.oid = c.relnamespace " +
		"WHERE c.relkind = 'S' AND n.nspname = 'public'", nil
}

func (p *PostgresPlatform) ListTablesSQL() (string, error) {
	return "SELECT table_name FROM information_schema.tables " +
		"WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name", nil
}

func (p *PostgresPlatform) ListViewsSQL(database string) (string, error) {
	return "SELECT viewname, definition FROM pg_views WHERE schemaname = 'public'", nil
}

func (p *PostgresPlatform) ListTableColumnsSQL(table string) (string, error) {
	return "SELECT column_name, data_type, is_nullable, column_default " +
		"FROM information_schema.columns WHERE table_schema = 'public' AND table_name = " +
		p.QuoteLiteral(table) + " ORDER BY ordinal_position", nil
}

// LocateExpression uses POSITION. With a start position the search runs on a
// substring and the result is shifted back.
func (p *PostgresPlatform) LocateExpression(str, substr, startPos string) string {
	if startPos == "" {
		return "POSITION(" + substr + " IN " + str + ")"
	}
	sub := p.SubstringExpression(str, startPos, "")
	pos := "POSITION(" + substr + " IN " + sub + ")"
	return "CASE WHEN (" + pos + " = 0) THEN 0 ELSE (" + pos + " + " + startPos + " - 1) END"
}

// DisableFKChecksSQL returns the PostgreSQL command to disable FK checks
func (p *PostgresPlatform) DisableFKChecksSQL() (string, error) {
	return "SET session_replication_role = replica", nil
}

// EnableFKChecksSQL returns the PostgreSQL command to enable FK checks
func (p *PostgresPlatform) EnableFKChecksSQL() (string, error) {
	return "SET session_replication_role = DEFAULT", nil
}

func (p *PostgresPlatform) SupportsSequences() bool       { return true }
func (p *PostgresPlatform) SupportsIdentityColumns() bool { return true }
