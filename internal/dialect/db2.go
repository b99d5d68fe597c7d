package dialect

import (
	"fmt"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/schema"
)

var db2TypeMapping = map[string]schema.Type{
	"smallint":  schema.TypeSmallInt,
	"bigint":    schema.TypeBigInt,
	"integer":   schema.TypeInteger,
	"time":      schema.TypeTime,
	"date":      schema.TypeDate,
	"varchar":   schema.TypeString,
	"character": schema.TypeString,
	"clob":      schema.TypeText,
	"decimal":   schema.TypeDecimal,
	"double":    schema.TypeFloat,
	"real":      schema.TypeFloat,
	"timestamp": schema.TypeDateTime,
}

// db2ListTableColumnsSQL joins the primary key constraint columns so callers
// can tell which columns form the key (tabconsttype = 'P')
const db2ListTableColumnsSQL = `SELECT DISTINCT c.tabschema, c.tabname, c.colname, c.colno,
                c.typename, c.default, c.nulls, c.length, c.scale,
                c.identity, tc.type AS tabconsttype, k.colseq
                FROM syscat.columns c
                LEFT JOIN (syscat.keycoluse k JOIN syscat.tabconst tc
                ON (k.tabschema = tc.tabschema
                    AND k.tabname = tc.tabname
                    AND tc.type = 'P'))
                ON (c.tabschema = k.tabschema
                    AND c.tabname = k.tabname
                    AND c.colname = k.colname)
                WHERE UPPER(c.tabname) = UPPER(%s) ORDER BY c.colno`

// DB2Platform implements Platform for IBM DB2 (LUW)
type DB2Platform struct {
	Base
}

// NewDB2 creates the DB2 platform
func NewDB2() *DB2Platform {
	p := &DB2Platform{}
	p.Base = newBase(p, "db2", db2TypeMapping)
	return p
}

// ClobTypeDeclarationSQL always declares a 1M CLOB, whatever the column length
func (p *DB2Platform) ClobTypeDeclarationSQL(col schema.Column) string {
	return "CLOB(1M)"
}

// BooleanTypeDeclarationSQL returns SMALLINT, DB2 has no boolean column type
func (p *DB2Platform) BooleanTypeDeclarationSQL(col schema.Column) string {
	return "SMALLINT"
}

func (p *DB2Platform) IntegerTypeDeclarationSQL(col schema.Column) string {
	return "INTEGER" + db2CommonIntegerDeclaration(col)
}

func (p *DB2Platform) BigIntTypeDeclarationSQL(col schema.Column) string {
	return "BIGINT" + db2CommonIntegerDeclaration(col)
}

func (p *DB2Platform) SmallIntTypeDeclarationSQL(col schema.Column) string {
	return "SMALLINT" + db2CommonIntegerDeclaration(col)
}

func db2CommonIntegerDeclaration(col schema.Column) string {
	if col.Autoincrement {
		return " GENERATED BY DEFAULT AS IDENTITY"
	}
	return ""
}

// DateTimeTypeDeclarationSQL declares a second-precision timestamp. Version
// columns get a server side default.
func (p *DB2Platform) DateTimeTypeDeclarationSQL(col schema.Column) string {
	if col.Version {
		return "TIMESTAMP(0) WITH DEFAULT"
	}
	return "TIMESTAMP(0)"
}

func (p *DB2Platform) DateTypeDeclarationSQL(col schema.Column) string {
	return "DATE"
}

func (p *DB2Platform) TimeTypeDeclarationSQL(col schema.Column) string {
	return "TIME"
}

// DefaultValueDeclarationSQL drops caller supplied defaults. Non-timestamp
// version columns start at 1.
func (p *DB2Platform) DefaultValueDeclarationSQL(col schema.Column) string {
	col.Default = nil
	if col.Version && col.Type != schema.TypeDateTime {
		one := "1"
		col.Default = &one
	}
	return p.Base.DefaultValueDeclarationSQL(col)
}

// IndexDeclarationSQL declares indexes inline as unique constraints
func (p *DB2Platform) IndexDeclarationSQL(name string, idx schema.Index) (string, error) {
	return p.UniqueConstraintDeclarationSQL(name, idx)
}

// CreateTableSQL creates the table without inline indexes and adds a
// CREATE INDEX statement per index afterwards
func (p *DB2Platform) CreateTableSQL(table schema.Table) ([]string, error) {
	var indexes []schema.Index
	inline := table
	inline.Indexes = nil
	for _, idx := range table.Indexes {
		if idx.Primary {
			inline.Indexes = append(inline.Indexes, idx)
			continue
		}
		indexes = append(indexes, idx)
	}

	stmts, err := p.createTableSQL(inline)
	if err != nil {
		return nil, err
	}

	tableName := schema.QuotedName(table.Name, p)
	for _, idx := range indexes {
		stmt, err := p.CreateIndexSQL(idx, tableName)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// AlterTableSQL folds all column changes into a single ALTER TABLE, then
// renames the table and applies index and foreign key changes
func (p *DB2Platform) AlterTableSQL(diff schema.TableDiff) ([]string, error) {
	var parts []string
	for _, col := range diff.AddedColumns {
		decl, err := p.ColumnDeclarationSQL(schema.QuotedName(col.Name, p), col)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		parts = append(parts, "ADD COLUMN "+decl)
	}
	for _, col := range diff.RemovedColumns {
		parts = append(parts, "DROP COLUMN "+schema.QuotedName(col.Name, p))
	}
	for _, cd := range diff.ChangedColumns {
		decl, err := p.ColumnDeclarationSQL(schema.QuotedName(cd.Column.Name, p), cd.Column)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		parts = append(parts, "ALTER "+schema.QuotedName(cd.OldColumnName, p)+" "+decl)
	}
	for _, rc := range diff.RenamedColumns {
		parts = append(parts, "RENAME "+schema.QuotedName(rc.OldName, p)+" TO "+schema.QuotedName(rc.Column.Name, p))
	}

	var stmts []string
	if len(parts) > 0 {
		stmts = append(stmts, "ALTER TABLE "+schema.QuotedName(diff.Name, p)+" "+strings.Join(parts, " "))
	}
	if diff.NewName != "" {
		stmts = append(stmts, "RENAME TABLE "+schema.QuotedName(diff.Name, p)+" TO "+schema.QuotedName(diff.NewName, p))
	}

	more, err := p.alterTableIndexForeignKeySQL(diff)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", diff.Name, err)
	}
	return append(stmts, more...), nil
}

func (p *DB2Platform) CreateDatabaseSQL(name string) (string, error) {
	return "CREATE DATABASE " + name, nil
}

func (p *DB2Platform) DropDatabaseSQL(name string) (string, error) {
	return "DROP DATABASE " + name + ";", nil
}

func (p *DB2Platform) EmptyIdentityInsertSQL(table, identifierColumn string) string {
	return "INSERT INTO " + table + " (" + identifierColumn + ") VALUES (DEFAULT)"
}

func (p *DB2Platform) CreateTemporaryTableSnippetSQL() string {
	return "DECLARE GLOBAL TEMPORARY TABLE"
}

// TemporaryTableName prefixes the SESSION schema, DB2 moves declared
// temporary tables there
func (p *DB2Platform) TemporaryTableName(table string) string {
	return "SESSION." + table
}

func (p *DB2Platform) ListTableColumnsSQL(table string) (string, error) {
	return fmt.Sprintf(db2ListTableColumnsSQL, p.QuoteLiteral(table)), nil
}

func (p *DB2Platform) ListTablesSQL() (string, error) {
	return "SELECT NAME FROM SYSIBM.SYSTABLES WHERE TYPE = 'T'", nil
}

func (p *DB2Platform) ListViewsSQL(database string) (string, error) {
	return "SELECT NAME, TEXT FROM SYSIBM.SYSVIEWS", nil
}

func (p *DB2Platform) ListTableIndexesSQL(table string) (string, error) {
	return "SELECT NAME, COLNAMES, UNIQUERULE FROM SYSIBM.SYSINDEXES WHERE TBNAME = UPPER(" + p.QuoteLiteral(table) + ")", nil
}

func (p *DB2Platform) ListTableForeignKeysSQL(table string) (string, error) {
	return "SELECT TBNAME, RELNAME, REFTBNAME, DELETERULE, UPDATERULE, FKCOLNAMES, PKCOLNAMES " +
		"FROM SYSIBM.SYSRELS WHERE TBNAME = UPPER(" + p.QuoteLiteral(table) + ")", nil
}

// doModifyLimitQuery numbers the rows of the original query and keeps the
// requested window. OVER() has no ORDER BY, so the window is only stable when
// the inner query orders its rows. An offset without a limit keeps every row
// past the offset (>= offset+1) rather than an empty BETWEEN window.
func (p *DB2Platform) doModifyLimitQuery(query string, limit, offset int) string {
	if limit == NoLimit && offset == 0 {
		return query
	}

	sql := "SELECT db22.* FROM (SELECT ROW_NUMBER() OVER() AS DC_ROWNUM, db21.* " +
		"FROM (" + query + ") db21) db22 WHERE db22.DC_ROWNUM "
	if limit == NoLimit {
		return sql + fmt.Sprintf(">= %d", offset+1)
	}
	return sql + fmt.Sprintf("BETWEEN %d AND %d", offset+1, offset+limit)
}

func (p *DB2Platform) SubstringExpression(value, from, length string) string {
	if length == "" {
		return "SUBSTR(" + value + ", " + from + ")"
	}
	return "SUBSTR(" + value + ", " + from + ", " + length + ")"
}

func (p *DB2Platform) CurrentDateSQL() string      { return "VALUES CURRENT DATE" }
func (p *DB2Platform) CurrentTimeSQL() string      { return "VALUES CURRENT TIME" }
func (p *DB2Platform) CurrentTimestampSQL() string { return "VALUES CURRENT TIMESTAMP" }

// SQLResultCasing upper-cases the column, DB2 reports result columns in upper case
func (p *DB2Platform) SQLResultCasing(column string) string {
	return strings.ToUpper(column)
}

func (p *DB2Platform) ForUpdateSQL() string {
	return " WITH RR USE AND KEEP UPDATE LOCKS"
}

func (p *DB2Platform) DummySelectSQL() string {
	return "SELECT 1 FROM sysibm.sysdummy1"
}

func (p *DB2Platform) SupportsCreateDropDatabase() bool { return false }
func (p *DB2Platform) SupportsReleaseSavepoints() bool  { return false }
func (p *DB2Platform) SupportsIdentityColumns() bool    { return true }
func (p *DB2Platform) PrefersIdentityColumns() bool     { return true }

// SupportsSavepoints returns false. DB2 savepoints need UNIQUE/ON ROLLBACK
// RETAIN CURSORS clauses the generic savepoint SQL does not emit.
func (p *DB2Platform) SupportsSavepoints() bool { return false }
