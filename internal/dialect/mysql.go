package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/schema"
)

// mysqlMaxLimit is the largest LIMIT MySQL accepts, used for offset-only queries
const mysqlMaxLimit = "18446744073709551615"

var mysqlTypeMapping = map[string]schema.Type{
	"tinyint":    schema.TypeBoolean,
	"smallint":   schema.TypeSmallInt,
	"mediumint":  schema.TypeInteger,
	"int":        schema.TypeInteger,
	"integer":    schema.TypeInteger,
	"bigint":     schema.TypeBigInt,
	"char":       schema.TypeString,
	"varchar":    schema.TypeString,
	"tinytext":   schema.TypeText,
	"text":       schema.TypeText,
	"mediumtext": schema.TypeText,
	"longtext":   schema.TypeText,
	"datetime":   schema.TypeDateTime,
	"timestamp":  schema.TypeDateTime,
	"date":       schema.TypeDate,
	"time":       schema.TypeTime,
	"decimal":    schema.TypeDecimal,
	"numeric":    schema.TypeDecimal,
	"float":      schema.TypeFloat,
	"double":     schema.TypeFloat,
	"real":       schema.TypeFloat,
}

// MySQLPlatform implements Platform for MySQL databases
type MySQLPlatform struct {
	Base
}

// NewMySQL creates the MySQL platform
func NewMySQL() *MySQLPlatform {
	p := &MySQLPlatform{}
	p.Base = newBase(p, "mysql", mysqlTypeMapping)
	return p
}

// QuoteIdentifier wraps the identifier in backticks
func (p *MySQLPlatform) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// ClobTypeDeclarationSQL picks the smallest TEXT type that fits the length
func (p *MySQLPlatform) ClobTypeDeclarationSQL(col schema.Column) string {
	switch {
	case col.Length <= 0:
		return "LONGTEXT"
	case col.Length <= 255:
		return "TINYTEXT"
	case col.Length <= 65535:
		return "TEXT"
	case col.Length <= 16777215:
		return "MEDIUMTEXT"
	default:
		return "LONGTEXT"
	}
}

func (p *MySQLPlatform) BooleanTypeDeclarationSQL(col schema.Column) string {
	return "TINYINT(1)"
}

func (p *MySQLPlatform) IntegerTypeDeclarationSQL(col schema.Column) string {
	return "INT" + mysqlCommonIntegerDeclaration(col)
}

func (p *MySQLPlatform) BigIntTypeDeclarationSQL(col schema.Column) string {
	return "BIGINT" + mysqlCommonIntegerDeclaration(col)
}

func (p *MySQLPlatform) SmallIntTypeDeclarationSQL(col schema.Column) string {
	return "SMALLINT" + mysqlCommonIntegerDeclaration(col)
}

func mysqlCommonIntegerDeclaration(col schema.Column) string {
	decl := ""
	if col.Unsigned {
		decl += " UNSIGNED"
	}
	if col.Autoincrement {
		decl += " AUTO_INCREMENT"
	}
	return decl
}

func (p *MySQLPlatform) DateTimeTypeDeclarationSQL(col schema.Column) string {
	if col.Version {
		return "TIMESTAMP"
	}
	return "DATETIME"
}

// AlterTableSQL renders one ALTER TABLE with comma separated alterations
func (p *MySQLPlatform) AlterTableSQL(diff schema.TableDiff) ([]string, error) {
	var parts []string
	if diff.NewName != "" {
		parts = append(parts, "RENAME TO "+schema.QuotedName(diff.NewName, p))
	}
	for _, col := range diff.AddedColumns {
		decl, err := p.ColumnDeclarationSQL(schema.QuotedName(col.Name, p), col)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		parts = append(parts, "ADD "+decl)
	}
	for _, col := range diff.RemovedColumns {
		parts = append(parts, "DROP "+schema.QuotedName(col.Name, p))
	}
	for _, cd := range diff.ChangedColumns {
		decl, err := p.ColumnDeclarationSQL(schema.QuotedName(cd.Column.Name, p), cd.Column)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		parts = append(parts, "CHANGE "+schema.QuotedName(cd.OldColumnName, p)+" "+decl)
	}
	for _, rc := range diff.RenamedColumns {
		decl, err := p.ColumnDeclarationSQL(schema.QuotedName(rc.Column.Name, p), rc.Column)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", diff.Name, err)
		}
		parts = append(parts, "CHANGE "+schema.QuotedName(rc.OldName, p)+" "+decl)
	}

	var stmts []string
	if len(parts) > 0 {
		stmts = append(stmts, "ALTER TABLE "+schema.QuotedName(diff.Name, p)+" "+strings.Join(parts, ", "))
	}
	more, err := p.alterTableIndexForeignKeySQL(diff)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", diff.Name, err)
	}
	return append(stmts, more...), nil
}

func (p *MySQLPlatform) DropIndexSQL(idx schema.Index, table string) string {
	if idx.Primary {
		return "ALTER TABLE " + table + " DROP PRIMARY KEY"
	}
	return "DROP INDEX " + schema.QuotedName(idx.Name, p) + " ON " + table
}

func (p *MySQLPlatform) CreateDatabaseSQL(name string) (string, error) {
	return "CREATE DATABASE " + name, nil
}

func (p *MySQLPlatform) DropDatabaseSQL(name string) (string, error) {
	return "DROP DATABASE " + name, nil
}

func (p *MySQLPlatform) ListDatabasesSQL() (string, error) {
	return "SHOW DATABASES", nil
}

func (p *MySQLPlatform) ListTablesSQL() (string, error) {
	return "SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'", nil
}

func (p *MySQLPlatform) ListViewsSQL(database string) (string, error) {
	return "SELECT TABLE_NAME, VIEW_DEFINITION FROM information_schema.VIEWS WHERE TABLE_SCHEMA = " + p.QuoteLiteral(database), nil
}

func (p *MySQLPlatform) ListTableColumnsSQL(table string) (string, error) {
	return "SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, EXTRA " +
		"FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = " +
		p.QuoteLiteral(table) + " ORDER BY ORDINAL_POSITION", nil
}

func (p *MySQLPlatform) ListTableIndexesSQL(table string) (string, error) {
	return "SHOW INDEX FROM " + table, nil
}

func (p *MySQLPlatform) doModifyLimitQuery(query string, limit, offset int) string {
	switch {
	case limit != NoLimit:
		query += " LIMIT " + strconv.Itoa(limit)
	case offset > 0:
		query += " LIMIT " + mysqlMaxLimit
	}
	if offset > 0 {
		query += " OFFSET " + strconv.Itoa(offset)
	}
	return query
}

func (p *MySQLPlatform) CurrentDateSQL() string { return "CURDATE()" }
func (p *MySQLPlatform) CurrentTimeSQL() string { return "CURTIME()" }

// DisableFKChecksSQL returns the MySQL command to disable FK checks
func (p *MySQLPlatform) DisableFKChecksSQL() (string, error) {
	return "SET FOREIGN_KEY_CHECKS = 0", nil
}

// EnableFKChecksSQL returns the MySQL command to enable FK checks
func (p *MySQLPlatform) EnableFKChecksSQL() (string, error) {
	return "SET FOREIGN_KEY_CHECKS = 1", nil
}

// DefaultFKAction returns "RESTRICT" for MySQL
func (p *MySQLPlatform) DefaultFKAction() string {
	return "RESTRICT"
}

func (p *MySQLPlatform) SupportsIdentityColumns() bool      { return true }
func (p *MySQLPlatform) PrefersIdentityColumns() bool       { return true }
func (p *MySQLPlatform) SupportsInlineColumnComments() bool { return true }
