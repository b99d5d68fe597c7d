package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/schema"
)

const (
	varcharDefaultLength = 255
	varcharMaxLength     = 4000
	decimalPrecision     = 10
)

// Base holds the behaviour shared by all platforms. Methods that depend on
// engine syntax call back through self, so a platform only overrides what
// differs and the shared code still picks up the override.
type Base struct {
	self        Platform
	name        string
	typeMapping map[string]schema.Type
}

func newBase(self Platform, name string, mapping map[string]schema.Type) Base {
	return Base{self: self, name: name, typeMapping: mapping}
}

func (b *Base) Name() string {
	return b.name
}

// QuoteIdentifier wraps the identifier in double quotes
func (b *Base) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral wraps the value in single quotes with escaping
func (b *Base) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (b *Base) Placeholder(position int) string {
	return "?"
}

func (b *Base) PlaceholderStyle() PlaceholderStyle {
	return PlaceholderQuestion
}

// MappedType looks up the abstract type of a native column type
func (b *Base) MappedType(dbType string) (schema.Type, error) {
	t, ok := b.typeMapping[strings.ToLower(strings.TrimSpace(dbType))]
	if !ok {
		return "", invalidArgument("unknown database type %s requested, %s may not support it", dbType, b.name)
	}
	return t, nil
}

func (b *Base) TypeMapping() map[string]schema.Type {
	m := make(map[string]schema.Type, len(b.typeMapping))
	for k, v := range b.typeMapping {
		m[k] = v
	}
	return m
}

// TypeDeclarationSQL dispatches to the declaration for the column's abstract type
func (b *Base) TypeDeclarationSQL(col schema.Column) (string, error) {
	if col.ColumnDefinition != "" {
		return col.ColumnDefinition, nil
	}

	p := b.self
	switch col.Type {
	case schema.TypeInteger:
		return p.IntegerTypeDeclarationSQL(col), nil
	case schema.TypeBigInt:
		return p.BigIntTypeDeclarationSQL(col), nil
	case schema.TypeSmallInt:
		return p.SmallIntTypeDeclarationSQL(col), nil
	case schema.TypeString:
		return p.VarcharTypeDeclarationSQL(col), nil
	case schema.TypeText:
		return p.ClobTypeDeclarationSQL(col), nil
	case schema.TypeBoolean:
		return p.BooleanTypeDeclarationSQL(col), nil
	case schema.TypeDateTime:
		return p.DateTimeTypeDeclarationSQL(col), nil
	case schema.TypeDate:
		return p.DateTypeDeclarationSQL(col), nil
	case schema.TypeTime:
		return p.TimeTypeDeclarationSQL(col), nil
	case schema.TypeDecimal:
		return p.DecimalTypeDeclarationSQL(col), nil
	case schema.TypeFloat:
		return p.FloatDeclarationSQL(col), nil
	default:
		return "", invalidArgument("unknown column type %q for column %s", col.Type, col.Name)
	}
}

// VarcharTypeDeclarationSQL applies the default length and falls back to a
// CLOB once the length exceeds what a VARCHAR can hold
func (b *Base) VarcharTypeDeclarationSQL(col schema.Column) string {
	length := col.Length
	if length <= 0 {
		length = varcharDefaultLength
	}
	if length > varcharMaxLength {
		return b.self.ClobTypeDeclarationSQL(col)
	}
	return b.self.VarcharTypeDeclarationSQLSnippet(length, col.Fixed)
}

func (b *Base) VarcharTypeDeclarationSQLSnippet(length int, fixed bool) string {
	if length <= 0 {
		length = varcharDefaultLength
	}
	if fixed {
		return fmt.Sprintf("CHAR(%d)", length)
	}
	return fmt.Sprintf("VARCHAR(%d)", length)
}

func (b *Base) ClobTypeDeclarationSQL(col schema.Column) string     { return "CLOB" }
func (b *Base) BooleanTypeDeclarationSQL(col schema.Column) string  { return "BOOLEAN" }
func (b *Base) IntegerTypeDeclarationSQL(col schema.Column) string  { return "INTEGER" }
func (b *Base) BigIntTypeDeclarationSQL(col schema.Column) string   { return "BIGINT" }
func (b *Base) SmallIntTypeDeclarationSQL(col schema.Column) string { return "SMALLINT" }
func (b *Base) DateTimeTypeDeclarationSQL(col schema.Column) string { return "TIMESTAMP" }
func (b *Base) DateTypeDeclarationSQL(col schema.Column) string     { return "DATE" }
func (b *Base) TimeTypeDeclarationSQL(col schema.Column) string     { return "TIME" }
func (b *Base) FloatDeclarationSQL(col schema.Column) string        { return "DOUBLE PRECISION" }

func (b *Base) DecimalTypeDeclarationSQL(col schema.Column) string {
	precision := col.Precision
	if precision <= 0 {
		precision = decimalPrecision
	}
	return fmt.Sprintf("NUMERIC(%d, %d)", precision, col.Scale)
}

// DefaultValueDeclarationSQL renders the DEFAULT clause of a column
func (b *Base) DefaultValueDeclarationSQL(col schema.Column) string {
	if col.Default == nil {
		if col.NotNull {
			return ""
		}
		return " DEFAULT NULL"
	}

	value := *col.Default
	switch {
	case schema.IsIntegerType(col.Type):
		return " DEFAULT " + value
	case col.Type == schema.TypeDateTime && value == b.self.CurrentTimestampSQL():
		return " DEFAULT " + value
	case col.Type == schema.TypeBoolean:
		return " DEFAULT " + b.self.QuoteLiteral(convertBoolean(value))
	default:
		return " DEFAULT " + b.self.QuoteLiteral(value)
	}
}

func convertBoolean(value string) string {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return value
	}
	if v {
		return "1"
	}
	return "0"
}

// ColumnDeclarationSQL renders "name type[ DEFAULT ..][ NOT NULL][ UNIQUE][ check]"
func (b *Base) ColumnDeclarationSQL(name string, col schema.Column) (string, error) {
	p := b.self

	var def string
	if col.ColumnDefinition != "" {
		def = col.ColumnDefinition
	} else {
		typeDecl, err := p.TypeDeclarationSQL(col)
		if err != nil {
			return "", err
		}
		def = typeDecl + p.DefaultValueDeclarationSQL(col)
		if col.NotNull {
			def += " NOT NULL"
		}
		if col.Unique {
			def += " UNIQUE"
		}
		if col.Check != "" {
			def += " " + col.Check
		}
	}

	if p.SupportsInlineColumnComments() && col.Comment != "" {
		def += " COMMENT " + p.QuoteLiteral(col.Comment)
	}
	return name + " " + def, nil
}

func (b *Base) ColumnDeclarationListSQL(cols []schema.Column) (string, error) {
	decls := make([]string, 0, len(cols))
	for _, col := range cols {
		decl, err := b.self.ColumnDeclarationSQL(schema.QuotedName(col.Name, b.self), col)
		if err != nil {
			return "", err
		}
		decls = append(decls, decl)
	}
	return strings.Join(decls, ", "), nil
}

func (b *Base) columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = schema.QuotedName(c, b.self)
	}
	return strings.Join(quoted, ", ")
}

func (b *Base) UniqueConstraintDeclarationSQL(name string, idx schema.Index) (string, error) {
	if len(idx.Columns) == 0 {
		return "", invalidArgument("incomplete definition, 'columns' required for unique constraint %s", name)
	}
	return "CONSTRAINT " + schema.QuotedName(name, b.self) + " UNIQUE (" + b.columnList(idx.Columns) + ")", nil
}

func (b *Base) IndexDeclarationSQL(name string, idx schema.Index) (string, error) {
	if len(idx.Columns) == 0 {
		return "", invalidArgument("incomplete definition, 'columns' required for index %s", name)
	}
	kind := "INDEX "
	if idx.Unique {
		kind = "UNIQUE INDEX "
	}
	return kind + schema.QuotedName(name, b.self) + " (" + b.columnList(idx.Columns) + ")", nil
}

// ForeignKeyDeclarationSQL renders the FOREIGN KEY clause with its referential actions
func (b *Base) ForeignKeyDeclarationSQL(fk schema.ForeignKey) (string, error) {
	switch {
	case len(fk.LocalColumns) == 0:
		return "", invalidArgument("incomplete definition, 'local' required for foreign key %s", fk.Name)
	case len(fk.ForeignColumns) == 0:
		return "", invalidArgument("incomplete definition, 'foreign' required for foreign key %s", fk.Name)
	case fk.ForeignTable == "":
		return "", invalidArgument("incomplete definition, 'foreignTable' required for foreign key %s", fk.Name)
	}

	var sb strings.Builder
	if fk.Name != "" {
		sb.WriteString("CONSTRAINT " + schema.QuotedName(fk.Name, b.self) + " ")
	}
	sb.WriteString("FOREIGN KEY (" + b.columnList(fk.LocalColumns) + ") REFERENCES ")
	sb.WriteString(schema.QuotedName(fk.ForeignTable, b.self) + " (" + b.columnList(fk.ForeignColumns) + ")")

	if fk.OnUpdate != "" {
		action, err := referentialAction(fk.OnUpdate)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ON UPDATE " + action)
	}
	if fk.OnDelete != "" {
		action, err := referentialAction(fk.OnDelete)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ON DELETE " + action)
	}
	return sb.String(), nil
}

func referentialAction(action string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(action))
	switch upper {
	case "CASCADE", "SET NULL", "NO ACTION", "RESTRICT", "SET DEFAULT":
		return upper, nil
	}
	return "", invalidArgument("invalid foreign key action: %s", action)
}

func (b *Base) CreateTableSQL(table schema.Table) ([]string, error) {
	return b.createTableSQL(table)
}

// createTableSQL builds the CREATE TABLE statement followed by one
// ALTER TABLE per foreign key
func (b *Base) createTableSQL(table schema.Table) ([]string, error) {
	p := b.self
	tableName := schema.QuotedName(table.Name, p)

	cols, err := p.ColumnDeclarationListSQL(table.Columns)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table.Name, err)
	}

	parts := []string{cols}
	for _, uc := range table.UniqueConstraints {
		decl, err := p.UniqueConstraintDeclarationSQL(uc.Name, uc)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		parts = append(parts, decl)
	}

	primary := table.PrimaryKey
	var indexes []schema.Index
	for _, idx := range table.Indexes {
		if idx.Primary {
			if len(primary) == 0 {
				primary = idx.Columns
			}
			continue
		}
		indexes = append(indexes, idx)
	}
	if len(primary) > 0 {
		parts = append(parts, "PRIMARY KEY("+b.columnList(unique(primary))+")")
	}
	for _, idx := range indexes {
		decl, err := p.IndexDeclarationSQL(idx.Name, idx)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		parts = append(parts, decl)
	}

	stmts := []string{"CREATE TABLE " + tableName + " (" + strings.Join(parts, ", ") + ")"}
	for _, fk := range table.ForeignKeys {
		stmt, err := p.CreateForeignKeySQL(fk, tableName)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table.Name, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func unique(cols []string) []string {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (b *Base) DropTableSQL(table string) string {
	return "DROP TABLE " + schema.QuotedName(table, b.self)
}

func (b *Base) AlterTableSQL(diff schema.TableDiff) ([]string, error) {
	return nil, notSupported(b.name, "AlterTableSQL")
}

// alterTableIndexForeignKeySQL renders the index and foreign key changes of a
// diff. Statements target the new table name when the table is renamed.
func (b *Base) alterTableIndexForeignKeySQL(diff schema.TableDiff) ([]string, error) {
	p := b.self
	table := schema.QuotedName(diff.Name, p)
	if diff.NewName != "" {
		table = schema.QuotedName(diff.NewName, p)
	}

	var stmts []string
	if p.SupportsForeignKeyConstraints() {
		for _, fk := range diff.RemovedForeignKeys {
			stmts = append(stmts, p.DropForeignKeySQL(fk, table))
		}
		for _, fk := range diff.AddedForeignKeys {
			stmt, err := p.CreateForeignKeySQL(fk, table)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		for _, fk := range diff.ChangedForeignKeys {
			stmt, err := p.CreateForeignKeySQL(fk, table)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, p.DropForeignKeySQL(fk, table), stmt)
		}
	}

	for _, idx := range diff.AddedIndexes {
		stmt, err := p.CreateIndexSQL(idx, table)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	for _, idx := range diff.RemovedIndexes {
		stmts = append(stmts, p.DropIndexSQL(idx, table))
	}
	for _, idx := range diff.ChangedIndexes {
		stmt, err := p.CreateIndexSQL(idx, table)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, p.DropIndexSQL(idx, table), stmt)
	}
	return stmts, nil
}

func (b *Base) CreateIndexSQL(idx schema.Index, table string) (string, error) {
	if len(idx.Columns) == 0 {
		return "", invalidArgument("incomplete definition, 'columns' required for index %s", idx.Name)
	}
	if idx.Primary {
		return "ALTER TABLE " + table + " ADD PRIMARY KEY (" + b.columnList(idx.Columns) + ")", nil
	}
	kind := "INDEX "
	if idx.Unique {
		kind = "UNIQUE INDEX "
	}
	return "CREATE " + kind + schema.QuotedName(idx.Name, b.self) + " ON " + table + " (" + b.columnList(idx.Columns) + ")", nil
}

func (b *Base) DropIndexSQL(idx schema.Index, table string) string {
	return "DROP INDEX " + schema.QuotedName(idx.Name, b.self)
}

func (b *Base) CreateForeignKeySQL(fk schema.ForeignKey, table string) (string, error) {
	decl, err := b.self.ForeignKeyDeclarationSQL(fk)
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + table + " ADD " + decl, nil
}

func (b *Base) DropForeignKeySQL(fk schema.ForeignKey, table string) string {
	return "ALTER TABLE " + table + " DROP FOREIGN KEY " + schema.QuotedName(fk.Name, b.self)
}

func (b *Base) CreateViewSQL(name, sql string) string {
	return "CREATE VIEW " + name + " AS " + sql
}

func (b *Base) DropViewSQL(name string) string {
	return "DROP VIEW " + name
}

func (b *Base) CreateDatabaseSQL(name string) (string, error) {
	return "", notSupported(b.name, "CreateDatabaseSQL")
}

func (b *Base) DropDatabaseSQL(name string) (string, error) {
	return "", notSupported(b.name, "DropDatabaseSQL")
}

func (b *Base) DropSequenceSQL(name string) (string, error) {
	return "", notSupported(b.name, "DropSequenceSQL")
}

func (b *Base) SequenceNextValSQL(name string) (string, error) {
	return "", notSupported(b.name, "SequenceNextValSQL")
}

func (b *Base) EmptyIdentityInsertSQL(table, identifierColumn string) string {
	return "INSERT INTO " + table + " (" + identifierColumn + ") VALUES (null)"
}

func (b *Base) CreateTemporaryTableSnippetSQL() string {
	return "CREATE TEMPORARY TABLE"
}

func (b *Base) TemporaryTableName(table string) string {
	return table
}

func (b *Base) ListDatabasesSQL() (string, error) {
	return "", notSupported(b.name, "ListDatabasesSQL")
}

func (b *Base) ListSequencesSQL(database string) (string, error) {
	return "", notSupported(b.name, "ListSequencesSQL")
}

func (b *Base) ListTableConstraintsSQL(table string) (string, error) {
	return "", notSupported(b.name, "ListTableConstraintsSQL")
}

func (b *Base) ListTableColumnsSQL(table string) (string, error) {
	return "", notSupported(b.name, "ListTableColumnsSQL")
}

func (b *Base) ListTablesSQL() (string, error) {
	return "", notSupported(b.name, "ListTablesSQL")
}

func (b *Base) ListUsersSQL() (string, error) {
	return "", notSupported(b.name, "ListUsersSQL")
}

func (b *Base) ListViewsSQL(database string) (string, error) {
	return "", notSupported(b.name, "ListViewsSQL")
}

func (b *Base) ListTableIndexesSQL(table string) (string, error) {
	return "", notSupported(b.name, "ListTableIndexesSQL")
}

func (b *Base) ListTableForeignKeysSQL(table string) (string, error) {
	return "", notSupported(b.name, "ListTableForeignKeysSQL")
}

// ModifyLimitQuery validates limit and offset and lets the platform rewrite
// the query. NoLimit and a zero offset leave the query untouched.
func (b *Base) ModifyLimitQuery(query string, limit, offset int) (string, error) {
	if limit < NoLimit {
		return "", invalidArgument("LIMIT argument limit=%d is not valid", limit)
	}
	if offset < 0 {
		return "", invalidArgument("LIMIT argument offset=%d is not valid", offset)
	}
	if offset > 0 && !b.self.SupportsLimitOffset() {
		return "", notSupported(b.name, "offset in ModifyLimitQuery")
	}

	if l, ok := b.self.(limiter); ok {
		return l.doModifyLimitQuery(query, limit, offset), nil
	}
	return b.doModifyLimitQuery(query, limit, offset), nil
}

func (b *Base) doModifyLimitQuery(query string, limit, offset int) string {
	if limit != NoLimit {
		query += " LIMIT " + strconv.Itoa(limit)
	}
	if offset > 0 {
		query += " OFFSET " + strconv.Itoa(offset)
	}
	return query
}

func (b *Base) LocateExpression(str, substr, startPos string) string {
	if startPos == "" {
		return "LOCATE(" + substr + ", " + str + ")"
	}
	return "LOCATE(" + substr + ", " + str + ", " + startPos + ")"
}

func (b *Base) SubstringExpression(value, from, length string) string {
	if length == "" {
		return "SUBSTRING(" + value + " FROM " + from + ")"
	}
	return "SUBSTRING(" + value + " FROM " + from + " FOR " + length + ")"
}

func (b *Base) CurrentDateSQL() string      { return "CURRENT_DATE" }
func (b *Base) CurrentTimeSQL() string      { return "CURRENT_TIME" }
func (b *Base) CurrentTimestampSQL() string { return "CURRENT_TIMESTAMP" }
func (b *Base) ForUpdateSQL() string        { return "FOR UPDATE" }
func (b *Base) DummySelectSQL() string      { return "SELECT 1" }

func (b *Base) SQLResultCasing(column string) string {
	return column
}

func (b *Base) DisableFKChecksSQL() (string, error) {
	return "", notSupported(b.name, "DisableFKChecksSQL")
}

func (b *Base) EnableFKChecksSQL() (string, error) {
	return "", notSupported(b.name, "EnableFKChecksSQL")
}

func (b *Base) DefaultFKAction() string {
	return "NO ACTION"
}

func (b *Base) SupportsCreateDropDatabase() bool    { return true }
func (b *Base) SupportsReleaseSavepoints() bool     { return b.self.SupportsSavepoints() }
func (b *Base) SupportsSavepoints() bool            { return true }
func (b *Base) SupportsIdentityColumns() bool       { return false }
func (b *Base) PrefersIdentityColumns() bool        { return false }
func (b *Base) SupportsForeignKeyConstraints() bool { return true }
func (b *Base) SupportsSequences() bool             { return false }
func (b *Base) SupportsLimitOffset() bool           { return true }
func (b *Base) SupportsInlineColumnComments() bool  { return false }
