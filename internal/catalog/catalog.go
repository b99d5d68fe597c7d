// Package catalog reads table definitions back out of a DB2 database using the
// DB2 platform's catalog SQL, and applies generated statements.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/dialect"
	"github.com/DGarbs51/dbplatform/internal/schema"
	"go.uber.org/zap"
)

// ErrTableNotFound is returned when the catalog has no columns for a table
var ErrTableNotFound = errors.New("table not found")

// Reader maps SYSCAT/SYSIBM rows into the schema model
type Reader struct {
	platform *dialect.DB2Platform
	logger   *zap.Logger
}

// NewReader creates a catalog reader. A nil logger discards log output.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{platform: dialect.NewDB2(), logger: logger}
}

// Platform returns the platform whose catalog SQL the reader runs
func (r *Reader) Platform() dialect.Platform {
	return r.platform
}

func (r *Reader) query(ctx context.Context, db *sql.DB, query string) (*sql.Rows, error) {
	r.logger.Debug("catalog query", zap.String("sql", query))
	return db.QueryContext(ctx, query)
}

// ListTableNames returns the names of all base tables
func (r *Reader) ListTableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	query, err := r.platform.ListTablesSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.query(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, strings.TrimSpace(name))
	}
	return names, rows.Err()
}

// ListViews returns all view definitions
func (r *Reader) ListViews(ctx context.Context, db *sql.DB) ([]schema.View, error) {
	query, err := r.platform.ListViewsSQL("")
	if err != nil {
		return nil, err
	}
	rows, err := r.query(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var views []schema.View
	for rows.Next() {
		var v schema.View
		var text sql.NullString
		if err := rows.Scan(&v.Name, &text); err != nil {
			return nil, err
		}
		v.Name = strings.TrimSpace(v.Name)
		v.SQL = text.String
		views = append(views, v)
	}
	return views, rows.Err()
}

// columnRow is one row of the column listing query
type columnRow struct {
	schemaName   string
	tableName    string
	colName      string
	colNo        int
	typeName     string
	defaultValue sql.NullString
	nulls        string
	length       int
	scale        int
	identity     string
	tabConstType sql.NullString
	colSeq       sql.NullInt64
}

// ListTableColumns returns the columns of a table in ordinal order together
// with the primary key columns in key order
func (r *Reader) ListTableColumns(ctx context.Context, db *sql.DB, table string) ([]schema.Column, []string, error) {
	query, err := r.platform.ListTableColumnsSQL(table)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.query(ctx, db, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	defer rows.Close()

	type keyCol struct {
		name string
		seq  int64
	}
	var cols []schema.Column
	var keys []keyCol
	for rows.Next() {
		var row columnRow
		if err := rows.Scan(
			&row.schemaName, &row.tableName, &row.colName, &row.colNo,
			&row.typeName, &row.defaultValue, &row.nulls, &row.length, &row.scale,
			&row.identity, &row.tabConstType, &row.colSeq,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}

		col, err := r.portableColumn(row)
		if err != nil {
			return nil, nil, fmt.Errorf("table %s: %w", table, err)
		}
		cols = append(cols, col)

		if row.tabConstType.String == "P" {
			keys = append(keys, keyCol{name: col.Name, seq: row.colSeq.Int64})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(keys, func(i, j int) bool { return keys[i].seq < keys[j].seq })
	var primary []string
	for _, k := range keys {
		primary = append(primary, k.name)
	}
	return cols, primary, nil
}

func (r *Reader) portableColumn(row columnRow) (schema.Column, error) {
	typeName := strings.ToLower(strings.TrimSpace(row.typeName))
	t, err := r.platform.MappedType(typeName)
	if err != nil {
		return schema.Column{}, err
	}

	col := schema.Column{
		Name:          strings.TrimSpace(row.colName),
		Type:          t,
		NotNull:       row.nulls == "N",
		Autoincrement: row.identity == "Y",
	}
	if row.defaultValue.Valid && row.defaultValue.String != "NULL" {
		def := strings.Trim(row.defaultValue.String, "'")
		col.Default = &def
	}

	switch typeName {
	case "varchar":
		col.Length = row.length
	case "character":
		col.Length = row.length
		col.Fixed = true
	case "clob":
		col.Length = row.length
	case "decimal", "double", "real":
		col.Precision = row.length
		col.Scale = row.scale
	}
	return col, nil
}

// ListTableIndexes returns the indexes of a table. COLNAMES holds the key
// columns prefixed with + (ascending) or - (descending).
func (r *Reader) ListTableIndexes(ctx context.Context, db *sql.DB, table string) ([]schema.Index, error) {
	query, err := r.platform.ListTableIndexesSQL(table)
	if err != nil {
		return nil, err
	}
	rows, err := r.query(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s: %w", table, err)
	}
	defer rows.Close()

	var indexes []schema.Index
	for rows.Next() {
		var name, colNames, uniqueRule string
		if err := rows.Scan(&name, &colNames, &uniqueRule); err != nil {
			return nil, fmt.Errorf("failed to scan index of %s: %w", table, err)
		}
		indexes = append(indexes, schema.Index{
			Name:    strings.TrimSpace(name),
			Columns: splitColNames(colNames),
			Unique:  uniqueRule == "U" || uniqueRule == "P",
			Primary: uniqueRule == "P",
		})
	}
	return indexes, rows.Err()
}

func splitColNames(colNames string) []string {
	return strings.FieldsFunc(colNames, func(r rune) bool {
		return r == '+' || r == '-'
	})
}

// ListTableForeignKeys returns the foreign keys declared on a table
func (r *Reader) ListTableForeignKeys(ctx context.Context, db *sql.DB, table string) ([]schema.ForeignKey, error) {
	query, err := r.platform.ListTableForeignKeysSQL(table)
	if err != nil {
		return nil, err
	}
	rows, err := r.query(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var fks []schema.ForeignKey
	for rows.Next() {
		var tbName, relName, refTable, deleteRule, updateRule, fkCols, pkCols string
		if err := rows.Scan(&tbName, &relName, &refTable, &deleteRule, &updateRule, &fkCols, &pkCols); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key of %s: %w", table, err)
		}
		fks = append(fks, schema.ForeignKey{
			Name:           strings.TrimSpace(relName),
			LocalColumns:   strings.Fields(fkCols),
			ForeignTable:   strings.TrimSpace(refTable),
			ForeignColumns: strings.Fields(pkCols),
			OnDelete:       ruleAction(deleteRule),
			OnUpdate:       ruleAction(updateRule),
		})
	}
	return fks, rows.Err()
}

// ruleAction maps a SYSRELS rule code to its referential action
func ruleAction(code string) string {
	switch strings.TrimSpace(code) {
	case "A":
		return "NO ACTION"
	case "C":
		return "CASCADE"
	case "N":
		return "SET NULL"
	case "R":
		return "RESTRICT"
	}
	return ""
}

// ReadTable assembles the full definition of a table
func (r *Reader) ReadTable(ctx context.Context, db *sql.DB, table string) (schema.Table, error) {
	cols, primary, err := r.ListTableColumns(ctx, db, table)
	if err != nil {
		return schema.Table{}, err
	}
	if len(cols) == 0 {
		return schema.Table{}, fmt.Errorf("table %s: %w", table, ErrTableNotFound)
	}

	indexes, err := r.ListTableIndexes(ctx, db, table)
	if err != nil {
		return schema.Table{}, err
	}
	fks, err := r.ListTableForeignKeys(ctx, db, table)
	if err != nil {
		return schema.Table{}, err
	}

	t := schema.Table{
		Name:        strings.TrimSpace(table),
		Columns:     cols,
		PrimaryKey:  primary,
		ForeignKeys: fks,
	}
	// the primary key is already carried by PrimaryKey
	for _, idx := range indexes {
		if idx.Primary {
			continue
		}
		t.Indexes = append(t.Indexes, idx)
	}

	r.logger.Debug("read table",
		zap.String("table", t.Name),
		zap.Int("columns", len(t.Columns)),
		zap.Int("indexes", len(t.Indexes)),
		zap.Int("foreign_keys", len(t.ForeignKeys)),
	)
	return t, nil
}
