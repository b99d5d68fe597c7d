package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DGarbs51/dbplatform/internal/dialect"
	"github.com/DGarbs51/dbplatform/internal/schema"
	"github.com/google/go-cmp/cmp"
)

var columnNames = []string{
	"TABSCHEMA", "TABNAME", "COLNAME", "COLNO", "TYPENAME", "DEFAULT",
	"NULLS", "LENGTH", "SCALE", "IDENTITY", "TABCONSTTYPE", "COLSEQ",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func mustSQL(t *testing.T, fn func() (string, error)) string {
	t.Helper()
	q, err := fn()
	if err != nil {
		t.Fatalf("catalog SQL error = %v", err)
	}
	return q
}

func strPtr(s string) *string { return &s }

func TestListTableNames(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, r.platform.ListTablesSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"NAME"}).AddRow("USERS").AddRow("GROUPS  "))

	names, err := r.ListTableNames(context.Background(), db)
	if err != nil {
		t.Fatalf("ListTableNames() error = %v", err)
	}
	if diff := cmp.Diff([]string{"USERS", "GROUPS"}, names); diff != "" {
		t.Errorf("ListTableNames() mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}

func TestListTableNames_Error(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, r.platform.ListTablesSQL)).WillReturnError(errors.New("SQL0551N"))

	if _, err := r.ListTableNames(context.Background(), db); err == nil {
		t.Error("ListTableNames() error = nil, want error")
	}
}

func TestListViews(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListViewsSQL("") })).
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "TEXT"}).
			AddRow("V_USERS", "CREATE VIEW V_USERS AS SELECT * FROM USERS").
			AddRow("V_EMPTY", nil))

	views, err := r.ListViews(context.Background(), db)
	if err != nil {
		t.Fatalf("ListViews() error = %v", err)
	}
	want := []schema.View{
		{Name: "V_USERS", SQL: "CREATE VIEW V_USERS AS SELECT * FROM USERS"},
		{Name: "V_EMPTY", SQL: ""},
	}
	if diff := cmp.Diff(want, views); diff != "" {
		t.Errorf("ListViews() mismatch (-want +got):\n%s", diff)
	}
}

func TestListTableColumns(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	rows := sqlmock.NewRows(columnNames).
		AddRow("DB2INST1", "USERS", "TENANT", 0, "SMALLINT", nil, "N", 2, 0, "N", "P", 2).
		AddRow("DB2INST1", "USERS", "ID", 1, "INTEGER", nil, "N", 4, 0, "Y", "P", 1).
		AddRow("DB2INST1", "USERS", "NAME", 2, "VARCHAR", nil, "Y", 100, 0, "N", nil, nil).
		AddRow("DB2INST1", "USERS", "CODE", 3, "CHARACTER", "'AB'", "N", 2, 0, "N", nil, nil).
		AddRow("DB2INST1", "USERS", "PRICE", 4, "DECIMAL", "NULL", "Y", 12, 2, "N", nil, nil).
		AddRow("DB2INST1", "USERS", "BIO", 5, "CLOB", nil, "Y", 1048576, 0, "N", nil, nil)
	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableColumnsSQL("users") })).
		WillReturnRows(rows)

	cols, primary, err := r.ListTableColumns(context.Background(), db, "users")
	if err != nil {
		t.Fatalf("ListTableColumns() error = %v", err)
	}

	want := []schema.Column{
		{Name: "TENANT", Type: schema.TypeSmallInt, NotNull: true},
		{Name: "ID", Type: schema.TypeInteger, NotNull: true, Autoincrement: true},
		{Name: "NAME", Type: schema.TypeString, Length: 100},
		{Name: "CODE", Type: schema.TypeString, Length: 2, Fixed: true, NotNull: true, Default: strPtr("AB")},
		{Name: "PRICE", Type: schema.TypeDecimal, Precision: 12, Scale: 2},
		{Name: "BIO", Type: schema.TypeText, Length: 1048576},
	}
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Errorf("ListTableColumns() columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ID", "TENANT"}, primary); diff != "" {
		t.Errorf("ListTableColumns() primary key mismatch (-want +got):\n%s", diff)
	}
}

func TestListTableColumns_UnknownType(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableColumnsSQL("docs") })).
		WillReturnRows(sqlmock.NewRows(columnNames).
			AddRow("DB2INST1", "DOCS", "BODY", 0, "BLOB", nil, "Y", 1024, 0, "N", nil, nil))

	_, _, err := r.ListTableColumns(context.Background(), db, "docs")
	if !errors.Is(err, dialect.ErrInvalidArgument) {
		t.Errorf("ListTableColumns() error = %v, want ErrInvalidArgument", err)
	}
}

func TestListTableIndexes(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableIndexesSQL("users") })).
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "COLNAMES", "UNIQUERULE"}).
			AddRow("PK_USERS", "+ID", "P").
			AddRow("IDX_NAME_CODE", "+NAME-CODE", "D").
			AddRow("UQ_CODE", "+CODE", "U"))

	indexes, err := r.ListTableIndexes(context.Background(), db, "users")
	if err != nil {
		t.Fatalf("ListTableIndexes() error = %v", err)
	}
	want := []schema.Index{
		{Name: "PK_USERS", Columns: []string{"ID"}, Unique: true, Primary: true},
		{Name: "IDX_NAME_CODE", Columns: []string{"NAME", "CODE"}},
		{Name: "UQ_CODE", Columns: []string{"CODE"}, Unique: true},
	}
	if diff := cmp.Diff(want, indexes); diff != "" {
		t.Errorf("ListTableIndexes() mismatch (-want +got):\n%s", diff)
	}
}

func TestListTableForeignKeys(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableForeignKeysSQL("users") })).
		WillReturnRows(sqlmock.NewRows([]string{"TBNAME", "RELNAME", "REFTBNAME", "DELETERULE", "UPDATERULE", "FKCOLNAMES", "PKCOLNAMES"}).
			AddRow("USERS", "FK_GROUP", "GROUPS", "C", "A", " GROUP_ID            ", " ID                  ").
			AddRow("USERS", "FK_OWNER", "OWNERS", "N", "R", " OWNER_ID OWNER_KIND", " ID KIND"))

	fks, err := r.ListTableForeignKeys(context.Background(), db, "users")
	if err != nil {
		t.Fatalf("ListTableForeignKeys() error = %v", err)
	}
	want := []schema.ForeignKey{
		{Name: "FK_GROUP", LocalColumns: []string{"GROUP_ID"}, ForeignTable: "GROUPS", ForeignColumns: []string{"ID"}, OnDelete: "CASCADE", OnUpdate: "NO ACTION"},
		{Name: "FK_OWNER", LocalColumns: []string{"OWNER_ID", "OWNER_KIND"}, ForeignTable: "OWNERS", ForeignColumns: []string{"ID", "KIND"}, OnDelete: "SET NULL", OnUpdate: "RESTRICT"},
	}
	if diff := cmp.Diff(want, fks); diff != "" {
		t.Errorf("ListTableForeignKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleAction(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"A", "NO ACTION"},
		{"C", "CASCADE"},
		{"N", "SET NULL"},
		{"R", "RESTRICT"},
		{" C ", "CASCADE"},
		{"X", ""},
	}
	for _, tt := range tests {
		if got := ruleAction(tt.code); got != tt.want {
			t.Errorf("ruleAction(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestReadTable(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableColumnsSQL("users") })).
		WillReturnRows(sqlmock.NewRows(columnNames).
			AddRow("DB2INST1", "USERS", "ID", 0, "INTEGER", nil, "N", 4, 0, "Y", "P", 1).
			AddRow("DB2INST1", "USERS", "GROUP_ID", 1, "INTEGER", nil, "Y", 4, 0, "N", nil, nil))
	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableIndexesSQL("users") })).
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "COLNAMES", "UNIQUERULE"}).
			AddRow("PK_USERS", "+ID", "P").
			AddRow("IDX_GROUP", "+GROUP_ID", "D"))
	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableForeignKeysSQL("users") })).
		WillReturnRows(sqlmock.NewRows([]string{"TBNAME", "RELNAME", "REFTBNAME", "DELETERULE", "UPDATERULE", "FKCOLNAMES", "PKCOLNAMES"}).
			AddRow("USERS", "FK_GROUP", "GROUPS", "A", "A", "GROUP_ID", "ID"))

	table, err := r.ReadTable(context.Background(), db, "users")
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	want := schema.Table{
		Name: "users",
		Columns: []schema.Column{
			{Name: "ID", Type: schema.TypeInteger, NotNull: true, Autoincrement: true},
			{Name: "GROUP_ID", Type: schema.TypeInteger},
		},
		PrimaryKey: []string{"ID"},
		Indexes:    []schema.Index{{Name: "IDX_GROUP", Columns: []string{"GROUP_ID"}}},
		ForeignKeys: []schema.ForeignKey{
			{Name: "FK_GROUP", LocalColumns: []string{"GROUP_ID"}, ForeignTable: "GROUPS", ForeignColumns: []string{"ID"}, OnDelete: "NO ACTION", OnUpdate: "NO ACTION"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("ReadTable() mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}

	// the table read back renders as DB2 DDL again
	stmts, err := r.Platform().CreateTableSQL(table)
	if err != nil {
		t.Fatalf("CreateTableSQL() error = %v", err)
	}
	wantStmts := []string{
		"CREATE TABLE users (ID INTEGER GENERATED BY DEFAULT AS IDENTITY NOT NULL, GROUP_ID INTEGER DEFAULT NULL, PRIMARY KEY(ID))",
		"ALTER TABLE users ADD CONSTRAINT FK_GROUP FOREIGN KEY (GROUP_ID) REFERENCES GROUPS (ID) ON UPDATE NO ACTION ON DELETE NO ACTION",
		"CREATE INDEX IDX_GROUP ON users (GROUP_ID)",
	}
	if diff := cmp.Diff(wantStmts, stmts); diff != "" {
		t.Errorf("CreateTableSQL() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTable_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewReader(nil)

	mock.ExpectQuery(mustSQL(t, func() (string, error) { return r.platform.ListTableColumnsSQL("missing") })).
		WillReturnRows(sqlmock.NewRows(columnNames))

	_, err := r.ReadTable(context.Background(), db, "missing")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("ReadTable() error = %v, want ErrTableNotFound", err)
	}
}
