package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DGarbs51/dbplatform/internal/schema"
)

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Test Header")

	output := buf.String()
	if !strings.Contains(output, "Test Header") {
		t.Errorf("Header() output should contain 'Test Header', got %q", output)
	}
	if !strings.Contains(output, "─") {
		t.Errorf("Header() output should contain separator line, got %q", output)
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(w *bytes.Buffer)
		marker string
	}{
		{"Success", func(w *bytes.Buffer) { Success(w, "Operation successful") }, "✓"},
		{"Error", func(w *bytes.Buffer) { Error(w, "Operation successful") }, "✗"},
		{"Warning", func(w *bytes.Buffer) { Warning(w, "Operation successful") }, "⚠"},
		{"DryRun", func(w *bytes.Buffer) { DryRun(w, "Operation successful") }, "[DRY RUN]"},
		{"Info", func(w *bytes.Buffer) { Info(w, "Operation successful") }, ""},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.fn(&buf)
		output := buf.String()
		if !strings.Contains(output, "Operation successful") {
			t.Errorf("%s() output should contain message, got %q", tt.name, output)
		}
		if !strings.Contains(output, tt.marker) {
			t.Errorf("%s() output should contain %q, got %q", tt.name, tt.marker, output)
		}
	}
}

func TestStatements(t *testing.T) {
	var buf bytes.Buffer
	Statements(&buf, []string{"CREATE TABLE t (id INTEGER)", "DROP DATABASE d;"})

	want := "CREATE TABLE t (id INTEGER);\nDROP DATABASE d;\n"
	if buf.String() != want {
		t.Errorf("Statements() = %q, want %q", buf.String(), want)
	}
}

func TestApplied(t *testing.T) {
	var buf bytes.Buffer
	Applied(&buf, 1200, 1500*time.Millisecond)

	if !strings.Contains(buf.String(), "Applied 1,200 statements (1.5s)") {
		t.Errorf("Applied() = %q", buf.String())
	}
}

func TestTableDefinition(t *testing.T) {
	def := "AB"
	table := schema.Table{
		Name: "USERS",
		Columns: []schema.Column{
			{Name: "ID", Type: schema.TypeInteger, NotNull: true, Autoincrement: true},
			{Name: "CODE", Type: schema.TypeString, Length: 2, Fixed: true, Default: &def},
			{Name: "PRICE", Type: schema.TypeDecimal, Precision: 12, Scale: 2},
		},
		PrimaryKey: []string{"ID"},
		Indexes:    []schema.Index{{Name: "UQ_CODE", Columns: []string{"CODE"}, Unique: true}},
		ForeignKeys: []schema.ForeignKey{
			{Name: "FK_GROUP", LocalColumns: []string{"GROUP_ID"}, ForeignTable: "GROUPS", ForeignColumns: []string{"ID"}, OnDelete: "CASCADE", OnUpdate: "NO ACTION"},
		},
	}

	var buf bytes.Buffer
	TableDefinition(&buf, table, "RESTRICT")
	output := buf.String()

	for _, want := range []string{
		"USERS", "ID", "integer", "2 (fixed)", "12, 2", "AB",
		"Primary key:", "Unique index:", "UQ_CODE (CODE)",
		"FK_GROUP (GROUP_ID) -> GROUPS (ID)", "ON DELETE CASCADE",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("TableDefinition() output missing %q:\n%s", want, output)
		}
	}
}

func TestTableDefinition_DefaultFKAction(t *testing.T) {
	table := schema.Table{
		Name:    "ORDERS",
		Columns: []schema.Column{{Name: "USER_ID", Type: schema.TypeInteger}},
		ForeignKeys: []schema.ForeignKey{
			{Name: "FK_USER", LocalColumns: []string{"USER_ID"}, ForeignTable: "USERS", ForeignColumns: []string{"ID"}, OnDelete: "CASCADE"},
		},
	}

	var buf bytes.Buffer
	TableDefinition(&buf, table, "NO ACTION")

	if !strings.Contains(buf.String(), "ON DELETE CASCADE ON UPDATE NO ACTION") {
		t.Errorf("TableDefinition() = %q, want the default action for the empty rule", buf.String())
	}
}

func TestTypeMapping(t *testing.T) {
	var buf bytes.Buffer
	TypeMapping(&buf, "db2", map[string]schema.Type{
		"varchar": schema.TypeString,
		"bigint":  schema.TypeBigInt,
	})
	output := buf.String()

	if !strings.Contains(strings.ToLower(output), "db2") {
		t.Errorf("TypeMapping() output missing title:\n%s", output)
	}
	bi, vc := strings.Index(output, "bigint"), strings.Index(output, "varchar")
	if bi < 0 || vc < 0 || bi > vc {
		t.Errorf("TypeMapping() should list native types in order:\n%s", output)
	}
}

func TestCapabilities(t *testing.T) {
	var buf bytes.Buffer
	Capabilities(&buf, "db2", []Capability{
		{Name: "Savepoints", Supported: false},
		{Name: "Identity columns", Supported: true},
	})
	output := buf.String()

	for _, want := range []string{"Savepoints", "no", "Identity columns", "yes"} {
		if !strings.Contains(output, want) {
			t.Errorf("Capabilities() output missing %q:\n%s", want, output)
		}
	}
}

func TestViews(t *testing.T) {
	var buf bytes.Buffer
	Views(&buf, nil)
	if buf.String() != "(0 views)\n" {
		t.Errorf("Views(nil) = %q", buf.String())
	}

	buf.Reset()
	Views(&buf, []schema.View{{Name: "V_USERS", SQL: "SELECT *\n  FROM USERS"}})
	if !strings.Contains(buf.String(), "SELECT * FROM USERS") {
		t.Errorf("Views() should flatten the definition:\n%s", buf.String())
	}
}
