package schema

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is returned when a loaded document is incomplete
var ErrInvalidDefinition = errors.New("invalid definition")

// LoadTable decodes a YAML table definition
func LoadTable(r io.Reader) (Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Table{}, fmt.Errorf("failed to decode table: %w", err)
	}
	if t.Name == "" {
		return Table{}, fmt.Errorf("%w: table name is required", ErrInvalidDefinition)
	}
	if len(t.Columns) == 0 {
		return Table{}, fmt.Errorf("%w: table %s has no columns", ErrInvalidDefinition, t.Name)
	}
	if err := validateColumns(t.Name, t.Columns); err != nil {
		return Table{}, err
	}
	for _, name := range t.PrimaryKey {
		if _, ok := t.Column(name); !ok {
			return Table{}, fmt.Errorf("%w: primary key column %s is not a column of %s", ErrInvalidDefinition, name, t.Name)
		}
	}
	return t, nil
}

// LoadTableDiff decodes a YAML table diff
func LoadTableDiff(r io.Reader) (TableDiff, error) {
	var d TableDiff
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return TableDiff{}, fmt.Errorf("failed to decode table diff: %w", err)
	}
	if d.Name == "" {
		return TableDiff{}, fmt.Errorf("%w: table name is required", ErrInvalidDefinition)
	}

	cols := append([]Column{}, d.AddedColumns...)
	for _, cd := range d.ChangedColumns {
		if cd.OldColumnName == "" {
			return TableDiff{}, fmt.Errorf("%w: changed column %s has no old_name", ErrInvalidDefinition, cd.Column.Name)
		}
		cols = append(cols, cd.Column)
	}
	for _, rc := range d.RenamedColumns {
		if rc.OldName == "" {
			return TableDiff{}, fmt.Errorf("%w: renamed column %s has no old_name", ErrInvalidDefinition, rc.Column.Name)
		}
		if rc.Column.Name == "" {
			return TableDiff{}, fmt.Errorf("%w: renamed column %s has no new name", ErrInvalidDefinition, rc.OldName)
		}
	}
	if err := validateColumns(d.Name, cols); err != nil {
		return TableDiff{}, err
	}
	return d, nil
}

func validateColumns(table string, cols []Column) error {
	for i, c := range cols {
		if c.Name == "" {
			return fmt.Errorf("%w: column %d of %s has no name", ErrInvalidDefinition, i, table)
		}
		if c.Type == "" && c.ColumnDefinition == "" {
			return fmt.Errorf("%w: column %s.%s has no type", ErrInvalidDefinition, table, c.Name)
		}
		if c.Type != "" && !slices.Contains(Types, c.Type) {
			return fmt.Errorf("%w: column %s.%s has unknown type %q", ErrInvalidDefinition, table, c.Name, c.Type)
		}
	}
	return nil
}
