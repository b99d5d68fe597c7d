package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestApplier_Apply(t *testing.T) {
	db, mock := newMock(t)
	a := NewApplier(nil, false)

	stmts := []string{
		"CREATE TABLE users (id INTEGER NOT NULL, PRIMARY KEY(id))",
		"CREATE INDEX idx_id ON users (id)",
	}
	for _, stmt := range stmts {
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	n, err := a.Apply(context.Background(), db, stmts)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Apply() = %d, want 2", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}

func TestApplier_Apply_StopsOnError(t *testing.T) {
	db, mock := newMock(t)
	a := NewApplier(nil, false)

	stmts := []string{"DROP TABLE a", "DROP TABLE b", "DROP TABLE c"}
	mock.ExpectExec("DROP TABLE a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE b").WillReturnError(errors.New("SQL0204N"))

	n, err := a.Apply(context.Background(), db, stmts)
	if err == nil {
		t.Fatal("Apply() error = nil, want error")
	}
	if n != 1 {
		t.Errorf("Apply() = %d, want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}

func TestApplier_Apply_DryRun(t *testing.T) {
	db, mock := newMock(t)
	a := NewApplier(nil, true)

	n, err := a.Apply(context.Background(), db, []string{"DROP TABLE a"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Apply() = %d, want 0", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations not met: %v", err)
	}
}
