package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPort(t *testing.T) {
	tests := []struct {
		engine string
		want   string
	}{
		{"db2", "50000"},
		{"ibm_db2", "50000"},
		{"mysql", "3306"},
		{"pgsql", "5432"},
		{"postgres", "5432"},
		{"postgresql", "5432"},
		{"unknown", "3306"},
		{"", "3306"},
	}

	for _, tt := range tests {
		got := DefaultPort(tt.engine)
		if got != tt.want {
			t.Errorf("DefaultPort(%q) = %q, want %q", tt.engine, got, tt.want)
		}
	}
}

func TestNormalizeEngine(t *testing.T) {
	tests := []struct {
		engine string
		want   string
	}{
		{"db2", "db2"},
		{"DB2", "db2"},
		{"ibm_db2", "db2"},
		{"ibm-db2", "db2"},
		{" db2 ", "db2"},
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"pgsql", "pgsql"},
		{"postgres", "pgsql"},
		{"postgresql", "pgsql"},
		{"unknown", "unknown"},
		{"", ""},
	}

	for _, tt := range tests {
		got := NormalizeEngine(tt.engine)
		if got != tt.want {
			t.Errorf("NormalizeEngine(%q) = %q, want %q", tt.engine, got, tt.want)
		}
	}
}

func TestMapEnv_GetWithFallback(t *testing.T) {
	env := MapEnv{"FALLBACK": "fallback_value"}

	if got := env.GetWithFallback("PRIMARY", "FALLBACK"); got != "fallback_value" {
		t.Errorf("GetWithFallback() = %q, want %q", got, "fallback_value")
	}

	env["PRIMARY"] = "primary_value"
	if got := env.GetWithFallback("PRIMARY", "FALLBACK"); got != "primary_value" {
		t.Errorf("GetWithFallback() = %q, want %q", got, "primary_value")
	}

	if got := env.GetWithFallback("MISSING"); got != "" {
		t.Errorf("GetWithFallback() = %q, want empty string", got)
	}
}

func TestOSEnv_GetWithFallback(t *testing.T) {
	t.Setenv("DBPLATFORM_TEST_PRIMARY", "")
	t.Setenv("DBPLATFORM_TEST_FALLBACK", "fallback_value")

	env := OSEnv{}
	if got := env.GetWithFallback("DBPLATFORM_TEST_PRIMARY", "DBPLATFORM_TEST_FALLBACK"); got != "fallback_value" {
		t.Errorf("GetWithFallback() = %q, want %q", got, "fallback_value")
	}
	if got := env.Get("DBPLATFORM_TEST_FALLBACK"); got != "fallback_value" {
		t.Errorf("Get() = %q, want %q", got, "fallback_value")
	}
}

func TestLoad(t *testing.T) {
	env := MapEnv{
		"DB2_HOST":     "db2.internal",
		"DB_HOST":      "ignored",
		"DB_PORT":      "50001",
		"DB_ENGINE":    "ibm_db2",
		"DB2_DATABASE": "SAMPLE",
		"DB_USERNAME":  "db2inst1",
		"DB2_PASSWORD": "secret",
	}

	cfg := Load(env)
	want := DatabaseConfig{
		Engine:   "db2",
		Host:     "db2.internal",
		Port:     "50001",
		Database: "SAMPLE",
		User:     "db2inst1",
		Password: "secret",
		Driver:   DefaultDB2Driver,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_Driver(t *testing.T) {
	cfg := Load(MapEnv{"DB2_DRIVER": "db2cli"})
	if cfg.Driver != "db2cli" {
		t.Errorf("Load().Driver = %q, want %q", cfg.Driver, "db2cli")
	}
	if cfg.Engine != "" {
		t.Errorf("Load().Engine = %q, want empty", cfg.Engine)
	}
}

func TestHasDefaults(t *testing.T) {
	if HasDefaults(Load(MapEnv{})) {
		t.Errorf("HasDefaults() = true, want false with an empty environment")
	}
	if !HasDefaults(Load(MapEnv{"DB_DATABASE": "SAMPLE"})) {
		t.Errorf("HasDefaults() = false, want true when DB_DATABASE is set")
	}
}

func TestValidate(t *testing.T) {
	full := DatabaseConfig{Engine: "db2", Host: "localhost", Database: "SAMPLE", User: "db2inst1"}
	if err := Validate(full); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	err := Validate(DatabaseConfig{Engine: "db2"})
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Validate() error = %v, want ErrIncomplete", err)
	}
	want := "incomplete database configuration: missing host, database, user"
	if err.Error() != want {
		t.Errorf("Validate() error = %q, want %q", err.Error(), want)
	}
}

func TestLoadEnv(t *testing.T) {
	// LoadEnv should not panic or error when .env file doesn't exist
	LoadEnv()

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DBPLATFORM_TEST_FROM_FILE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DBPLATFORM_TEST_FROM_FILE", "")
	os.Unsetenv("DBPLATFORM_TEST_FROM_FILE")

	LoadEnv(path)
	if got := os.Getenv("DBPLATFORM_TEST_FROM_FILE"); got != "loaded" {
		t.Errorf("LoadEnv(%q) set %q, want %q", path, got, "loaded")
	}
}
