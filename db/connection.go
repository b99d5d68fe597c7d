package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"

	"github.com/DGarbs51/dbplatform/internal/config"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrDriverNotRegistered is returned when the database/sql driver for the
// engine is not linked into the binary
var ErrDriverNotRegistered = errors.New("database driver not registered")

// DSN returns the driver name and data source name for cfg
func DSN(cfg config.DatabaseConfig) (driverName, dsn string, err error) {
	switch config.NormalizeEngine(cfg.Engine) {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.Database
		mc.ParseTime = true
		return "mysql", mc.FormatDSN(), nil
	case "pgsql":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     net.JoinHostPort(cfg.Host, cfg.Port),
			Path:     "/" + cfg.Database,
			RawQuery: "sslmode=require",
		}
		return "postgres", u.String(), nil // lib/pq uses "postgres" as driver name
	case "db2":
		driverName = cfg.Driver
		if driverName == "" {
			driverName = config.DefaultDB2Driver
		}
		return driverName, db2DSN(cfg), nil
	default:
		return "", "", fmt.Errorf("unsupported database engine: %s", cfg.Engine)
	}
}

// db2DSN builds a CLI keyword connection string. Values containing ';' are
// wrapped in braces.
func db2DSN(cfg config.DatabaseConfig) string {
	pairs := []struct{ key, value string }{
		{"HOSTNAME", cfg.Host},
		{"PORT", cfg.Port},
		{"DATABASE", cfg.Database},
		{"UID", cfg.User},
		{"PWD", cfg.Password},
		{"PROTOCOL", "TCPIP"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		v := p.value
		if strings.ContainsAny(v, ";{}") {
			v = "{" + strings.ReplaceAll(v, "}", "}}") + "}"
		}
		parts = append(parts, p.key+"="+v)
	}
	return strings.Join(parts, ";")
}

// Open connects to the database described by cfg and verifies the
// connection with a ping
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driverName, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(sql.Drivers(), driverName) {
		if driverName == config.DefaultDB2Driver {
			return nil, fmt.Errorf("%w: %q (build with -tags db2)", ErrDriverNotRegistered, driverName)
		}
		return nil, fmt.Errorf("%w: %q (engine %s)", ErrDriverNotRegistered, driverName, cfg.Engine)
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Engine, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s at %s:%s: %w", cfg.Engine, cfg.Host, cfg.Port, err)
	}

	logger.Info("connected",
		zap.String("engine", cfg.Engine),
		zap.String("driver", driverName),
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Database),
	)
	return conn, nil
}
