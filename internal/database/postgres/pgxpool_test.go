package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"skill-match/internal/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	got := DSN(config.DatabaseConfig{
		DBHost:     " db ",
		DBPort:     "5432",
		DBUser:     "app",
		DBPassword: `p'a ss`,
		DBName:     "skills",
		DBSSLMode:  "disable",
	})
	want := `host='db' port='5432' user='app' password='p\'a ss' dbname='skills' sslmode='disable'`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDSN_SkipsEmpty(t *testing.T) {
	t.Parallel()

	got := DSN(config.DatabaseConfig{DBHost: "db"})
	if got != "host='db'" {
		t.Fatalf("unexpected dsn %s", got)
	}
}

func TestNewQueryTracer_Level(t *testing.T) {
	t.Parallel()

	if got := NewQueryTracer(nil).LogLevel; got != tracelog.LogLevelError {
		t.Fatalf("expected error level for nop logger, got %v", got)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewQueryTracer(zap.New(core))
	if tr.LogLevel != tracelog.LogLevelDebug {
		t.Fatalf("expected debug level, got %v", tr.LogLevel)
	}
	tr.Logger.Log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{"sql": "SELECT 1"})
	if logs.Len() != 1 || logs.All()[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error entry, got %v", logs.All())
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatal("expected unique violation")
	}
	if IsUniqueViolation(errors.New("other")) {
		t.Fatal("unexpected unique violation")
	}
}
