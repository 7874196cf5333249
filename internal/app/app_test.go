package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"skill-match/internal/config"
	"skill-match/internal/infrastructure/storage"
)

func TestListenAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "8080", want: ":8080"},
		{in: " :9000 ", want: ":9000"},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ListenAddr(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ListenAddr(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	if err := os.WriteFile(path, []byte(`{"Backend Developer":["go","sql"]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadCatalog(context.Background(), config.CatalogConfig{Source: config.CatalogSourceFile, Path: path}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 role, got %d", c.Len())
	}
}

func TestLoadCatalog_PostgresNeedsDB(t *testing.T) {
	_, err := LoadCatalog(context.Background(), config.CatalogConfig{Source: config.CatalogSourcePostgres}, nil)
	if err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestLoadCatalog_BundledSample(t *testing.T) {
	c, err := LoadCatalog(context.Background(), config.CatalogConfig{
		Source: config.CatalogSourceFile,
		Path:   filepath.Join("..", "..", "known_skills.json"),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := c.Lookup("Backend Developer"); !ok {
		t.Fatalf("expected Backend Developer in sample catalog")
	}
}

func TestNewStore_Local(t *testing.T) {
	s, err := NewStore(context.Background(), config.StorageConfig{Driver: config.StorageDriverLocal, LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := s.(*storage.Local); !ok {
		t.Fatalf("expected local store, got %T", s)
	}
}
