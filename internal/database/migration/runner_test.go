package migration

import (
	"testing"
	"testing/fstest"

	"skill-match/migrations"
)

func TestLoad_OrdersAndChecksums(t *testing.T) {
	t.Parallel()

	src := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("  SELECT 1;\n")},
		"README.md":      {Data: []byte("ignored")},
	}

	migs, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "first" || migs[0].SQL != "SELECT 1;" {
		t.Fatalf("unexpected first migration: %+v", migs[0])
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("expected distinct checksums")
	}
}

func TestLoad_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  fstest.MapFS
	}{
		{name: "empty file", src: fstest.MapFS{"V1__empty.sql": {Data: []byte("  ")}}},
		{name: "duplicate version", src: fstest.MapFS{
			"V1__a.sql": {Data: []byte("SELECT 1;")},
			"V1__b.sql": {Data: []byte("SELECT 1;")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(tt.src); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_EmbeddedMigrations(t *testing.T) {
	t.Parallel()

	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(migs))
	}
	for i, m := range migs {
		if m.Version != int64(i+1) {
			t.Fatalf("expected contiguous versions, got %d at %d", m.Version, i)
		}
	}
}
