package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"skill-match/internal/domain/catalog"

	"go.uber.org/zap"
)

const testCatalogJSON = `{"Backend Developer": ["go", "sql", "docker"], "Designer": ["figma"]}`

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadJSON(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestBatchReportNames(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "distinct names untouched",
			paths: []string{"a/jane.pdf", "b/john.docx"},
			want:  []string{"jane_report", "john_report"},
		},
		{
			name:  "same base name in different dirs",
			paths: []string{"a/cv.pdf", "b/cv.pdf", "c/other.txt"},
			want:  []string{"cv_1_report", "cv_2_report", "other_report"},
		},
		{
			name:  "case only difference",
			paths: []string{"a/CV.pdf", "b/cv.txt"},
			want:  []string{"CV_1_report", "cv_2_report"},
		},
		{
			name:  "suffixed name already present",
			paths: []string{"cv_2.pdf", "a/cv.pdf", "b/cv.pdf"},
			want:  []string{"cv_2_report", "cv_2_2_report", "cv_3_report"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchReportNames(tt.paths); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRunBatch_KeepsOrderAndContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, filepath.Join(dir, "a.txt"), []byte("Go and Docker")),
		writeFile(t, filepath.Join(dir, "bad.bin"), []byte{0x00, 0x01, 0x02, 0x03}),
		filepath.Join(dir, "missing.txt"),
		writeFile(t, filepath.Join(dir, "c.txt"), []byte("Figma")),
	}

	items, failed, err := runBatch(context.Background(), zap.NewNop(), testCatalog(t), batchOptions{
		Role:    "Backend Developer",
		Top:     2,
		Workers: 3,
	}, paths)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if failed != 2 {
		t.Fatalf("expected 2 failures, got %d", failed)
	}
	for i, it := range items {
		if it.File != paths[i] {
			t.Fatalf("item %d: expected file %s, got %s", i, paths[i], it.File)
		}
	}
	if items[0].Error != "" || items[0].Score != 67 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Error == "" || items[2].Error == "" {
		t.Fatalf("expected errors on unsupported and missing files, got %+v / %+v", items[1], items[2])
	}
	if items[3].Error != "" || items[3].Score != 0 || items[3].TopRoles[0].Role != "Designer" {
		t.Fatalf("unexpected last item: %+v", items[3])
	}
}

func TestRunBatch_SameNameWritesSeparateReports(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "reports")
	paths := []string{
		writeFile(t, filepath.Join(dir, "a", "cv.txt"), []byte("go sql")),
		writeFile(t, filepath.Join(dir, "b", "cv.txt"), []byte("figma")),
	}

	items, failed, err := runBatch(context.Background(), zap.NewNop(), testCatalog(t), batchOptions{
		Role:    "Backend Developer",
		Top:     1,
		OutDir:  outDir,
		Workers: 2,
	}, paths)
	if err != nil || failed != 0 {
		t.Fatalf("unexpected result: failed=%d err=%v", failed, err)
	}
	if items[0].Report == items[1].Report {
		t.Fatalf("reports share a path: %s", items[0].Report)
	}
	for _, it := range items {
		st, err := os.Stat(it.Report)
		if err != nil || st.Size() == 0 {
			t.Fatalf("expected report at %s: %v", it.Report, err)
		}
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 report files, got %d", len(entries))
	}
}

func TestBatchCommand_FailsWhenAnyFileFails(t *testing.T) {
	dir := t.TempDir()
	catPath := writeFile(t, filepath.Join(dir, "skills.json"), []byte(testCatalogJSON))
	good := writeFile(t, filepath.Join(dir, "good.txt"), []byte("go docker sql"))
	bad := writeFile(t, filepath.Join(dir, "bad.bin"), []byte{0x00, 0x01, 0x02, 0x03})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"batch", "--catalog", catPath, "--role", "Backend Developer", "--json", good, bad})
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("expected failure summary, got %v", err)
	}

	var items []batchItem
	if err := json.Unmarshal(out.Bytes(), &items); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if len(items) != 2 || items[0].File != good || items[1].File != bad {
		t.Fatalf("unexpected items order: %+v", items)
	}
	if items[0].Score != 100 || items[1].Error == "" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	catPath := writeFile(t, filepath.Join(dir, "skills.json"), []byte(testCatalogJSON))
	resume := writeFile(t, filepath.Join(dir, "jane.txt"), []byte("Golang services with Docker"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", "--catalog", catPath, "--role", "Backend Developer", "--json", resume})
	defer rootCmd.SetOut(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var got analyzeOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if !got.RoleKnown || got.Score != 67 || strings.Join(got.Missing, ",") != "sql" {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}
