package extract

import (
	"reflect"
	"sort"
	"testing"

	"skill-match/internal/domain/matching"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Golang", "go"},
		{"k8s", "kubernetes"},
		{"Scikit   Learn", "scikit-learn"},
		{"python", "python"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAliasesOf(t *testing.T) {
	t.Parallel()

	got := AliasesOf("PostgreSQL")
	sort.Strings(got)
	want := []string{"postgres", "psql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := AliasesOf("figma"); len(got) != 0 {
		t.Fatalf("expected no aliases, got %v", got)
	}
}

func TestSkills_FoldsAliases(t *testing.T) {
	t.Parallel()

	vocab := matching.NewSkillSet("go", "postgresql", "kubernetes", "docker")
	text := "Golang services on Postgres, deployed with K8s"

	got := Skills(text, vocab)
	want := []string{"go", "postgresql", "kubernetes"}
	if !reflect.DeepEqual(got.Items(), want) {
		t.Fatalf("expected %v, got %v", want, got.Items())
	}
}
