package extract

import (
	"reflect"
	"testing"

	"skill-match/internal/domain/matching"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "lower cases and drops stopwords",
			input:    "I have experience with Python and SQL.",
			contains: []string{"python", "sql", "experience"},
			excludes: []string{"i", "and", "with", "Python"},
		},
		{
			name:     "keeps skill punctuation",
			input:    "C++, C#, Node.js and .NET developer",
			contains: []string{"c++", "c#", "node.js", ".net", ".net developer"},
		},
		{
			name:     "emits multi word phrases",
			input:    "Worked on machine learning pipelines",
			contains: []string{"machine learning", "machine learning pipelines"},
		},
		{
			name:     "phrases break on punctuation and blank lines",
			input:    "Docker, Kubernetes\n \nTerraform",
			contains: []string{"docker", "kubernetes", "terraform"},
			excludes: []string{"docker kubernetes", "kubernetes terraform"},
		},
		{
			name:     "wrapped line keeps the phrase",
			input:    "Built machine\nlearning models",
			contains: []string{"machine learning", "learning models"},
		},
		{
			name:     "crlf wrapped line keeps the phrase",
			input:    "Power\r\nBI dashboards",
			contains: []string{"power bi"},
		},
		{
			name:     "drops numbers and bare punctuation",
			input:    "2019 - 2023 ... !!!",
			excludes: []string{"2019", "2023", "-", "..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := map[string]bool{}
			for _, tok := range Tokenize(tt.input) {
				got[tok] = true
			}
			for _, want := range tt.contains {
				if !got[want] {
					t.Fatalf("expected token %q in %v", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if got[bad] {
					t.Fatalf("unexpected token %q in %v", bad, got)
				}
			}
		})
	}
}

func TestSkills_RestrictedToVocabulary(t *testing.T) {
	t.Parallel()

	vocab := matching.NewSkillSet("python", "machine learning", "sql", "excel")
	text := "Python developer. Built Machine Learning models; some SQL. Loves hiking."

	got := Skills(text, vocab)
	want := []string{"python", "machine learning", "sql"}
	if !reflect.DeepEqual(got.Items(), want) {
		t.Fatalf("expected %v, got %v", want, got.Items())
	}
}

func TestSkills_EmptyText(t *testing.T) {
	t.Parallel()

	if got := Skills("", matching.NewSkillSet("python")); !got.IsEmpty() {
		t.Fatalf("expected empty set, got %v", got.Items())
	}
}
