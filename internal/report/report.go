package report

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"skill-match/internal/domain/matching"
)

// Report is everything a rendered artifact shows about one analysis.
type Report struct {
	CandidateName string
	SelectedRole  string
	Selected      matching.Result
	TopRoles      matching.Ranked
	GeneratedAt   time.Time
}

type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer turns a Report into a downloadable artifact.
type Renderer interface {
	Render(ctx context.Context, r Report) (Artifact, error)
}

// CandidateName derives the display name from an uploaded file name.
func CandidateName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) {
		return "resume"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(name) == "" {
		return "resume"
	}
	return name
}

func joinOrNone(s matching.SkillSet) string {
	if s.IsEmpty() {
		return "None"
	}
	return strings.Join(s.Items(), ", ")
}

// ContentTypeFor maps a stored artifact name back to its content type.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ContentTypeXLSX
	case ".txt":
		return ContentTypeText
	default:
		return "application/octet-stream"
	}
}
