package analysis

import (
	"time"

	"skill-match/internal/domain/matching"

	"github.com/google/uuid"
)

// Analysis is one uploaded resume matched against the catalog.
type Analysis struct {
	ID               uuid.UUID         `json:"id"`
	Filename         string            `json:"filename"`
	ContentType      string            `json:"content_type"`
	ContentDigest    string            `json:"content_digest"`
	CatalogVersion   string            `json:"catalog_version"`
	Role             string            `json:"role"`
	RoleKnown        bool              `json:"role_known"`
	Result           matching.Result   `json:"result"`
	TopRoles         matching.Ranked   `json:"top_roles"`
	Extracted        matching.SkillSet `json:"extracted"`
	ExtractionFailed bool              `json:"extraction_failed"`
	ResumeKey        string            `json:"resume_key"`
	ReportKey        string            `json:"report_key"`
	CreatedAt        time.Time         `json:"created_at"`
}

func ResumeKey(id uuid.UUID, ext string) string {
	return "resumes/" + id.String() + ext
}

func ReportKey(id uuid.UUID, ext string) string {
	return "reports/" + id.String() + ext
}
