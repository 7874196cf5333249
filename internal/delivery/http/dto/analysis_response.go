package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisResponse struct {
	ID               uuid.UUID            `json:"id"`
	Filename         string               `json:"filename"`
	ContentType      string               `json:"content_type"`
	Role             string               `json:"role"`
	RoleKnown        bool                 `json:"role_known"`
	Score            int                  `json:"score"`
	Matched          []string             `json:"matched"`
	Missing          []string             `json:"missing"`
	Extracted        []string             `json:"extracted"`
	ExtractionFailed bool                 `json:"extraction_failed"`
	TopRoles         []RankedRoleResponse `json:"top_roles"`
	CreatedAt        time.Time            `json:"created_at"`

	ReportURL       string     `json:"report_url,omitempty"`
	ReportExpiresAt *time.Time `json:"report_expires_at,omitempty"`
}
