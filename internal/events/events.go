package events

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const TypeAnalysisCompleted = "analysis_completed"

type Event struct {
	Type       string    `json:"type"`
	AnalysisID uuid.UUID `json:"analysis_id"`
	Role       string    `json:"role"`
	RoleKnown  bool      `json:"role_known"`
	Score      int       `json:"score"`
	TopRole    string    `json:"top_role,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RoutingKey is "analysis.<slug>" where slug is the lower-cased role with
// runs of non-alphanumerics collapsed to "-".
func RoutingKey(role string) string {
	slug := Slug(role)
	if slug == "" {
		slug = "unknown"
	}
	return "analysis." + slug
}

func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
