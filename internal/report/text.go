package report

import (
	"context"
	"fmt"
	"strings"
)

const ContentTypeText = "text/plain; charset=utf-8"

type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (TextRenderer) Render(ctx context.Context, r Report) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resume Analysis Report for %s\n\n", r.CandidateName)

	b.WriteString("Top Matching Roles:\n")
	if len(r.TopRoles) == 0 {
		b.WriteString("  None\n")
	}
	for _, it := range r.TopRoles {
		fmt.Fprintf(&b, "  %s: %d%%\n", it.Role, it.Score)
	}

	fmt.Fprintf(&b, "\nSelected Role Match - %s: %d%%\n", r.SelectedRole, r.Selected.Score)
	fmt.Fprintf(&b, "Matched Skills: %s\n", joinOrNone(r.Selected.Matched))
	fmt.Fprintf(&b, "Missing Skills: %s\n", joinOrNone(r.Selected.Missing))

	return Artifact{
		Filename:    r.CandidateName + "_report.txt",
		ContentType: ContentTypeText,
		Data:        []byte(b.String()),
	}, nil
}
