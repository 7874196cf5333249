package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet  = "Summary"
	topRolesSheet = "Top Roles"
)

// XLSXRenderer writes the report as a workbook: a summary sheet and a top
// roles sheet carrying a bar chart of the scores.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (XLSXRenderer) Render(ctx context.Context, r Report) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return Artifact{}, err
	}
	if _, err := f.NewSheet(topRolesSheet); err != nil {
		return Artifact{}, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Artifact{}, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return Artifact{}, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return Artifact{}, err
	}

	if err := writeSummary(f, r, title, bold); err != nil {
		return Artifact{}, err
	}
	if err := writeTopRoles(f, r, header); err != nil {
		return Artifact{}, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Filename:    r.CandidateName + "_report.xlsx",
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func writeSummary(f *excelize.File, r Report, titleStyle, boldStyle int) error {
	rows := [][]any{
		{fmt.Sprintf("Resume Analysis Report for %s", r.CandidateName)},
		{"Generated At", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")},
		{},
		{"Selected Role", r.SelectedRole},
		{"Match Score (%)", r.Selected.Score},
		{"Matched Skills", joinOrNone(r.Selected.Matched)},
		{"Missing Skills", joinOrNone(r.Selected.Missing)},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(summarySheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A2", "A7", boldStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 80)
}

func writeTopRoles(f *excelize.File, r Report, headerStyle int) error {
	if err := f.SetSheetRow(topRolesSheet, "A1", &[]any{"Role", "Match Score (%)"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(topRolesSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	for i, it := range r.TopRoles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(topRolesSheet, cell, &[]any{it.Role, it.Score}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(topRolesSheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(topRolesSheet, "B", "B", 18); err != nil {
		return err
	}

	if len(r.TopRoles) == 0 {
		return nil
	}

	last := len(r.TopRoles) + 1
	sheetRef := "'" + topRolesSheet + "'"
	maxScore := 100.0
	return f.AddChart(topRolesSheet, "D2", &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheetRef),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetRef, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheetRef, last),
		}},
		Title:     []excelize.RichTextRun{{Text: "Top Career Role Matches"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		XAxis:     excelize.ChartAxis{ReverseOrder: true},
		YAxis:     excelize.ChartAxis{Maximum: &maxScore, Title: []excelize.RichTextRun{{Text: "Match Score (%)"}}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
}
