package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"skill-match/internal/domain/catalog"
	"skill-match/internal/domain/matching"
	"skill-match/internal/extract"
	"skill-match/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type analyzeOutput struct {
	File             string          `json:"file"`
	Role             string          `json:"role"`
	RoleKnown        bool            `json:"role_known"`
	Score            int             `json:"score"`
	Matched          []string        `json:"matched"`
	Missing          []string        `json:"missing"`
	Extracted        []string        `json:"extracted"`
	ExtractionFailed bool            `json:"extraction_failed"`
	TopRoles         matching.Ranked `json:"top_roles"`
	Report           string          `json:"report,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume>",
	Short: "Match a resume file (PDF, DOCX or TXT) against a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()

		path := args[0]
		role, _ := cmd.Flags().GetString("role")
		out, _ := cmd.Flags().GetString("out")
		asJSON, _ := cmd.Flags().GetBool("json")
		top := viper.GetInt("top")
		if top <= 0 {
			return errors.New("--top must be positive")
		}

		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		res, rep, err := analyzeFile(cmd.Context(), logger, cat, path, role, top)
		if err != nil {
			return err
		}
		res.Report = out

		if out != "" {
			art, err := report.NewXLSXRenderer().Render(cmd.Context(), rep)
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			if err := os.WriteFile(out, art.Data, 0o644); err != nil {
				return err
			}
			logger.Info("report written", zap.String("path", out))
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		art, err := report.NewTextRenderer().Render(cmd.Context(), rep)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(art.Data)
		return err
	},
}

// analyzeFile reads, extracts and scores one resume. Extraction failures are
// logged and produce an empty skill set.
func analyzeFile(ctx context.Context, logger *zap.Logger, cat *catalog.Catalog, path, role string, top int) (analyzeOutput, report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analyzeOutput{}, report.Report{}, err
	}
	contentType := extract.DetectContentType(path, data)
	if !extract.Supported(contentType) {
		return analyzeOutput{}, report.Report{}, fmt.Errorf("%s: %w", path, extract.ErrUnsupportedType)
	}

	failed := false
	text, err := extract.Text(ctx, contentType, data)
	if err != nil {
		logger.Warn("text extraction failed", zap.String("file", path), zap.Error(err))
		failed = true
	}
	extracted := extract.Skills(text, cat.Vocabulary())
	logger.Debug("skills extracted", zap.String("file", path), zap.Strings("skills", extracted.Items()))

	res, known := matching.MatchRole(cat, role, extracted)
	ranked := matching.RankRoles(cat, extracted).Top(top)
	if !known {
		logger.Warn("role not in catalog", zap.String("role", role), zap.Strings("roles", cat.Names()))
	}

	rep := report.Report{
		CandidateName: report.CandidateName(path),
		SelectedRole:  role,
		Selected:      res,
		TopRoles:      ranked,
		GeneratedAt:   time.Now().UTC(),
	}
	return analyzeOutput{
		File:             path,
		Role:             role,
		RoleKnown:        known,
		Score:            res.Score,
		Matched:          res.Matched.Items(),
		Missing:          res.Missing.Items(),
		Extracted:        extracted.Items(),
		ExtractionFailed: failed,
		TopRoles:         ranked,
	}, rep, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("role", "r", "", "career role to match against")
	analyzeCmd.Flags().IntP("top", "n", 5, "number of top roles to show (env MATCH_TOP_ROLES)")
	analyzeCmd.Flags().StringP("out", "o", "", "write the XLSX report to this path")
	analyzeCmd.Flags().Bool("json", false, "print the result as JSON")
	_ = analyzeCmd.MarkFlagRequired("role")

	viper.BindPFlag("top", analyzeCmd.Flags().Lookup("top"))
}
