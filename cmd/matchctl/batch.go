package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"skill-match/internal/domain/catalog"
	"skill-match/internal/report"
	"skill-match/internal/worker"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type batchItem struct {
	analyzeOutput
	Error string `json:"error,omitempty"`
}

type batchOptions struct {
	Role    string
	Top     int
	OutDir  string
	Workers int
	Rate    int
}

var batchCmd = &cobra.Command{
	Use:   "batch <resume>...",
	Short: "Match many resume files against a role concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		defer logger.Sync()

		opts := batchOptions{}
		opts.Role, _ = cmd.Flags().GetString("role")
		opts.OutDir, _ = cmd.Flags().GetString("out-dir")
		opts.Workers, _ = cmd.Flags().GetInt("workers")
		opts.Rate, _ = cmd.Flags().GetInt("rate")
		asJSON, _ := cmd.Flags().GetBool("json")
		opts.Top = viper.GetInt("top")
		if cmd.Flags().Changed("top") {
			opts.Top, _ = cmd.Flags().GetInt("top")
		}
		if opts.Top <= 0 {
			return errors.New("--top must be positive")
		}
		if opts.Rate < 0 {
			return errors.New("--rate must not be negative")
		}

		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		items, failed, err := runBatch(cmd.Context(), logger, cat, opts, args)
		if err != nil {
			return err
		}
		logger.Info("batch finished", zap.Int("files", len(args)), zap.Int("failed", failed))

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(items); err != nil {
				return err
			}
		} else {
			printBatch(cmd.OutOrStdout(), items)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

// runBatch analyzes paths on a worker pool. Items come back in argument
// order; a failing file is recorded on its item and counted, the rest still
// run.
func runBatch(ctx context.Context, logger *zap.Logger, cat *catalog.Catalog, opts batchOptions, paths []string) ([]batchItem, int, error) {
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, 0, err
		}
	}
	reportNames := batchReportNames(paths)

	items := make([]batchItem, len(paths))
	tasks := make([]worker.Task, len(paths))
	for i, path := range paths {
		i, path := i, path
		tasks[i] = worker.Task{Run: func(ctx context.Context) error {
			res, rep, err := analyzeFile(ctx, logger, cat, path, opts.Role, opts.Top)
			if err != nil {
				return err
			}
			if opts.OutDir != "" {
				art, err := report.NewXLSXRenderer().Render(ctx, rep)
				if err != nil {
					return fmt.Errorf("render report: %w", err)
				}
				res.Report = filepath.Join(opts.OutDir, reportNames[i]+filepath.Ext(art.Filename))
				if err := os.WriteFile(res.Report, art.Data, 0o644); err != nil {
					return err
				}
			}
			items[i].analyzeOutput = res
			return nil
		}}
	}

	failed := 0
	for i, err := range worker.Do(ctx, opts.Workers, opts.Rate, tasks) {
		if err == nil {
			continue
		}
		failed++
		items[i] = batchItem{analyzeOutput: analyzeOutput{File: paths[i]}, Error: err.Error()}
		logger.Warn("analyze failed", zap.String("file", paths[i]), zap.Error(err))
	}
	return items, failed, nil
}

// batchReportNames gives every input a report base name unique within the
// batch. Inputs sharing a candidate name get their 1-based position
// appended. Names are compared case-insensitively so they stay distinct on
// case-folding file systems.
func batchReportNames(paths []string) []string {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[strings.ToLower(report.CandidateName(p))]++
	}
	names := make([]string, len(paths))
	taken := make(map[string]bool, len(paths))
	for i, p := range paths {
		name := report.CandidateName(p)
		if counts[strings.ToLower(name)] > 1 {
			name += "_" + strconv.Itoa(i+1)
		}
		// a_2.pdf next to two a.pdf inputs
		for taken[strings.ToLower(name)] {
			name += "_" + strconv.Itoa(i+1)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name + "_report"
	}
	return names
}

func printBatch(out io.Writer, items []batchItem) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "FILE\tSCORE\tMISSING\tBEST ROLE")
	for _, it := range items {
		if it.Error != "" {
			fmt.Fprintf(w, "%s\t-\t-\terror: %s\n", it.File, it.Error)
			continue
		}
		best := "-"
		if len(it.TopRoles) > 0 {
			best = fmt.Sprintf("%s (%d%%)", it.TopRoles[0].Role, it.TopRoles[0].Score)
		}
		fmt.Fprintf(w, "%s\t%d%%\t%s\t%s\n", it.File, it.Score, strings.Join(it.Missing, ", "), best)
	}
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("role", "r", "", "career role to match against")
	batchCmd.Flags().IntP("top", "n", 5, "number of top roles per file (env MATCH_TOP_ROLES)")
	batchCmd.Flags().String("out-dir", "", "write one XLSX report per file into this directory")
	batchCmd.Flags().IntP("workers", "w", 4, "number of files analyzed in parallel")
	batchCmd.Flags().Int("rate", 0, "max files started per second, 0 for no limit")
	batchCmd.Flags().Bool("json", false, "print the results as JSON")
	_ = batchCmd.MarkFlagRequired("role")
}
