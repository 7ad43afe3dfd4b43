package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/reporting"
	"github.com/codewithboateng/jreview/internal/source"
)

var (
	analyzeFormat  string
	analyzeOut     string
	analyzeNoSave  bool
	analyzeWorkers int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Review Java files or directories",
	Long: `Analyze every .java file under the given paths (or analysis.sources from the
config), store one review per file and write a report for each.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Report format (json, html, text)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Report directory (default reporting.out_dir)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Do not store reviews in the database")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Concurrent analyses (default analysis.workers)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	write, err := reportWriter(analyzeFormat)
	if err != nil {
		return err
	}
	a, err := setupEngine()
	if err != nil {
		return err
	}
	defer a.Close()

	paths := args
	if len(paths) == 0 {
		paths = a.cfg.Analysis.Sources
	}
	if len(paths) == 0 {
		return fmt.Errorf("analyze: give at least one path (or set analysis.sources)")
	}
	out := analyzeOut
	if out == "" {
		out = a.cfg.Reporting.OutDir
	}
	workers := analyzeWorkers
	if workers <= 0 {
		workers = a.cfg.Analysis.Workers
	}

	units, diags := source.Load(paths, a.cfg.Analysis.MaxSourceBytes)
	for _, w := range diags.Warnings {
		a.logger.Warn("source warning", "warning", w)
	}
	if len(units) == 0 {
		return fmt.Errorf("analyze: nothing to analyze")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reviews, err := a.engine.AnalyzeAll(ctx, units, workers)
	if err != nil {
		return err
	}

	waivers, err := a.db.ListWaivers(true)
	if err != nil {
		return fmt.Errorf("load waivers: %w", err)
	}

	bold := color.New(color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	var total ir.Counts
	for _, r := range reviews {
		waived := analysis.ApplyWaivers(r, waivers)
		if !analyzeNoSave {
			if err := a.db.SaveReview(r); err != nil {
				return fmt.Errorf("save review %s: %w", r.Filename, err)
			}
		}
		path, err := write(out, r)
		if err != nil {
			return fmt.Errorf("write report %s: %w", r.Filename, err)
		}
		a.logger.Info("review complete", "file", r.Filename, "review", r.ID, "issues", r.Counts.Total(), "report", path)

		id := gray("unsaved")
		if r.ID != 0 {
			id = fmt.Sprintf("#%d", r.ID)
		}
		fmt.Printf("%s %s  %s", bold(r.Filename), id, countsLine(r.Counts))
		if waived > 0 {
			fmt.Printf("  %s", gray(fmt.Sprintf("(%d waived)", waived)))
		}
		fmt.Printf("\n  %s\n", gray(path))

		total.Errors += r.Counts.Errors
		total.Warnings += r.Counts.Warnings
		total.Optimizations += r.Counts.Optimizations
		total.Security += r.Counts.Security
	}
	if len(reviews) > 1 {
		fmt.Printf("\n%s %d files  %s\n", bold("Total:"), len(reviews), countsLine(total))
	}
	return nil
}

type writeFunc func(outDir string, r *ir.Review) (string, error)

func reportWriter(format string) (writeFunc, error) {
	switch format {
	case "json":
		return reporting.WriteJSON, nil
	case "html":
		return reporting.WriteHTML, nil
	case "text", "txt":
		return reporting.WriteText, nil
	}
	return nil, fmt.Errorf("unknown format %q (want json, html or text)", format)
}

// countsLine renders the four category counts, coloring the non-zero ones.
func countsLine(c ir.Counts) string {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	part := func(n int, label string, paint func(a ...interface{}) string) string {
		s := fmt.Sprintf("%d %s", n, label)
		if n == 0 {
			return gray(s)
		}
		return paint(s)
	}
	return fmt.Sprintf("%s, %s, %s, %s (%d total)",
		part(c.Errors, "errors", red),
		part(c.Warnings, "warnings", yellow),
		part(c.Optimizations, "optimizations", cyan),
		part(c.Security, "security", magenta),
		c.Total())
}
