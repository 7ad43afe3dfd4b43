package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/reporting"
)

var (
	reportID     int64
	reportOut    string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render reports for a stored review",
	Long:  `Load a stored review and write it as JSON and HTML (or the formats given with --format).`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportID, "review", 0, "Review ID")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Report directory (default reporting.out_dir)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "json,html", "Comma-separated formats (json, html, text), or - for text on stdout")
	_ = reportCmd.MarkFlagRequired("review")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.db.LoadReview(reportID)
	if err != nil {
		return fmt.Errorf("load review: %w", err)
	}
	if reportFormat == "-" {
		return reporting.RenderText(os.Stdout, &r)
	}

	out := reportOut
	if out == "" {
		out = a.cfg.Reporting.OutDir
	}
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Printf("%s review #%d (%s)\n", green("Report OK"), r.ID, r.Filename)
	for _, f := range strings.Split(reportFormat, ",") {
		write, err := reportWriter(strings.TrimSpace(f))
		if err != nil {
			return err
		}
		path, err := write(out, &r)
		if err != nil {
			return err
		}
		fmt.Printf("  %s\n", path)
	}
	return nil
}
