package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/reporting"
)

var (
	diffBase int64
	diffHead int64
	diffOut  string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the findings of two stored reviews",
	Long: `Match the findings of two reviews by rule, title and line, print what is new,
removed or changed, and write the comparison as JSON.`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().Int64Var(&diffBase, "base", 0, "Base review ID")
	diffCmd.Flags().Int64Var(&diffHead, "head", 0, "Head review ID")
	diffCmd.Flags().StringVar(&diffOut, "out", "", "Report directory (default reporting.out_dir)")
	_ = diffCmd.MarkFlagRequired("base")
	_ = diffCmd.MarkFlagRequired("head")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	base, err := a.db.LoadReview(diffBase)
	if err != nil {
		return fmt.Errorf("load base review: %w", err)
	}
	head, err := a.db.LoadReview(diffHead)
	if err != nil {
		return fmt.Errorf("load head review: %w", err)
	}
	out := diffOut
	if out == "" {
		out = a.cfg.Reporting.OutDir
	}
	path, err := reporting.WriteDiffJSON(out, &base, &head)
	if err != nil {
		return err
	}

	d := reporting.Compare(&base, &head)
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Printf("%s #%d -> #%d\n", cyan("Diff"), base.ID, head.ID)
	for _, f := range d.New {
		fmt.Printf("  %s %s line %d: %s\n", red("+"), f.Rule, f.Line, f.Title)
	}
	for _, f := range d.Removed {
		fmt.Printf("  %s %s line %d: %s\n", green("-"), f.Rule, f.Line, f.Title)
	}
	for _, c := range d.Changed {
		fmt.Printf("  %s %s line %d: %v\n", yellow("~"), c.Head.Rule, c.Head.Line, c.Changed)
	}
	fmt.Printf("%d new, %d removed, %d changed\n  %s\n",
		d.Summary.NewCount, d.Summary.RemovedCount, d.Summary.ChangedCount, path)
	return nil
}
