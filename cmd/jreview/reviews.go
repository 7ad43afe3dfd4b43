package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	reviewsLimit  int
	reviewsOffset int
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List stored reviews, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		rows, err := a.db.ListReviews(reviewsLimit, reviewsOffset)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println(color.New(color.FgHiBlack).Sprint("No reviews yet"))
			return nil
		}
		bold := color.New(color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, r := range rows {
			fmt.Printf("%6s  %s  %s\n    %s\n",
				fmt.Sprintf("#%d", r.ID), bold(r.Filename),
				gray(r.CreatedAt.Local().Format("2006-01-02 15:04:05")),
				countsLine(r.Counts))
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show issue totals across all stored reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.db.Summary()
		if err != nil {
			return err
		}
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Review Summary ==="))
		fmt.Printf("  Reviews: %d\n", s.Reviews)
		fmt.Printf("  Issues:  %s\n\n", countsLine(s.Counts))
		return nil
	},
}

func init() {
	reviewsCmd.Flags().IntVar(&reviewsLimit, "limit", 20, "Maximum rows (0 for all)")
	reviewsCmd.Flags().IntVar(&reviewsOffset, "offset", 0, "Rows to skip")
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(summaryCmd)
}
