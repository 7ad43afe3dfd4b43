package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List and toggle review rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupEngine()
		if err != nil {
			return err
		}
		defer a.Close()

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		bold := color.New(color.Bold).SprintFunc()
		for _, r := range a.reg.List() {
			mark := green("●")
			if !r.Enabled() {
				mark = gray("○")
			}
			fmt.Printf("%s %-28s %s\n", mark, bold(r.Name()), gray(r.Summary()))
		}
		return nil
	},
}

var rulesEnableCmd = &cobra.Command{
	Use:   "enable <rule>...",
	Short: "Enable rules and persist the change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleRules(args, true) },
}

var rulesDisableCmd = &cobra.Command{
	Use:   "disable <rule>...",
	Short: "Disable rules and persist the change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleRules(args, false) },
}

func init() {
	rulesCmd.AddCommand(rulesListCmd, rulesEnableCmd, rulesDisableCmd)
	rootCmd.AddCommand(rulesCmd)
}

// toggleRules persists only the names the registry knows; unknown names are
// reported and skipped.
func toggleRules(names []string, on bool) error {
	a, err := setupEngine()
	if err != nil {
		return err
	}
	defer a.Close()

	updates := make(map[string]bool, len(names))
	for _, n := range names {
		updates[n] = on
	}
	applied := a.reg.SetRuleStates(updates)
	persist := make(map[string]bool, len(applied))
	for _, n := range applied {
		persist[n] = on
		delete(updates, n)
	}
	if err := a.db.SaveRuleStates(persist); err != nil {
		return fmt.Errorf("save rule states: %w", err)
	}
	if err := a.db.LogAudit("cli", "rules.update", "rules", map[string]any{"applied": applied, "enabled": on}); err != nil {
		a.logger.Warn("audit log failed", "err", err)
	}

	verb := color.New(color.FgGreen).Sprint("enabled")
	if !on {
		verb = color.New(color.FgYellow).Sprint("disabled")
	}
	for _, n := range applied {
		fmt.Printf("%s %s\n", verb, n)
	}
	for n := range updates {
		fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("unknown rule"), n)
	}
	if len(applied) == 0 {
		return fmt.Errorf("no known rules given")
	}
	return nil
}
