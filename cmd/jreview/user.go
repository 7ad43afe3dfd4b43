package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/security"
	"github.com/codewithboateng/jreview/internal/storage"
)

var (
	userName     string
	userRole     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage API users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an API user",
	Long: `Create a user for the HTTP API. The password comes from --password or, when
that is empty, from JREVIEW_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch userRole {
		case storage.RoleAdmin, storage.RoleViewer:
		default:
			return fmt.Errorf("role must be %q or %q", storage.RoleAdmin, storage.RoleViewer)
		}
		pw := userPassword
		if pw == "" {
			pw = os.Getenv("JREVIEW_PASSWORD")
		}
		hash, err := security.HashPassword(pw)
		if err != nil {
			return err
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.db.CreateUser(userName, hash, userRole)
		if err != nil {
			return err
		}
		if err := a.db.LogAudit("cli", "user.create", userName, map[string]any{"role": userRole}); err != nil {
			a.logger.Warn("audit log failed", "err", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s user %s (#%d, %s)\n", green("Created"), userName, id, userRole)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "username", "", "Login name")
	userAddCmd.Flags().StringVar(&userRole, "role", storage.RoleViewer, "Role (admin, viewer)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "Password (default $JREVIEW_PASSWORD)")
	_ = userAddCmd.MarkFlagRequired("username")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}
