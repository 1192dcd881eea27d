package cmd

import (
	"fmt"

	"github.com/VybCoding/OneWonderLake/internal/auth"
	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account for the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		if _, err := connect(); err != nil {
			return err
		}
		auth.Init()

		u, err := auth.CreateUser(cmd.Context(), auth.NewGormStore(db.DB), adminUsername, adminEmail, adminPassword, auth.RoleAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Username, u.UserID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "login name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "contact email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
