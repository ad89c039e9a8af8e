package main

import (
	"context"
	"fmt"
	"time"

	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/config"
	"TapaalTracker/pkg/routes"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an active administrator directly in the database.

Self-registration only creates viewer accounts, so the first administrator
has to be created here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := auth.RegisterRequest{}
		req.Name, _ = cmd.Flags().GetString("name")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Department, _ = cmd.Flags().GetString("department")
		if len(req.Password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		var users *auth.UserService
		app := fx.New(
			routes.CoreModules,
			fx.WithLogger(config.FxLogger),
			fx.Populate(&users),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.Start(ctx); err != nil {
			return err
		}
		defer app.Stop(context.Background())

		user, err := users.CreateAdmin(ctx, req)
		if err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}
		fmt.Printf("Administrator %s created (id %s)\n", user.Email, user.ID.Hex())
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("name", "", "display name")
	createAdminCmd.Flags().String("email", "", "login email")
	createAdminCmd.Flags().String("password", "", "initial password (min 8 characters)")
	createAdminCmd.Flags().String("department", "Administration", "department name")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
