package cmd

import (
	"fmt"

	"civic-jharkhand-be/services"
	"civic-jharkhand-be/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

// Admins cannot be created through the API, so this is the only way in.
var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStores(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer st.close()

		tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			return err
		}
		auth := services.NewAuthService(st.users, tokens, logger)

		admin, err := auth.CreateAdmin(ctx, services.RegisterInput{
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			return err
		}
		logger.Info("admin created", zap.String("user_id", admin.ID.Hex()), zap.String("email", admin.Email))
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID.Hex())
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "login password (min 6 characters)")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}
