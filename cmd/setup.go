package main

import (
	"fmt"

	"drivebox/internal/auth"
	"drivebox/internal/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Verify authentication configuration",
	Long: `Verify that drivebox can load its configuration and produce an
authorized client. Runs the interactive OAuth flow when no cached
token exists.`,
	RunE: runSetupCommand,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetupCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if _, err := auth.GetClient(cfg); err != nil {
		return err
	}

	if cfg.ServiceAccountFile != "" {
		fmt.Println("Authorized via service account.")
	} else {
		fmt.Println("Authorized via OAuth; token cached at", cfg.TokenFile)
	}

	return nil
}
