package main

import (
	"fmt"
	"log/slog"
	"os"

	"drivebox/internal/config"

	"github.com/spf13/cobra"
)

var (
	credentialsPath string
	configDir       string
	debugMode       bool
)

var rootCmd = &cobra.Command{
	Use:   "drivebox",
	Short: "Work with Google Drive files and folders from the command line",
	Long: `drivebox resolves Drive folders and files by name or id, lists
children by type, exports document content, and uploads files with
replace-if-changed semantics.

Commands:
  ls     List the children of a folder
  cat    Export a document's content to stdout
  pull   Download a file, skipping unchanged content
  push   Upload a file into a folder
  setup  Verify authentication configuration`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugMode {
			level = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)

		if credentialsPath != "" {
			config.SetCustomCredentialsPath(credentialsPath)
		}

		if configDir != "" {
			config.SetCustomConfigDir(configDir)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&credentialsPath, "credentials", "c", "", "Path to credentials.json file")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Custom configuration directory")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
