package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"winauto-mcp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "winauto",
	Short: "Drive running Windows desktop applications via UI Automation",
	Long: `winauto lets AI agents drive an already-running Windows desktop
application: locate UI elements, read and set values, click, navigate
menus, and capture screenshots. It stays responsive when a modal dialog
freezes the target application's UI thread.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
}
