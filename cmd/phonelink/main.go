// Phonelink connects to an Android device over USB or WiFi and mirrors
// its screen to the desktop.
//
// It wraps the adb and scrcpy command-line tools: discovery finds the
// device's wireless debugging port (cached endpoint first, then a
// prioritized network scan), and the mirroring session keeps the phone's
// physical display off so stray touches on the glass do nothing.
//
// Usage:
//
//	phonelink [command] [flags]
//
// Running without arguments connects and starts mirroring.
// See 'phonelink --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmansel/phonelink/internal/ui"
	"github.com/kmansel/phonelink/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Render(ui.ErrorStyle, ui.FailureMarker+" Error:"), err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phonelink",
	Short: "Android screen mirroring with automatic device discovery",
	Long: `Connect to an Android phone over USB or WiFi and mirror its screen.

Discovery tries USB first, then the last known wireless endpoint, then a
full network scan that locates the phone's wireless debugging port. On
success the scrcpy mirroring client is launched and the phone's physical
screen is kept off to prevent phantom touches.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: connect and mirror when no subcommand provided
		return runLaunch(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("phonelink %s (commit: %s)\n", version.Version, version.Commit)
	},
}
