// Package cli defines Cobra command definitions for the caremate CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caremate-dev/caremate/internal/tui"
	tuiapp "github.com/caremate-dev/caremate/internal/tui/app"
)

var (
	verbose bool
	version = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "caremate",
	Short: "Caregiving coordination from the terminal",
	Long: `CareMate coordinates care for a loved one: health metrics, daily
tasks, emergency contacts and alerts, a caregiver marketplace, and
video-call signaling. The root command opens the interactive dashboard;
subcommands drive each resource directly.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		prog := tui.NewProgram(tuiapp.New(app.Cfg, app.Session, app.Tasks,
			app.Health, app.Emergency, app.Marketplace, app.Calls))

		// Inside the TUI a 401 must send the user back to the login view;
		// the stderr hint installed by newApp would print into the
		// alternate screen.
		app.API.OnUnauthorized(func() {
			prog.Send(tui.SessionExpiredMsg{})
		})

		return tui.Run(prog)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print full API error details")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(emergencyCmd)
	rootCmd.AddCommand(marketplaceCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(logCmd)
}
