// log.go implements the "caremate log" command showing the local event log.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logTail int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the local event log",
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVar(&logTail, "tail", 20, "Number of recent events to show")
}

func runLog(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	events, err := app.Events.ReadAll()
	if err != nil {
		return fmt.Errorf("reading event log: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}
	if logTail > 0 && len(events) > logTail {
		events = events[len(events)-logTail:]
	}
	for _, ev := range events {
		fmt.Printf("  %s  %-20s", ev.Time.Format("2006-01-02 15:04:05"), ev.Event)
		if ev.Path != "" {
			fmt.Printf("  %s %s (%d)", ev.Method, ev.Path, ev.Status)
		}
		if ev.RoomID != "" {
			fmt.Printf("  room=%s", ev.RoomID)
		}
		if ev.Error != "" {
			fmt.Printf("  error=%s", ev.Error)
		}
		fmt.Println()
	}
	return nil
}
