// calls.go implements the "caremate calls" command family.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Video-call history and signaling",
	RunE:  runCallsHistory,
}

var callsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past calls",
	RunE:  runCallsHistory,
}

var callsStartCmd = &cobra.Command{
	Use:   "start <callee-id>",
	Short: "Start a call",
	Args:  cobra.ExactArgs(1),
	RunE:  runCallsStart,
}

var callsEndCmd = &cobra.Command{
	Use:   "end <room-id>",
	Short: "End the active call",
	Args:  cobra.ExactArgs(1),
	RunE:  runCallsEnd,
}

var callsAcceptCmd = &cobra.Command{
	Use:   "accept <call-id>",
	Short: "Accept an incoming call",
	Args:  cobra.ExactArgs(1),
	RunE:  runCallsAccept,
}

var callsRejectCmd = &cobra.Command{
	Use:   "reject <call-id>",
	Short: "Reject an incoming call",
	Args:  cobra.ExactArgs(1),
	RunE:  runCallsReject,
}

func init() {
	callsCmd.AddCommand(callsHistoryCmd)
	callsCmd.AddCommand(callsStartCmd)
	callsCmd.AddCommand(callsEndCmd)
	callsCmd.AddCommand(callsAcceptCmd)
	callsCmd.AddCommand(callsRejectCmd)
}

func runCallsHistory(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Calls"); err != nil {
		return err
	}

	history, err := app.Calls.FetchHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Calls.LastError())
	}

	if len(history) == 0 {
		fmt.Println("No calls.")
		return nil
	}
	if limit := app.Cfg.Client.HistoryLimit; limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	for _, c := range history {
		fmt.Printf("  %-5s  %-10s  %s -> %s  %s\n", c.ID, c.Status, c.CallerName, c.CalleeName, c.StartTime)
	}
	return nil
}

func runCallsStart(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Calls"); err != nil {
		return err
	}

	calleeID, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := app.Calls.Initiate(cmd.Context(), calleeID)
	if err != nil {
		return fmt.Errorf("%s", app.Calls.LastError())
	}

	// Mirrors the /call/:roomId?initiator=true navigation of the full client.
	fmt.Printf("Call started. Room: %s (initiator)\n", conn.RoomID)
	return nil
}

func runCallsEnd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Calls"); err != nil {
		return err
	}

	if err := app.Calls.End(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("%s", app.Calls.LastError())
	}
	app.Calls.Acknowledge()

	fmt.Println("Call ended.")
	return nil
}

func runCallsAccept(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Calls"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	conn, err := app.Calls.Accept(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("%s", app.Calls.LastError())
	}

	fmt.Printf("Call accepted. Room: %s\n", conn.RoomID)
	return nil
}

func runCallsReject(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Calls"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := app.Calls.Reject(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", app.Calls.LastError())
	}

	fmt.Println("Call rejected.")
	return nil
}
