// emergency.go implements the "caremate emergency" command family.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/log"
)

var (
	alertMessage  string
	alertLocation string
)

var emergencyCmd = &cobra.Command{
	Use:   "emergency",
	Short: "Emergency contacts and alerts",
	RunE:  runAlertsList,
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List emergency contacts",
	RunE:  runContactsList,
}

var contactsAddCmd = &cobra.Command{
	Use:   "add <name> <email> <phone> <relationship>",
	Short: "Add an emergency contact",
	Args:  cobra.ExactArgs(4),
	RunE:  runContactsAdd,
}

var contactsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an emergency contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsRm,
}

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Trigger an emergency alert to all contacts",
	RunE:  runAlertTrigger,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List past alerts",
	RunE:  runAlertsList,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Mark an alert resolved",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertResolve,
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the alert system without notifying contacts",
	RunE:  runAlertTest,
}

func init() {
	alertCmd.Flags().StringVar(&alertMessage, "message", "", "Alert message")
	alertCmd.Flags().StringVar(&alertLocation, "location", "", "Current location")

	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsRmCmd)
	emergencyCmd.AddCommand(contactsCmd)
	emergencyCmd.AddCommand(alertCmd)
	emergencyCmd.AddCommand(alertsCmd)
	emergencyCmd.AddCommand(resolveCmd)
	emergencyCmd.AddCommand(testCmd)
}

func runContactsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	contacts, err := app.Emergency.FetchContacts(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	if len(contacts) == 0 {
		fmt.Println("No emergency contacts. Add one with: caremate emergency contacts add")
		return nil
	}
	for _, c := range contacts {
		name := c.Name
		if name == "" {
			name = c.ContactUser
		}
		fmt.Printf("  %-5s  %-20s  %-15s  %s\n", c.ID, name, c.Phone, c.Relationship)
	}
	return nil
}

func runContactsAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	contact, err := app.Emergency.AddContact(cmd.Context(), emergency.AddContactRequest{
		Name:         args[0],
		Email:        args[1],
		Phone:        args[2],
		Relationship: args[3],
	})
	if err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	fmt.Printf("Added contact %s (%s)\n", contact.Name, contact.Relationship)
	return nil
}

func runContactsRm(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := app.Emergency.RemoveContact(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	fmt.Printf("Removed contact %s\n", id)
	return nil
}

func runAlertTrigger(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	alert, err := app.Emergency.Trigger(cmd.Context(), emergency.TriggerRequest{
		Message:  alertMessage,
		Location: alertLocation,
	})
	if err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	_ = app.Events.Append(log.LogEvent{Event: log.EventAlertTriggered, Resource: "emergency"})
	fmt.Printf("Alert sent: %s\n", alert.Message)
	return nil
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	alerts, err := app.Emergency.FetchAlerts(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	if len(alerts) == 0 {
		fmt.Println("No alerts.")
		return nil
	}
	for _, a := range alerts {
		status := a.Status
		if status == "" {
			status = "sent"
		}
		fmt.Printf("  %-5s  %-10s  %s  %s\n", a.ID, status, a.Message, a.Timestamp)
	}
	return nil
}

func runAlertResolve(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	alert, err := app.Emergency.Resolve(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	_ = app.Events.Append(log.LogEvent{Event: log.EventAlertResolved, Resource: "emergency"})
	fmt.Printf("Alert %s resolved\n", alert.ID)
	return nil
}

func runAlertTest(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Emergency"); err != nil {
		return err
	}

	result, err := app.Emergency.Test(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Emergency.LastError())
	}

	fmt.Printf("%s (%d contacts, system %s)\n", result.Message, result.ContactsCount, result.SystemStatus)
	return nil
}
