// login.go implements the auth commands: login, register, logout, whoami.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/caremate-dev/caremate/internal/log"
	"github.com/caremate-dev/caremate/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to CareMate",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a CareMate account",
	Long: `Create a CareMate account. Prompts for name, email, phone, password
and account type (client or caregiver), then signs you in.`,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	email := ""
	if len(args) == 1 {
		email = args[0]
	} else {
		email, err = prompt("Email: ")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := app.Session.Login(cmd.Context(), session.Credentials{Email: email, Password: password})
	if err != nil {
		_ = app.Events.Append(log.LogEvent{Event: log.EventLoginFailed, User: email, Error: app.Session.LastError()})
		return fmt.Errorf("%s", app.Session.LastError())
	}

	_ = app.Events.Append(log.LogEvent{Event: log.EventLoginSucceeded, User: user.Email, Role: user.UserType})
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.UserType)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	name, err := prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := prompt("Email: ")
	if err != nil {
		return err
	}
	phone, err := prompt("Phone: ")
	if err != nil {
		return err
	}
	userType, err := prompt("Account type (client/caregiver): ")
	if err != nil {
		return err
	}
	if userType != session.RoleClient && userType != session.RoleCaregiver {
		return fmt.Errorf("account type must be %q or %q", session.RoleClient, session.RoleCaregiver)
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	reg := session.Registration{
		Email:    email,
		Password: password,
		UserType: userType,
		Name:     name,
		Phone:    phone,
	}
	if _, err := app.Session.Register(cmd.Context(), reg); err != nil {
		return fmt.Errorf("%s", app.Session.LastError())
	}

	_ = app.Events.Append(log.LogEvent{Event: log.EventRegistered, User: email, Role: userType})
	fmt.Println("Account created. Sign in with: caremate login", email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Session.Logout(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	_ = app.Events.Append(log.LogEvent{Event: log.EventLoggedOut})
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Session.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	if user := app.Session.CurrentUser(); user != nil {
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.UserType)
		return nil
	}
	fmt.Printf("Signed in (role: %s)\n", app.Session.Role())
	return nil
}

// prompt reads one trimmed line from stdin.
func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing when stdin is a terminal.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(data), nil
	}
	return prompt("")
}
