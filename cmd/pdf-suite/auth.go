// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/pdf-suite/internal/backend"
	"github.com/pdiddy/pdf-suite/internal/secrets"
	"github.com/pdiddy/pdf-suite/internal/tui"
)

// secretsDir holds the non-interactive sign-in credentials.
const secretsDir = ".secrets/"

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and keep the session token",
	Long: `Signin exchanges email and password for a bearer token stored in the
state directory. Missing flags are read from .secrets/pdf-suite-email and
.secrets/pdf-suite-password, then prompted for on a terminal.`,
	RunE: runSignin,
}

func runSignin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if email == "" || password == "" {
		e, p, err := secrets.Credentials(secretsDir)
		if err != nil {
			return err
		}
		email = firstNonEmpty(email, e)
		password = firstNonEmpty(password, p)
	}
	if email == "" {
		email = prompt("Email: ")
	}
	if password == "" {
		password = promptSecret("Password: ")
	}

	if err := a.Auth.SignIn(cmd.Context(), email, password); err != nil {
		return report(a, err)
	}
	fmt.Println(tui.Success("signed in as " + a.Auth.User().DisplayName()))
	return nil
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE:  runSignup,
}

func runSignup(cmd *cobra.Command, args []string) error {
	var in backend.SignUpRequest
	in.FirstName, _ = cmd.Flags().GetString("first-name")
	in.LastName, _ = cmd.Flags().GetString("last-name")
	in.Email, _ = cmd.Flags().GetString("email")
	in.Password, _ = cmd.Flags().GetString("password")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if in.Password == "" {
		in.Password = promptSecret("Password: ")
	}
	if err := a.Auth.SignUp(cmd.Context(), in); err != nil {
		return report(a, err)
	}
	if u := a.Auth.User(); u != nil {
		fmt.Println(tui.Success("account created for " + u.DisplayName()))
	} else {
		fmt.Println(tui.Success("account created"))
	}
	if a.Auth.Token() == "" {
		fmt.Println(tui.Dim("  run pdf-suite signin to start a session"))
	}
	return nil
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(tui.Success("signed out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		u := a.Auth.User()
		if u == nil {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("%s <%s>\n", u.DisplayName(), u.Email)
		return nil
	},
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func prompt(label string) string {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}
	fmt.Fprint(os.Stderr, label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSecret(label string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(b)
}

func init() {
	signinCmd.Flags().String("email", "", "account email")
	signinCmd.Flags().String("password", "", "account password")

	signupCmd.Flags().String("first-name", "", "first name")
	signupCmd.Flags().String("last-name", "", "last name")
	signupCmd.Flags().String("email", "", "account email")
	signupCmd.Flags().String("password", "", "account password")

	rootCmd.AddCommand(signinCmd, signupCmd, signoutCmd, whoamiCmd)
}
