package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginRemember bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Sign in to the SmartFarmer backend with an officer account.

On success the bearer token and profile are persisted to the state
file, so subsequent commands run authenticated until the token expires
or you log out.

Examples:
  smartfarmer login --email officer@example.gov.in
  smartfarmer login --email officer@example.gov.in --password secret --remember`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted if omitted)")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", false, "keep the session across expiry prompts")
	loginCmd.MarkFlagRequired("email") //nolint:errcheck // flag exists
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.portal.Login(cmd.Context(), loginEmail, password, loginRemember)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (%s)\n", sess.Email, sess.Role)
	if sess.User != nil && sess.User.Name != "" {
		fmt.Printf("  Name: %s\n", sess.User.Name)
	}
	if !sess.ExpiresAt.IsZero() {
		fmt.Printf("  Token expires: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
