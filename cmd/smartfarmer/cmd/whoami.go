package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		sess, ok := a.portal.Session()
		if !ok {
			fmt.Println("Not signed in.")
			return nil
		}

		fmt.Printf("Email: %s\n", sess.Email)
		fmt.Printf("Role:  %s\n", sess.Role)
		if sess.User != nil {
			if sess.User.Name != "" {
				fmt.Printf("Name:  %s\n", sess.User.Name)
			}
			if sess.User.Taluka != "" {
				fmt.Printf("Taluka: %s\n", sess.User.Taluka)
			}
			if sess.User.District != "" {
				fmt.Printf("District: %s\n", sess.User.District)
			}
			if len(sess.User.AllocatedTaluka) > 0 {
				fmt.Printf("Allocated talukas: %s\n", strings.Join(sess.User.AllocatedTaluka, ", "))
			}
		}
		if !sess.ExpiresAt.IsZero() {
			remaining := time.Until(sess.ExpiresAt).Round(time.Minute)
			if remaining > 0 {
				fmt.Printf("Token expires: %s (in %s)\n", sess.ExpiresAt.Format("2006-01-02 15:04 MST"), remaining)
			} else {
				fmt.Printf("Token expired: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04 MST"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
