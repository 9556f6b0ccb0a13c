package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear all cached data",
	Long: `Sign out of the current session.

The bearer token, the signed-in profile, and every cached collection
are cleared from memory and from the state file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if _, ok := a.portal.Session(); !ok {
			fmt.Println("Not signed in.")
			return nil
		}
		if err := a.portal.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
