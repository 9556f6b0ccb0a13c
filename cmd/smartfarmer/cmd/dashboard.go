package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show record counts",
	Long: `Show the headline record counts from the backend.

Counts are always fetched live; they are not subject to the collection
staleness window. The admin count is included for super-admins only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		counts, err := a.portal.Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Farmers:   %d\n", counts.Farmers)
		fmt.Printf("Verifiers: %d\n", counts.Verifiers)
		fmt.Printf("Crops:     %d\n", counts.Crops)
		if counts.IncludesAdmins {
			fmt.Printf("Admins:    %d\n", counts.Admins)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
