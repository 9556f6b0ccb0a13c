package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/crop"
)

var cropsRecent bool

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "List crops",
	Long: `List crop submissions with their farmer and verifier names resolved
from the sibling caches.

With --recent, the backend's recent-submissions endpoint is queried
directly instead of the cached collection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		var crops []crop.Crop
		if cropsRecent {
			crops, err = a.portal.RecentCrops(cmd.Context())
		} else {
			crops, err = a.portal.Crops(cmd.Context())
		}
		if err != nil {
			return err
		}
		if msg := a.portal.CropsError(); msg != "" {
			fmt.Fprintf(os.Stderr, "warning: showing cached data (%s)\n", msg)
		}
		if len(crops) == 0 {
			fmt.Println("No crops.")
			return nil
		}

		a.portal.WaitHydration()
		printCrops(a, crops)
		return nil
	},
}

func init() {
	cropsCmd.Flags().BoolVar(&cropsRecent, "recent", false, "show recent submissions instead of the full collection")
	rootCmd.AddCommand(cropsCmd)
}

func printCrops(a *app, crops []crop.Crop) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCROP\tFARMER\tVERIFIER\tAREA\tVERIFIED")
	for _, c := range crops {
		farmerName := c.FarmerID
		if f, ok := a.portal.Farmer(c.FarmerID); ok {
			farmerName = f.Name
		}
		verifierName := "-"
		if c.VerifierID != "" {
			verifierName = c.VerifierID
			if v, ok := a.portal.Verifier(c.VerifierID); ok {
				verifierName = v.Name
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%v\n",
			c.ID, c.Name, farmerName, verifierName, c.Area, c.IsVerified)
	}
	w.Flush() //nolint:errcheck // stdout
}
