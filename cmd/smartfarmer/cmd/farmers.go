package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var farmersCmd = &cobra.Command{
	Use:   "farmers",
	Short: "List farmers",
	Long: `List the farmer collection.

Results are served from the local cache when fresh; a stale cache is
refreshed from the backend first. If the backend is unreachable, cached
records are shown with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		farmers, err := a.portal.Farmers(cmd.Context())
		if err != nil {
			return err
		}
		if msg := a.portal.FarmersError(); msg != "" {
			fmt.Fprintf(os.Stderr, "warning: showing cached data (%s)\n", msg)
		}
		if len(farmers) == 0 {
			fmt.Println("No farmers.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCONTACT\tVILLAGE\tTALUKA\tDISTRICT\tLAND\tVERIFIED")
		for _, f := range farmers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t%v\n",
				f.ID, f.Name, f.ContactNumber, f.Village, f.Taluka, f.District, f.LandArea, f.IsVerified)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(farmersCmd)
}
