package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump cached collections as YAML or JSON",
	Long: `Dump the farmer, verifier, and crop collections to stdout.

Stale collections are refreshed first and cross-references hydrated, so
the dump is internally consistent. Super-admins also get the admin
collection.

Examples:
  smartfarmer export > portal.yaml
  smartfarmer export --format json > portal.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "yaml" && exportFormat != "json" {
			return fmt.Errorf("unsupported format %q (yaml or json)", exportFormat)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		dump, err := a.portal.ExportData(cmd.Context())
		if err != nil {
			return err
		}

		switch exportFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(dump)
		default:
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close() //nolint:errcheck // stdout
			return enc.Encode(dump)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "output format (yaml or json)")
	rootCmd.AddCommand(exportCmd)
}
