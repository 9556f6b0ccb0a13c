package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/config"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the persisted state file",
	Long: `Remove the persisted state file and its backup.

This clears the saved session and every cached collection. The next
command starts anonymous with empty caches.

Examples:
  # Interactive confirmation
  smartfarmer reset

  # No prompt
  smartfarmer reset --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	// Resolve the state path the same way the other commands do.
	statePath := stateFilePath
	if statePath == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		statePath = cfg.State.Path
	}

	targets := []string{statePath, statePath + ".bak"}

	var existing []string
	for _, t := range targets {
		if _, err := os.Stat(t); err == nil {
			existing = append(existing, t)
		}
	}
	if len(existing) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to reset, no state files found.")
		return nil
	}

	fmt.Fprintln(os.Stderr, "The following will be removed:")
	for _, t := range existing {
		fmt.Fprintf(os.Stderr, "  - %s\n", t)
	}

	if !resetForce {
		fmt.Fprint(os.Stderr, "\nProceed? [y/N] ")
		var answer string
		fmt.Scanln(&answer) //nolint:errcheck // interactive prompt, error irrelevant
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	var errors int
	for _, t := range existing {
		if err := os.Remove(t); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR removing %s: %v\n", t, err)
			errors++
		} else {
			fmt.Fprintf(os.Stderr, "  Removed %s\n", t)
		}
	}
	if errors > 0 {
		return fmt.Errorf("%d file(s) could not be removed", errors)
	}

	fmt.Fprintln(os.Stderr, "\nReset complete.")
	return nil
}
