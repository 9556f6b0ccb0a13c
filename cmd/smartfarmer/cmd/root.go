// Package cmd provides the CLI commands for the SmartFarmer admin client.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/config"
)

var cfgFile string
var stateFilePath string

var rootCmd = &cobra.Command{
	Use:   "smartfarmer",
	Short: "SmartFarmer - agricultural administration client",
	Long: `SmartFarmer is the command-line client for the SmartFarmer
agricultural administration backend.

It signs in as an officer account (taluka officer, district officer, or
super-admin), caches the farmer, verifier, and crop collections locally
with a staleness window, and performs verifier administration against
the REST API.

Quick start:
  1. Create a config file: smartfarmer.yaml (api.base_url is required)
  2. Sign in: smartfarmer login --email you@example.gov.in
  3. Browse:  smartfarmer crops

Configuration:
  Config is loaded from smartfarmer.yaml in the current directory or
  $HOME/.smartfarmer/. Environment variables override config values
  with the SMARTFARMER_ prefix.
  Example: SMARTFARMER_API_BASE_URL=https://api.example.org

Commands:
  login       Sign in and persist the session
  logout      Sign out and clear all cached data
  whoami      Show the signed-in account
  farmers     List farmers
  verifiers   Manage verifiers (list, register, verify, update, delete)
  crops       List crops (all or recent)
  dashboard   Show record counts
  export      Dump cached collections as YAML or JSON
  reset       Remove the persisted state file
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./smartfarmer.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateFilePath, "state", "", "path to the state file (default: ~/.smartfarmer/state.json)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
