package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/verifier"
)

var verifiersCmd = &cobra.Command{
	Use:   "verifiers",
	Short: "Manage verifiers",
	Long: `Manage verifier (field officer) accounts.

Without a subcommand, lists the verifier collection. Taluka officers
see only the verifiers assigned to them; district officers and
super-admins see the full collection.`,
	RunE: runVerifierList,
}

var registerForm verifier.Registration
var registerTalukas string

var verifierRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new verifier",
	Long: `Register a new verifier account.

The form is validated locally before any network call: Indian mobile
number (10 digits starting 6-9), 12-digit Aadhaar, 6-digit pincode,
age 18-65, and at least one allocated taluka.

Example:
  smartfarmer verifiers register \
    --name "A. Patil" --contact 9876543210 --email a.patil@example.org \
    --password secret123 --aadhaar 123456789012 --age 34 \
    --village Wagholi --taluka Haveli --district Pune --pincode 412207 \
    --allocated-talukas haveli,mulshi`,
	RunE: runVerifierRegister,
}

var verifierVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Mark a verifier account as verified",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.portal.VerifyVerifier(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Verifier %s marked verified.\n", args[0])
		return nil
	},
}

var updatePatchJSON string

var verifierUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update verifier fields",
	Long: `Update fields on a verifier record. The patch is a JSON object of
the fields to change, applied optimistically to the local cache and
sent to the backend.

Example:
  smartfarmer verifiers update 64f1... --patch '{"contactNumber":"9876543211"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runVerifierUpdate,
}

var verifierDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a verifier account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.portal.DeleteVerifier(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Verifier %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	f := verifierRegisterCmd.Flags()
	f.StringVar(&registerForm.Name, "name", "", "full name")
	f.StringVar(&registerForm.ContactNumber, "contact", "", "10-digit mobile number")
	f.StringVar(&registerForm.Email, "email", "", "email address")
	f.StringVar(&registerForm.Password, "password", "", "password (min 8 characters)")
	f.StringVar(&registerForm.AadhaarNumber, "aadhaar", "", "12-digit Aadhaar number")
	f.IntVar(&registerForm.Age, "age", 0, "age (18-65)")
	f.StringVar(&registerForm.Gender, "gender", "", "gender (male, female, other)")
	f.StringVar(&registerForm.Village, "village", "", "village")
	f.StringVar(&registerForm.Taluka, "taluka", "", "home taluka")
	f.StringVar(&registerForm.District, "district", "", "district")
	f.StringVar(&registerForm.Pincode, "pincode", "", "6-digit pincode")
	f.StringVar(&registerTalukas, "allocated-talukas", "", "comma-separated talukas the verifier covers")

	verifierUpdateCmd.Flags().StringVar(&updatePatchJSON, "patch", "", "JSON object of fields to change (required)")
	verifierUpdateCmd.MarkFlagRequired("patch") //nolint:errcheck // flag exists

	verifiersCmd.AddCommand(verifierRegisterCmd)
	verifiersCmd.AddCommand(verifierVerifyCmd)
	verifiersCmd.AddCommand(verifierUpdateCmd)
	verifiersCmd.AddCommand(verifierDeleteCmd)
	rootCmd.AddCommand(verifiersCmd)
}

func runVerifierList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	verifiers, err := a.portal.Verifiers(cmd.Context())
	if err != nil {
		return err
	}
	if msg := a.portal.VerifiersError(); msg != "" {
		fmt.Fprintf(os.Stderr, "warning: showing cached data (%s)\n", msg)
	}
	if len(verifiers) == 0 {
		fmt.Println("No verifiers.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCONTACT\tEMAIL\tTALUKAS\tVERIFIED")
	for _, v := range verifiers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
			v.ID, v.Name, v.ContactNumber, v.Email, strings.Join(v.AllocatedTaluka, ","), v.IsVerified)
	}
	return w.Flush()
}

func runVerifierRegister(cmd *cobra.Command, args []string) error {
	if registerTalukas != "" {
		for _, t := range strings.Split(registerTalukas, ",") {
			if t = strings.TrimSpace(t); t != "" {
				registerForm.AllocatedTaluka = append(registerForm.AllocatedTaluka, t)
			}
		}
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	created, err := a.portal.RegisterVerifier(cmd.Context(), &registerForm)
	if err != nil {
		return err
	}
	fmt.Printf("Registered verifier %s (%s)\n", created.Name, created.ID)
	return nil
}

func runVerifierUpdate(cmd *cobra.Command, args []string) error {
	var patch map[string]any
	if err := json.Unmarshal([]byte(updatePatchJSON), &patch); err != nil {
		return fmt.Errorf("invalid --patch JSON: %w", err)
	}
	if len(patch) == 0 {
		return fmt.Errorf("--patch must contain at least one field")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	updated, err := a.portal.UpdateVerifier(cmd.Context(), args[0], patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated verifier %s (%s)\n", updated.Name, updated.ID)
	return nil
}
