// Package access defines the role-based rules that gate portal
// operations on the client side. The backend enforces authorization on
// its own; these rules exist so the client can refuse an operation
// locally instead of burning a request on a guaranteed 403.
package access

import "errors"

// Operation names a portal action subject to role gating.
type Operation string

const (
	OpListFarmers      Operation = "list_farmers"
	OpListVerifiers    Operation = "list_verifiers"
	OpListCrops        Operation = "list_crops"
	OpListAdmins       Operation = "list_admins"
	OpRegisterVerifier Operation = "register_verifier"
	OpUpdateVerifier   Operation = "update_verifier"
	OpVerifyVerifier   Operation = "verify_verifier"
	OpDeleteVerifier   Operation = "delete_verifier"
	OpDashboard        Operation = "dashboard"
	OpExport           Operation = "export"
)

// Input is the evaluation context for a rule condition.
type Input struct {
	// Operation is the action being attempted.
	Operation Operation
	// Role is the session role.
	Role string
	// Taluka is the officer's taluka, "" for non-taluka roles.
	Taluka string
	// District is the officer's district, "" when not district-scoped.
	District string
}

// Rule gates one operation with a CEL condition over the Input
// variables (operation, role, taluka, district).
type Rule struct {
	// Operation this rule gates.
	Operation Operation
	// Condition is a CEL expression that must evaluate to true for the
	// operation to proceed.
	Condition string
}

// ErrAccessDenied is returned when a rule condition evaluates to false
// for the current session.
var ErrAccessDenied = errors.New("operation not permitted for role")

// officerRoles grants all three officer tiers.
const officerRoles = `role in ["superAdmin", "districtOfficer", "talukaOfficer"]`

// manageRoles grants the tiers allowed to manage verifier accounts.
const manageRoles = `role in ["superAdmin", "districtOfficer"]`

// DefaultRules is the rule set the portal ships with. Operations
// without a rule are denied.
func DefaultRules() []Rule {
	return []Rule{
		{OpListFarmers, officerRoles},
		{OpListVerifiers, officerRoles},
		{OpListCrops, officerRoles},
		{OpListAdmins, `role == "superAdmin"`},
		{OpRegisterVerifier, manageRoles},
		{OpUpdateVerifier, manageRoles},
		{OpVerifyVerifier, officerRoles},
		{OpDeleteVerifier, manageRoles},
		{OpDashboard, officerRoles},
		{OpExport, manageRoles},
	}
}
