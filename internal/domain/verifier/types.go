// Package verifier defines verifier (field officer) records and the
// client-side registration form with its validation rules.
package verifier

import "time"

// Verifier is a field officer who inspects and verifies farmer and crop
// submissions within their allocated talukas.
type Verifier struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	ContactNumber   string    `json:"contactNumber"`
	Email           string    `json:"email"`
	AadhaarNumber   string    `json:"aadhaarNumber"`
	Age             int       `json:"age,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	Village         string    `json:"village"`
	Taluka          string    `json:"taluka"`
	District        string    `json:"district"`
	Pincode         string    `json:"pincode"`
	AllocatedTaluka []string  `json:"allocatedTaluka"`
	IsVerified      bool      `json:"isVerified"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Key returns the primary id. It satisfies the cache key contract.
func (v Verifier) Key() string { return v.ID }
