// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"regexp"
	"strings"

	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// Distinct identifier types - the compiler prevents passing a Principal where a
// ProjectID is expected.
type (
	// Principal is an authenticated caller identity (ledger account or
	// equivalent). Principals are lowercase hex account addresses.
	Principal string

	// ProjectID is a content-addressed handle chosen by the policy creator.
	ProjectID string
)

var principalPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	normalized := strings.ToLower(s)
	if !principalPattern.MatchString(normalized) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal must be a 0x-prefixed 20-byte hex address")
	}
	return Principal(normalized), nil
}

const maxProjectIDLength = 128

func ParseProjectID(s string) (ProjectID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "project ID cannot be empty")
	}
	if len(s) > maxProjectIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "project ID exceeds maximum length")
	}
	return ProjectID(s), nil
}

// String methods - for logging and debugging.

func (p Principal) String() string { return string(p) }
func (p ProjectID) String() string { return string(p) }

// IsNil checks - used for service-layer validation.

func (p Principal) IsNil() bool { return p == "" }
func (p ProjectID) IsNil() bool { return p == "" }
