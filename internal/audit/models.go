package audit

import (
	"time"

	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// Action names the engine operation an audit event describes.
type Action string

const (
	ActionRecordSubmitted    Action = "record_submitted"
	ActionRecordAttested     Action = "record_attested"
	ActionVerifierEnabled    Action = "verifier_enabled"
	ActionVerifierDisabled   Action = "verifier_disabled"
	ActionPolicyConfigured   Action = "policy_configured"
	ActionPolicyDeactivated  Action = "policy_deactivated"
	ActionEligibilityChecked Action = "eligibility_checked"
	ActionProofIssued        Action = "proof_issued"
)

// Event is emitted from domain logic to capture key actions. It carries only
// non-secret fields: principals, timestamps, project identifiers, and the fact
// that a check happened - never attribute values or decrypted booleans.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	Action    Action       `json:"action"`
	Actor     id.Principal `json:"actor"`
	Subject   id.Principal `json:"subject,omitempty"`
	ProjectID id.ProjectID `json:"project_id,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Detail    string       `json:"detail,omitempty"`
}
