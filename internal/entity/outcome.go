package entity

// Outcome classifies a single submission attempt. It is only used for logs,
// metrics and alerts; it never reaches the visitor.
type Outcome string

const (
	OutcomeCreated                  Outcome = "created"
	OutcomeCredentialsNotConfigured Outcome = "credentials_not_configured"
	OutcomeValidationFailed         Outcome = "validation_failed"
	OutcomeCRMRejected              Outcome = "crm_rejected"
	OutcomeNetworkError             Outcome = "network_error"
)

func (o Outcome) String() string {
	return string(o)
}

// Failed reports whether the lead did not reach the CRM.
func (o Outcome) Failed() bool {
	return o != OutcomeCreated
}
