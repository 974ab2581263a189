package espocrm

import (
	"errors"
	"fmt"

	"github.com/xavierca1/landing-leads/internal/entity"
)

// ErrCredentialsNotConfigured is returned before any request is made when
// neither an API key nor a username/password pair was configured.
var ErrCredentialsNotConfigured = errors.New("espocrm: credentials not configured")

// ValidationError means the lead was rejected locally, before any I/O.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "espocrm: invalid lead: " + e.Reason
}

// APIError is a response EspoCRM answered with but did not accept.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
	// Details holds the body parsed as JSON, when it was JSON.
	Details any
	// Reason is EspoCRM's X-Status-Reason header, when sent.
	Reason string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("espocrm: %s: status %d", e.Op, e.StatusCode)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// NetworkError wraps a transport failure: DNS, timeout, reset.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("espocrm: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// OutcomeOf maps the error returned by CreateLead onto a submission outcome.
func OutcomeOf(err error) entity.Outcome {
	var (
		validationErr *ValidationError
		apiErr        *APIError
	)

	switch {
	case err == nil:
		return entity.OutcomeCreated
	case errors.Is(err, ErrCredentialsNotConfigured):
		return entity.OutcomeCredentialsNotConfigured
	case errors.As(err, &validationErr):
		return entity.OutcomeValidationFailed
	case errors.As(err, &apiErr):
		return entity.OutcomeCRMRejected
	default:
		return entity.OutcomeNetworkError
	}
}
