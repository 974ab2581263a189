package usecase

import (
	"context"

	"github.com/xavierca1/landing-leads/internal/entity"
	"github.com/xavierca1/landing-leads/internal/infra/integration/espocrm"
)

type LeadCreator interface {
	CreateLead(ctx context.Context, lead entity.Lead, cred espocrm.Credential) (string, error)
}

// FailureAlert describes a lead that did not reach the CRM.
type FailureAlert struct {
	SubmissionID string
	FormName     string
	Outcome      entity.Outcome
	Detail       string
	Lead         entity.Lead
}

type FailureNotifier interface {
	NotifySubmissionFailure(ctx context.Context, alert FailureAlert) error
}

type SubmissionRecorder interface {
	RecordLeadSubmission(outcome string)
	RecordIntegrationError(service string)
}
