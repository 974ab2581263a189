package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/entity"
	"github.com/xavierca1/landing-leads/internal/infra/integration/espocrm"
)

const SubmittedMessage = "Form submitted successfully"

// CaptureLeadUseCase forwards one submission to the CRM. Whatever the CRM
// does, the visitor gets the same answer; failures only reach the logs,
// metrics and, when configured, the operator alert.
type CaptureLeadUseCase struct {
	Normalizer   Normalizer
	CRM          LeadCreator
	Credential   espocrm.Credential
	Notifier     FailureNotifier
	Metrics      SubmissionRecorder
	ExposeLeadID bool

	log *zap.Logger
}

func NewCaptureLeadUseCase(
	normalizer Normalizer,
	crm LeadCreator,
	cred espocrm.Credential,
	notifier FailureNotifier,
	metrics SubmissionRecorder,
	exposeLeadID bool,
	log *zap.Logger,
) *CaptureLeadUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CaptureLeadUseCase{
		Normalizer:   normalizer,
		CRM:          crm,
		Credential:   cred,
		Notifier:     notifier,
		Metrics:      metrics,
		ExposeLeadID: exposeLeadID,
		log:          log,
	}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (CaptureLeadOutput, entity.Outcome) {
	submissionID := uuid.NewString()
	formName := input.FormName
	if formName == "" {
		formName = "unknown"
	}
	log := uc.log.With(zap.String("submission_id", submissionID), zap.String("form_name", formName))
	log.Info("form submission received", zap.Int("fields", len(input.Data)))

	lead := uc.Normalizer.Normalize(input.Data, formName)

	leadID, err := uc.CRM.CreateLead(ctx, lead, uc.Credential)
	outcome := espocrm.OutcomeOf(err)
	uc.record(outcome)

	out := CaptureLeadOutput{Message: SubmittedMessage}
	if outcome == entity.OutcomeCreated {
		log.Info("lead created in CRM", zap.String("lead_id", leadID))
		if uc.ExposeLeadID {
			out.LeadID = leadID
		}
		return out, outcome
	}

	uc.logFailure(log, outcome, err, lead)

	if uc.Notifier != nil && outcome != entity.OutcomeValidationFailed {
		alert := FailureAlert{
			SubmissionID: submissionID,
			FormName:     formName,
			Outcome:      outcome,
			Detail:       err.Error(),
			Lead:         lead,
		}
		if nErr := uc.Notifier.NotifySubmissionFailure(ctx, alert); nErr != nil {
			log.Error("failure alert not sent", zap.Error(nErr))
		}
	}

	return out, outcome
}

func (uc *CaptureLeadUseCase) record(outcome entity.Outcome) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordLeadSubmission(outcome.String())
	if outcome == entity.OutcomeCRMRejected || outcome == entity.OutcomeNetworkError {
		uc.Metrics.RecordIntegrationError("espocrm")
	}
}

func (uc *CaptureLeadUseCase) logFailure(log *zap.Logger, outcome entity.Outcome, err error, lead entity.Lead) {
	log = log.With(zap.String("outcome", outcome.String()))

	var (
		validationErr *espocrm.ValidationError
		apiErr        *espocrm.APIError
	)

	switch {
	case outcome == entity.OutcomeCredentialsNotConfigured:
		// Kept whole so the lead can be entered by hand.
		log.Error("CRM credentials not configured, lead not sent",
			zap.Any("lead", lead),
		)
	case errors.As(err, &validationErr):
		log.Warn("lead rejected before submission", zap.String("reason", validationErr.Reason))
	case errors.As(err, &apiErr):
		log.Error("CRM rejected lead",
			zap.Int("status", apiErr.StatusCode),
			zap.String("reason", apiErr.Reason),
			zap.String("body", apiErr.Body),
			zap.Any("details", apiErr.Details),
			zap.Any("lead", lead),
		)
	default:
		log.Error("CRM request failed", zap.Error(err), zap.Any("lead", lead))
	}
}
