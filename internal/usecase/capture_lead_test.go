package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xavierca1/landing-leads/internal/entity"
	"github.com/xavierca1/landing-leads/internal/infra/integration/espocrm"
)

type MockLeadCreator struct {
	mock.Mock
}

func (m *MockLeadCreator) CreateLead(ctx context.Context, lead entity.Lead, cred espocrm.Credential) (string, error) {
	args := m.Called(ctx, lead, cred)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySubmissionFailure(ctx context.Context, alert FailureAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordLeadSubmission(outcome string) {
	m.Called(outcome)
}

func (m *MockRecorder) RecordIntegrationError(service string) {
	m.Called(service)
}

func demoInput() CaptureLeadInput {
	return CaptureLeadInput{
		FormName: "product-demo",
		Data: entity.RawFormPayload{
			"name":      "Test User Demo",
			"email":     "demo@example.com",
			"team_size": "10-50",
		},
	}
}

func newObservedUseCase(crm LeadCreator, cred espocrm.Credential, notifier FailureNotifier, metrics SubmissionRecorder) (*CaptureLeadUseCase, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	uc := NewCaptureLeadUseCase(Normalizer{Source: "Web Site"}, crm, cred, notifier, metrics, true, zap.New(core))
	return uc, logs
}

func TestCaptureLeadCreated(t *testing.T) {
	crm := new(MockLeadCreator)
	crm.On("CreateLead", mock.Anything, mock.MatchedBy(func(l entity.Lead) bool {
		return l.EmailAddress == "demo@example.com" &&
			l.FirstName == "Test" &&
			l.LastName == "User Demo" &&
			l.Description == "Team Size: 10-50" &&
			l.Status == "New"
	}), espocrm.APIKey("k")).Return("lead-1", nil)

	metrics := new(MockRecorder)
	metrics.On("RecordLeadSubmission", "created").Return()

	uc, logs := newObservedUseCase(crm, espocrm.APIKey("k"), nil, metrics)
	out, outcome := uc.Execute(context.Background(), demoInput())

	assert.Equal(t, entity.OutcomeCreated, outcome)
	assert.Equal(t, SubmittedMessage, out.Message)
	assert.Equal(t, "lead-1", out.LeadID)
	assert.Equal(t, 1, logs.FilterMessage("lead created in CRM").Len())
	crm.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestCaptureLeadHidesLeadIDWhenDisabled(t *testing.T) {
	crm := new(MockLeadCreator)
	crm.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).Return("lead-1", nil)

	uc := NewCaptureLeadUseCase(Normalizer{Source: "Web Site"}, crm, espocrm.APIKey("k"), nil, nil, false, nil)
	out, outcome := uc.Execute(context.Background(), demoInput())

	assert.Equal(t, entity.OutcomeCreated, outcome)
	assert.Empty(t, out.LeadID)
}

func TestCaptureLeadFailuresStaySoft(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		outcome   entity.Outcome
		logMsg    string
		notify    bool
		integrErr bool
	}{
		{
			name:    "credentials not configured",
			err:     espocrm.ErrCredentialsNotConfigured,
			outcome: entity.OutcomeCredentialsNotConfigured,
			logMsg:  "CRM credentials not configured, lead not sent",
			notify:  true,
		},
		{
			name:    "validation failed",
			err:     &espocrm.ValidationError{Reason: "email required"},
			outcome: entity.OutcomeValidationFailed,
			logMsg:  "lead rejected before submission",
		},
		{
			name:      "crm rejected",
			err:       &espocrm.APIError{Op: "create lead", StatusCode: 403, Body: `{"error":"forbidden"}`},
			outcome:   entity.OutcomeCRMRejected,
			logMsg:    "CRM rejected lead",
			notify:    true,
			integrErr: true,
		},
		{
			name:      "network error",
			err:       &espocrm.NetworkError{Op: "create lead", Err: errors.New("connection reset")},
			outcome:   entity.OutcomeNetworkError,
			logMsg:    "CRM request failed",
			notify:    true,
			integrErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := new(MockLeadCreator)
			crm.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).Return("", tt.err)

			notifier := new(MockNotifier)
			if tt.notify {
				notifier.On("NotifySubmissionFailure", mock.Anything, mock.MatchedBy(func(a FailureAlert) bool {
					return a.Outcome == tt.outcome && a.FormName == "product-demo" && a.SubmissionID != "" && a.Lead.EmailAddress == "demo@example.com"
				})).Return(nil)
			}

			metrics := new(MockRecorder)
			metrics.On("RecordLeadSubmission", tt.outcome.String()).Return()
			if tt.integrErr {
				metrics.On("RecordIntegrationError", "espocrm").Return()
			}

			uc, logs := newObservedUseCase(crm, espocrm.APIKey("k"), notifier, metrics)
			out, outcome := uc.Execute(context.Background(), demoInput())

			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, SubmittedMessage, out.Message)
			assert.Empty(t, out.LeadID)

			entries := logs.FilterMessage(tt.logMsg).All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.outcome.String(), entries[0].ContextMap()["outcome"])
			}

			notifier.AssertExpectations(t)
			if !tt.notify {
				notifier.AssertNotCalled(t, "NotifySubmissionFailure", mock.Anything, mock.Anything)
			}
			metrics.AssertExpectations(t)
		})
	}
}

func TestCaptureLeadRejectedLogsStatusAndBody(t *testing.T) {
	crm := new(MockLeadCreator)
	crm.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).
		Return("", &espocrm.APIError{Op: "create lead", StatusCode: 400, Body: "bad field", Reason: "Validation failure"})

	uc, logs := newObservedUseCase(crm, espocrm.APIKey("k"), nil, nil)
	_, _ = uc.Execute(context.Background(), demoInput())

	entry := logs.FilterMessage("CRM rejected lead").All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.EqualValues(t, 400, fields["status"])
	assert.Equal(t, "bad field", fields["body"])
	assert.Equal(t, "Validation failure", fields["reason"])
}

func TestCaptureLeadNotifierErrorIsLogged(t *testing.T) {
	crm := new(MockLeadCreator)
	crm.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).
		Return("", &espocrm.NetworkError{Op: "create lead", Err: errors.New("timeout")})

	notifier := new(MockNotifier)
	notifier.On("NotifySubmissionFailure", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	uc, logs := newObservedUseCase(crm, espocrm.APIKey("k"), notifier, nil)
	out, outcome := uc.Execute(context.Background(), demoInput())

	assert.Equal(t, entity.OutcomeNetworkError, outcome)
	assert.Equal(t, SubmittedMessage, out.Message)
	assert.Equal(t, 1, logs.FilterMessage("failure alert not sent").Len())
}

func TestCaptureLeadDefaultsFormName(t *testing.T) {
	crm := new(MockLeadCreator)
	crm.On("CreateLead", mock.Anything, mock.Anything, mock.Anything).Return("id", nil)

	uc, logs := newObservedUseCase(crm, espocrm.APIKey("k"), nil, nil)
	_, _ = uc.Execute(context.Background(), CaptureLeadInput{Data: entity.RawFormPayload{"email": "a@b.c"}})

	entry := logs.FilterMessage("form submission received").All()[0]
	assert.Equal(t, "unknown", entry.ContextMap()["form_name"])
}
