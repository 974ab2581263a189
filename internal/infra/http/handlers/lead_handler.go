package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/entity"
	"github.com/xavierca1/landing-leads/internal/usecase"
)

// maxSubmissionBytes caps the form body; landing page forms are small.
const maxSubmissionBytes = 1 << 20

type LeadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (usecase.CaptureLeadOutput, entity.Outcome)
}

type LeadHandler struct {
	capture LeadCapturer
	log     *zap.Logger
}

func NewLeadHandler(capture LeadCapturer, log *zap.Logger) *LeadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeadHandler{capture: capture, log: log}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Submit handles POST /submission. Only a wrong method or a structurally
// broken body changes the status; every CRM outcome answers 200.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowed(w, r)
		return
	}

	input, err := usecase.DecodeCaptureLeadInput(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		var domainErr *usecase.DomainError
		if !errors.As(err, &domainErr) {
			domainErr = &usecase.DomainError{Code: usecase.CodeInvalidJSON, Message: err.Error()}
		}
		h.log.Warn("malformed submission", zap.String("code", domainErr.Code), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
		return
	}

	ctx, cancel := detach(r.Context())
	defer cancel()

	out, _ := h.capture.Execute(ctx, input)
	writeJSON(w, http.StatusOK, out)
}

// detach shields the CRM call from a visitor leaving the page but keeps any
// deadline the caller set, so a host execution limit still ends the call in
// time to answer 200.
func detach(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if deadline, ok := parent.Deadline(); ok {
		return context.WithDeadline(ctx, deadline)
	}
	return ctx, func() {}
}

// MethodNotAllowed answers 405 with a JSON body.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "METHOD_NOT_ALLOWED", Message: "Method Not Allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
