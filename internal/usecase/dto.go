package usecase

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/landing-leads/internal/entity"
)

var (
	validate       = validator.New()
	errInvalidJSON = &DomainError{Code: CodeInvalidJSON, Message: "invalid JSON body"}
)

// CaptureLeadInput is one form submission as the browser (or the form
// provider's event) posts it.
type CaptureLeadInput struct {
	FormName string                `json:"form_name"`
	Data     entity.RawFormPayload `json:"data" validate:"required"`
}

// submissionEnvelope also accepts the provider event shape, where the
// submission sits under "payload".
type submissionEnvelope struct {
	CaptureLeadInput
	Payload *CaptureLeadInput `json:"payload"`
}

type CaptureLeadOutput struct {
	Message string `json:"message"`
	LeadID  string `json:"leadId,omitempty"`
}

// DecodeCaptureLeadInput parses a submission body. Only structural problems
// fail here; the field contents are never validated.
func DecodeCaptureLeadInput(r io.Reader) (CaptureLeadInput, error) {
	if r == nil {
		return CaptureLeadInput{}, ErrEmptyBody
	}

	dec := json.NewDecoder(r)

	var env submissionEnvelope
	if err := dec.Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return CaptureLeadInput{}, ErrEmptyBody
		}
		return CaptureLeadInput{}, errInvalidJSON
	}
	// The body must hold exactly one JSON value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return CaptureLeadInput{}, errInvalidJSON
	}

	input := env.CaptureLeadInput
	if env.Payload != nil {
		input = *env.Payload
	}

	if err := validate.Struct(input); err != nil {
		return CaptureLeadInput{}, ErrMissingData
	}
	return input, nil
}
