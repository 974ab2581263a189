package usecase

import "errors"

const (
	CodeEmptyBody   = "EMPTY_BODY"
	CodeInvalidJSON = "INVALID_JSON"
	CodeMissingData = "MISSING_DATA"
)

// DomainError is a problem with the inbound request itself. It is the only
// error class that changes the response status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrEmptyBody   = &DomainError{Code: CodeEmptyBody, Message: "no payload found"}
	ErrMissingData = &DomainError{Code: CodeMissingData, Message: "submission has no data"}
)

func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}
