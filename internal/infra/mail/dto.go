package mail

import "gopkg.in/gomail.v2"

type FailureAlertData struct {
	SubmissionID string
	FormName     string
	Outcome      string
	Detail       string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Company      string
	Title        string
	Description  string
	Source       string
	Website      string
}

// dialer is the part of gomail.Dialer the sender uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type AlertSender struct {
	From   string
	To     string
	dialer dialer
}
