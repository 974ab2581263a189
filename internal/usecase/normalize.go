package usecase

import (
	"strings"

	"github.com/xavierca1/landing-leads/internal/entity"
)

const unknownLastName = "Unknown"

// messageFields are tried in order; the first non-empty one opens the
// description.
var messageFields = []string{"message", "requirements", "challenge"}

// detailFields are appended to the description, in this order, when present.
var detailFields = []struct {
	key   string
	label string
}{
	{"team_size", "Team Size"},
	{"user_count", "User Count"},
	{"industry", "Industry"},
	{"current_crm", "Current CRM"},
	{"company_size", "Company Size"},
	{"revenue_range", "Revenue Range"},
	{"job_role", "Job Role"},
}

// Normalizer turns any landing page payload into the canonical lead.
// It does no I/O and keeps no state.
type Normalizer struct {
	Source                   string
	IncludeSourceDescription bool
}

func (n Normalizer) Normalize(payload entity.RawFormPayload, formName string) entity.Lead {
	firstName, lastName := splitName(payload)

	lead := entity.Lead{
		FirstName:    firstName,
		LastName:     lastName,
		EmailAddress: payload["email"],
		PhoneNumber:  payload.Get("phone"),
		AccountName:  payload.Get("company"),
		Title:        firstNonEmpty(payload, "job_title", "role"),
		Description:  buildDescription(payload),
		Source:       n.Source,
		Status:       entity.LeadStatusNew,
		Website:      payload.Get("website"),
	}

	if n.IncludeSourceDescription {
		page := payload.Get("page")
		if page == "" {
			page = formName
		}
		lead.SourceDescription = "Landing Page: " + page
	}

	return lead
}

func splitName(payload entity.RawFormPayload) (string, string) {
	var first, rest string
	if tokens := strings.Fields(payload["name"]); len(tokens) > 0 {
		first = tokens[0]
		rest = strings.Join(tokens[1:], " ")
	}

	firstName := payload.Get("first_name")
	if firstName == "" {
		firstName = first
	}

	lastName := payload.Get("last_name")
	if lastName == "" {
		lastName = rest
	}
	if lastName == "" {
		lastName = unknownLastName
	}

	return firstName, lastName
}

func buildDescription(payload entity.RawFormPayload) string {
	message := firstNonEmpty(payload, messageFields...)

	details := make([]string, 0, len(detailFields))
	for _, f := range detailFields {
		if v := payload.Get(f.key); v != "" {
			details = append(details, f.label+": "+v)
		}
	}

	switch {
	case len(details) == 0:
		return message
	case message == "":
		return strings.Join(details, "\n")
	default:
		return message + "\n\n" + strings.Join(details, "\n")
	}
}

func firstNonEmpty(payload entity.RawFormPayload, keys ...string) string {
	for _, k := range keys {
		if v := payload.Get(k); v != "" {
			return v
		}
	}
	return ""
}
