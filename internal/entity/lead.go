package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const LeadStatusNew = "New"

// RawFormPayload is the flat field map a landing page form posts. Keys vary
// per page; unknown keys are carried along and ignored by the normalizer.
type RawFormPayload map[string]string

// Get returns the trimmed value for key, or "" when absent.
func (p RawFormPayload) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// UnmarshalJSON accepts the loose shapes browsers and form providers send:
// strings, numbers and booleans become strings, arrays of scalars are joined,
// null and nested objects are dropped.
func (p *RawFormPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*p = nil
		return nil
	}

	out := make(RawFormPayload, len(raw))
	for key, value := range raw {
		if s, ok := scalarString(value); ok {
			out[key] = s
			continue
		}

		var list []json.RawMessage
		if err := json.Unmarshal(value, &list); err == nil {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := scalarString(item); ok && s != "" {
					parts = append(parts, s)
				}
			}
			out[key] = strings.Join(parts, ", ")
		}
	}
	*p = out
	return nil
}

func scalarString(value json.RawMessage) (string, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return "", false
	}

	switch value[0] {
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", false
		}
		return s, true
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(value, &b); err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	case '[', '{':
		return "", false
	default:
		var n json.Number
		if err := json.Unmarshal(value, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
}

// Lead is the canonical record sent to the CRM, independent of the page that
// produced it.
type Lead struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	EmailAddress      string `json:"emailAddress"`
	PhoneNumber       string `json:"phoneNumber"`
	AccountName       string `json:"accountName"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Source            string `json:"source"`
	SourceDescription string `json:"sourceDescription,omitempty"`
	Status            string `json:"status"`
	Website           string `json:"website,omitempty"`
}

// LeadRecord is a lead as the CRM returns it on reads.
type LeadRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	PhoneNumber  string `json:"phoneNumber"`
	AccountName  string `json:"accountName"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Source       string `json:"source"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt,omitempty"`
}
