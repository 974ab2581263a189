package espocrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/entity"
)

const (
	DefaultAPIPath = "/api/v1"
	leadResource   = "Lead"
)

// Client talks to the EspoCRM REST API. It keeps no state between calls.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a client for the EspoCRM instance at siteURL. apiPath is
// appended to it (DefaultAPIPath when empty). A nil httpClient uses
// http.DefaultClient.
func NewClient(siteURL, apiPath string, httpClient *http.Client, log *zap.Logger) *Client {
	if apiPath == "" {
		apiPath = DefaultAPIPath
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(siteURL, "/") + "/" + strings.Trim(apiPath, "/"),
		http:    httpClient,
		log:     log.Named("espocrm"),
	}
}

// LeadURL is the lead resource endpoint, for logs and tooling.
func (c *Client) LeadURL() string {
	return c.baseURL + "/" + leadResource
}

// CreateLead posts the lead and returns the id EspoCRM assigned. The email and
// credential checks run before any request is built.
func (c *Client) CreateLead(ctx context.Context, lead entity.Lead, cred Credential) (string, error) {
	if strings.TrimSpace(lead.EmailAddress) == "" {
		return "", &ValidationError{Reason: "email required"}
	}
	if cred == nil {
		return "", ErrCredentialsNotConfigured
	}

	payload, err := json.Marshal(lead)
	if err != nil {
		return "", fmt.Errorf("espocrm: marshal lead: %w", err)
	}

	var result struct {
		ID string `json:"id"`
	}
	status, body, err := c.do(ctx, "create lead", http.MethodPost, c.LeadURL(), payload, cred)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(body, &result); err != nil || result.ID == "" {
		return "", &APIError{
			Op:         "create lead",
			StatusCode: status,
			Body:       string(body),
			Reason:     "response has no lead id",
		}
	}

	c.log.Debug("lead created", zap.String("lead_id", result.ID))
	return result.ID, nil
}

// FindLeadByEmail returns the first lead whose emailAddress equals email, or
// nil when there is none.
func (c *Client) FindLeadByEmail(ctx context.Context, email string, cred Credential) (*entity.LeadRecord, error) {
	// An empty filter value would match leads that have no e-mail.
	if strings.TrimSpace(email) == "" {
		return nil, &ValidationError{Reason: "email required"}
	}
	if cred == nil {
		return nil, ErrCredentialsNotConfigured
	}

	q := url.Values{}
	q.Set("where[0][type]", "equals")
	q.Set("where[0][attribute]", "emailAddress")
	q.Set("where[0][value]", email)

	list, err := c.list(ctx, "find lead", q, cred)
	if err != nil {
		return nil, err
	}
	if len(list.List) == 0 {
		return nil, nil
	}
	return &list.List[0], nil
}

// GetLead reads a single lead by id.
func (c *Client) GetLead(ctx context.Context, id string, cred Credential) (*entity.LeadRecord, error) {
	if cred == nil {
		return nil, ErrCredentialsNotConfigured
	}

	_, body, err := c.do(ctx, "get lead", http.MethodGet, c.LeadURL()+"/"+url.PathEscape(id), nil, cred)
	if err != nil {
		return nil, err
	}

	var lead entity.LeadRecord
	if err := json.Unmarshal(body, &lead); err != nil {
		return nil, fmt.Errorf("espocrm: decode lead: %w", err)
	}
	return &lead, nil
}

// DeleteLead removes a lead. Any 2xx answer is success.
func (c *Client) DeleteLead(ctx context.Context, id string, cred Credential) error {
	if cred == nil {
		return ErrCredentialsNotConfigured
	}

	_, _, err := c.do(ctx, "delete lead", http.MethodDelete, c.LeadURL()+"/"+url.PathEscape(id), nil, cred)
	return err
}

// Ping lists at most one lead to prove the credential can read leads.
func (c *Client) Ping(ctx context.Context, cred Credential) error {
	if cred == nil {
		return ErrCredentialsNotConfigured
	}

	q := url.Values{}
	q.Set("maxSize", "1")
	_, err := c.list(ctx, "ping", q, cred)
	return err
}

func (c *Client) list(ctx context.Context, op string, q url.Values, cred Credential) (*listResponse, error) {
	_, body, err := c.do(ctx, op, http.MethodGet, c.LeadURL()+"?"+q.Encode(), nil, cred)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("espocrm: decode %s response: %w", op, err)
	}
	return &out, nil
}

// do sends one request and returns the status and body of a 2xx answer.
// Anything else comes back as *APIError or *NetworkError.
func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte, cred Credential) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("espocrm: build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	cred.authorize(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Reason:     resp.Header.Get("X-Status-Reason"),
		}
		var details any
		if err := json.Unmarshal(body, &details); err == nil {
			apiErr.Details = details
		}
		return resp.StatusCode, body, apiErr
	}

	return resp.StatusCode, body, nil
}
