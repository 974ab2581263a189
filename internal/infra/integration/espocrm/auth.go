package espocrm

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Credential modes as reported by Mode and CredentialMode.
const (
	ModeAPIKey        = "api_key"
	ModeBasic         = "basic"
	ModeNotConfigured = "not configured"
)

// Credential is the resolved authentication strategy for a deployment.
// It is either APIKey or BasicAuth; a nil Credential means none is configured.
type Credential interface {
	// Mode names the strategy for logs and health output.
	Mode() string
	authorize(h http.Header)
}

// APIKey authenticates as an EspoCRM API user.
type APIKey string

func (k APIKey) Mode() string { return ModeAPIKey }

// Some deployments read the vendor header, others the Authorization value,
// so both carry the key.
func (k APIKey) authorize(h http.Header) {
	h.Set("Authorization", "ApiKey "+string(k))
	h.Set("X-Api-Key", string(k))
}

// Masked returns the first characters of the key, safe to print.
func (k APIKey) Masked() string {
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return string(k[:8]) + "..."
}

// BasicAuth authenticates as a regular EspoCRM user.
type BasicAuth struct {
	Username string
	Password string
}

func (b BasicAuth) Mode() string { return ModeBasic }

func (b BasicAuth) authorize(h http.Header) {
	token := base64.StdEncoding.EncodeToString([]byte(b.Username + ":" + b.Password))
	h.Set("Authorization", "Basic "+token)
}

// ResolveCredential picks the strategy once at startup. An API key wins;
// otherwise both username and password are required.
func ResolveCredential(apiKey, username, password string) Credential {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		return APIKey(apiKey)
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil
	}
	return BasicAuth{Username: strings.TrimSpace(username), Password: password}
}

// CredentialMode reports the mode of c, or "not configured" when nil.
func CredentialMode(c Credential) string {
	if c == nil {
		return ModeNotConfigured
	}
	return c.Mode()
}
