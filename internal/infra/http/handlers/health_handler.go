package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/landing-leads/internal/infra/integration/espocrm"
)

type HealthHandler struct {
	CRMURL         string
	CredentialMode string
	AlertsEnabled  bool
	StartTime      time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(crmURL, credentialMode string, alertsEnabled bool) *HealthHandler {
	return &HealthHandler{
		CRMURL:         crmURL,
		CredentialMode: credentialMode,
		AlertsEnabled:  alertsEnabled,
		StartTime:      time.Now(),
	}
}

// Handle reports configuration only. The CRM is not called: a CRM outage
// must not make the form endpoint look unhealthy, since submissions still
// succeed for visitors.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"espocrm":       h.CRMURL,
		"espocrm_auth":  h.CredentialMode,
		"failure_alert": "not configured",
	}
	if h.AlertsEnabled {
		deps["failure_alert"] = "configured"
	}

	status := "healthy"
	if h.CredentialMode == espocrm.ModeNotConfigured {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
