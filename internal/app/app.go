// Package app wires configuration into the HTTP surface. Both the
// long-running server and the function entrypoint build through here.
package app

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/config"
	"github.com/xavierca1/landing-leads/internal/infra/http/handlers"
	"github.com/xavierca1/landing-leads/internal/infra/http/middleware"
	"github.com/xavierca1/landing-leads/internal/infra/http/router"
	"github.com/xavierca1/landing-leads/internal/infra/integration/espocrm"
	"github.com/xavierca1/landing-leads/internal/infra/mail"
	"github.com/xavierca1/landing-leads/internal/usecase"
)

// NewCRMClient builds the EspoCRM client and resolves its credential.
func NewCRMClient(cfg config.CRMConfig, log *zap.Logger) (*espocrm.Client, espocrm.Credential) {
	client := espocrm.NewClient(cfg.URL, cfg.APIPath, &http.Client{Timeout: cfg.Timeout}, log)
	return client, espocrm.ResolveCredential(cfg.APIKey, cfg.Username, cfg.Password)
}

func NewCaptureLead(cfg *config.Config, log *zap.Logger) (*usecase.CaptureLeadUseCase, espocrm.Credential) {
	crm, cred := NewCRMClient(cfg.CRM, log)

	if cred == nil {
		log.Warn("no EspoCRM credentials configured, submissions will be logged only")
	} else {
		log.Info("EspoCRM configured",
			zap.String("url", crm.LeadURL()),
			zap.String("auth", cred.Mode()),
		)
	}

	var notifier usecase.FailureNotifier
	if cfg.Mail.Enabled() {
		notifier = mail.NewAlertSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.AlertTo)
	}

	normalizer := usecase.Normalizer{
		Source:                   cfg.Lead.Source,
		IncludeSourceDescription: cfg.Lead.IncludeSourceDescription,
	}

	uc := usecase.NewCaptureLeadUseCase(normalizer, crm, cred, notifier, middleware.Recorder{}, cfg.Lead.ExposeLeadID, log)
	return uc, cred
}

func NewHandler(cfg *config.Config, log *zap.Logger) http.Handler {
	uc, cred := NewCaptureLead(cfg, log)

	return router.New(router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Lead:           handlers.NewLeadHandler(uc, log),
		Health:         handlers.NewHealthHandler(cfg.CRM.URL, espocrm.CredentialMode(cred), cfg.Mail.Enabled()),
		Log:            log,
	})
}
