package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/app"
	"github.com/xavierca1/landing-leads/internal/config"
	"github.com/xavierca1/landing-leads/internal/infra/integration/espocrm"
)

var errNoCredentials = errors.New("no credentials configured: set ESPOCRM_API_KEY or ESPOCRM_USERNAME/ESPOCRM_PASSWORD")

// session is filled in before any subcommand runs.
type session struct {
	client *espocrm.Client
	cred   espocrm.Credential
	crmURL string
}

func newRootCmd() *cobra.Command {
	var (
		s       session
		crmURL  string
		apiKey  string
		timeout time.Duration
		verbose bool
	)

	root := &cobra.Command{
		Use:   "crmcheck",
		Short: "Check the EspoCRM lead API",
		Long: `crmcheck talks to the same EspoCRM instance as the lead capture server,
with the same credentials, so connection problems can be found without
submitting a form.

Configuration comes from .env.local, .env and the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if crmURL != "" {
				cfg.CRM.URL = crmURL
			}
			if apiKey != "" {
				cfg.CRM.APIKey = apiKey
			}
			if cmd.Flags().Changed("timeout") {
				cfg.CRM.Timeout = timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := zap.NewNop()
			if verbose {
				log, _ = zap.NewDevelopment()
			}

			s.client, s.cred = app.NewCRMClient(cfg.CRM, log)
			s.crmURL = cfg.CRM.URL
			if s.cred == nil {
				return errNoCredentials
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&crmURL, "url", "", "EspoCRM base URL (default: ESPOCRM_URL)")
	root.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (default: ESPOCRM_API_KEY)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each CRM request")

	root.AddCommand(
		newPingCmd(&s),
		newFindCmd(&s),
		newGetCmd(&s),
		newDeleteCmd(&s),
		newDebugCmd(&s),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describeCredential never prints a secret in full.
func describeCredential(c espocrm.Credential) string {
	switch v := c.(type) {
	case espocrm.APIKey:
		return fmt.Sprintf("API key %s", v.Masked())
	case espocrm.BasicAuth:
		return fmt.Sprintf("basic auth as %s", v.Username)
	default:
		return espocrm.CredentialMode(c)
	}
}

// explain adds the usual causes to a CRM error.
func explain(err error) error {
	var apiErr *espocrm.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case 401:
		return fmt.Errorf("%w (credential rejected: check the key or the API user)", err)
	case 403:
		return fmt.Errorf("%w (API user lacks permission on Lead)", err)
	case 404:
		return fmt.Errorf("%w (not found: check ESPOCRM_URL and ESPOCRM_API_PATH)", err)
	}
	return err
}
