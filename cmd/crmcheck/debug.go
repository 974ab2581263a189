package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/landing-leads/internal/entity"
	"github.com/xavierca1/landing-leads/internal/usecase"
)

// debugPayload mirrors a real demo-request form.
func debugPayload(now time.Time) entity.RawFormPayload {
	return entity.RawFormPayload{
		"first_name": "Debug",
		"last_name":  "Test",
		"email":      fmt.Sprintf("debug-test-%d@example.com", now.UnixMilli()),
		"phone":      "+1 555-0999",
		"company":    "Debug Corp",
		"job_title":  "QA Engineer",
		"team_size":  "10-50",
		"message":    "This is a test submission for debugging",
	}
}

func newDebugCmd(s *session) *cobra.Command {
	var (
		keep   bool
		source string
	)

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Create, verify and delete a synthetic lead",
		Long: `debug runs a submission through the same normalization as the server,
creates the lead, reads it back, and deletes it again unless --keep is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "1. Credentials: %s\n", describeCredential(s.cred))

			fmt.Fprintf(out, "2. Connectivity: GET %s\n", s.client.LeadURL())
			if err := s.client.Ping(ctx, s.cred); err != nil {
				return explain(err)
			}
			fmt.Fprintln(out, "   OK")

			lead := usecase.Normalizer{Source: source}.Normalize(debugPayload(time.Now()), "debug")
			fmt.Fprintln(out, "3. Normalized lead:")
			if err := printJSON(out, lead); err != nil {
				return err
			}

			fmt.Fprintf(out, "4. Create: POST %s\n", s.client.LeadURL())
			id, err := s.client.CreateLead(ctx, lead, s.cred)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out, "   created lead %s\n", id)

			fmt.Fprintln(out, "5. Verify")
			record, err := s.client.GetLead(ctx, id, s.cred)
			if err != nil {
				return explain(err)
			}
			if record.EmailAddress != lead.EmailAddress {
				return fmt.Errorf("lead %s has e-mail %q, want %q", id, record.EmailAddress, lead.EmailAddress)
			}
			fmt.Fprintf(out, "   %s %s <%s> status=%s\n", record.FirstName, record.LastName, record.EmailAddress, record.Status)

			if keep {
				fmt.Fprintf(out, "6. Kept lead %s\n", id)
				return nil
			}
			fmt.Fprintln(out, "6. Cleanup")
			if err := s.client.DeleteLead(ctx, id, s.cred); err != nil {
				return fmt.Errorf("delete test lead %s: %w", id, explain(err))
			}
			fmt.Fprintf(out, "   deleted lead %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "leave the test lead in the CRM")
	cmd.Flags().StringVar(&source, "source", "Web Site", "lead source value")
	return cmd
}
