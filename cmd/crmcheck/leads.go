package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verify the credential can read leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Endpoint: %s\n", s.client.LeadURL())
			fmt.Fprintf(out, "Auth:     %s\n", describeCredential(s.cred))

			if err := s.client.Ping(cmd.Context(), s.cred); err != nil {
				return explain(err)
			}
			fmt.Fprintln(out, "OK: credential can list leads")
			return nil
		},
	}
}

func newFindCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "find <email>",
		Short: "Find a lead by e-mail address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lead, err := s.client.FindLeadByEmail(cmd.Context(), args[0], s.cred)
			if err != nil {
				return explain(err)
			}
			if lead == nil {
				return fmt.Errorf("no lead with e-mail %s", args[0])
			}
			return printJSON(cmd.OutOrStdout(), lead)
		},
	}
}

func newGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a lead by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lead, err := s.client.GetLead(cmd.Context(), args[0], s.cred)
			if err != nil {
				return explain(err)
			}
			return printJSON(cmd.OutOrStdout(), lead)
		},
	}
}

func newDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lead by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.client.DeleteLead(cmd.Context(), args[0], s.cred); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted lead %s\n", args[0])
			return nil
		},
	}
}
