package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beaconhq/beacon/pkg/client"
	"github.com/spf13/cobra"
)

func newIncidentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Manage incidents",
	}

	cmd.AddCommand(newIncidentListCmd())
	cmd.AddCommand(newIncidentGetCmd())
	cmd.AddCommand(newIncidentAckCmd())
	cmd.AddCommand(newIncidentResolveCmd())
	cmd.AddCommand(newIncidentSummaryCmd())

	return cmd
}

func newIncidentListCmd() *cobra.Command {
	var status, severity string
	var teamID, serviceID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List incidents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opts := &client.IncidentListOptions{}
			if status != "" {
				opts.Status = &status
			}
			if severity != "" {
				opts.Severity = &severity
			}
			if teamID != 0 {
				opts.TeamID = &teamID
			}
			if serviceID != 0 {
				opts.ServiceID = &serviceID
			}

			incidents, page, err := apiClient.Incidents().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list incidents: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(incidents)
			}

			t := NewTable("ID", "SEVERITY", "STATUS", "TITLE")
			for _, i := range incidents {
				t.AddRow(
					strconv.FormatInt(i.ID, 10),
					formatSeverity(i.Severity),
					formatStatus(i.Status),
					truncate(i.Title, 50),
				)
			}
			t.Render()
			if page != nil {
				fmt.Printf("\nPage %d of %d (%d total)\n", page.Page, page.TotalPages, page.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().Int64Var(&teamID, "team", 0, "filter by team ID")
	cmd.Flags().Int64Var(&serviceID, "service", 0, "filter by service ID")

	return cmd
}

func newIncidentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get incident details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid incident ID: %s", args[0])
			}

			ctx := context.Background()
			incident, err := apiClient.Incidents().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get incident: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(incident)
			}

			fmt.Printf("ID:       %d\n", incident.ID)
			fmt.Printf("Team:     %d\n", incident.TeamID)
			fmt.Printf("Service:  %d\n", incident.ServiceID)
			fmt.Printf("Severity: %s\n", formatSeverity(incident.Severity))
			fmt.Printf("Status:   %s\n", formatStatus(incident.Status))
			fmt.Printf("Title:    %s\n", incident.Title)
			if incident.Summary != "" {
				fmt.Printf("Summary:  %s\n", incident.Summary)
			}
			fmt.Printf("Created:  %s\n", incident.CreatedAt.Format("2006-01-02 15:04:05"))
			if incident.AcknowledgedAt != nil {
				fmt.Printf("Acked:    %s\n", incident.AcknowledgedAt.Format("2006-01-02 15:04:05"))
			}
			if incident.ResolvedAt != nil {
				fmt.Printf("Resolved: %s\n", incident.ResolvedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newIncidentAckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ack <id>",
		Short: "Acknowledge an incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid incident ID: %s", args[0])
			}

			ctx := context.Background()
			if err := apiClient.Incidents().Acknowledge(ctx, id); err != nil {
				return fmt.Errorf("failed to acknowledge incident: %w", err)
			}

			fmt.Printf("Incident %d acknowledged\n", id)
			return nil
		},
	}
}

func newIncidentResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an incident",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid incident ID: %s", args[0])
			}

			ctx := context.Background()
			if err := apiClient.Incidents().Resolve(ctx, id); err != nil {
				return fmt.Errorf("failed to resolve incident: %w", err)
			}

			fmt.Printf("Incident %d resolved\n", id)
			return nil
		},
	}
}

func newIncidentSummaryCmd() *cobra.Command {
	var teamID int64

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show incident counts by status for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID == 0 {
				return fmt.Errorf("--team is required")
			}

			ctx := context.Background()
			summary, err := apiClient.Incidents().Summary(ctx, teamID)
			if err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			t := NewTable("STATUS", "COUNT")
			for status, count := range summary {
				t.AddRow(formatStatus(status), strconv.Itoa(count))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "team ID")

	return cmd
}
