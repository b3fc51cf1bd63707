package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beaconhq/beacon/pkg/client"
	"github.com/spf13/cobra"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertGetCmd())
	cmd.AddCommand(newAlertResolveCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var severity, status, source string
	var serviceID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opts := &client.AlertListOptions{}
			if severity != "" {
				opts.Severity = &severity
			}
			if status != "" {
				opts.Status = &status
			}
			if source != "" {
				opts.Source = &source
			}
			if serviceID != 0 {
				opts.ServiceID = &serviceID
			}

			alerts, page, err := apiClient.Alerts().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alerts)
			}

			t := NewTable("ID", "SEVERITY", "STATUS", "COUNT", "TITLE")
			for _, a := range alerts {
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					formatSeverity(a.Severity),
					formatStatus(a.Status),
					strconv.Itoa(a.Count),
					truncate(a.Title, 50),
				)
			}
			t.Render()
			if page != nil {
				fmt.Printf("\nPage %d of %d (%d total)\n", page.Page, page.TotalPages, page.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&source, "source", "", "filter by source")
	cmd.Flags().Int64Var(&serviceID, "service", 0, "filter by service ID")

	return cmd
}

func newAlertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get alert details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			ctx := context.Background()
			alert, err := apiClient.Alerts().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alert)
			}

			fmt.Printf("ID:          %d\n", alert.ID)
			fmt.Printf("Severity:    %s\n", formatSeverity(alert.Severity))
			fmt.Printf("Status:      %s\n", formatStatus(alert.Status))
			fmt.Printf("Title:       %s\n", alert.Title)
			if alert.Description != "" {
				fmt.Printf("Description: %s\n", alert.Description)
			}
			if alert.Source != "" {
				fmt.Printf("Source:      %s\n", alert.Source)
			}
			fmt.Printf("Fingerprint: %s\n", alert.Fingerprint)
			fmt.Printf("Count:       %d\n", alert.Count)
			if alert.IncidentID != nil {
				fmt.Printf("Incident:    %d\n", *alert.IncidentID)
			}
			for k, v := range alert.Labels {
				fmt.Printf("Label:       %s=%s\n", k, v)
			}
			fmt.Printf("Last seen:   %s\n", alert.LastSeenAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Created:     %s\n", alert.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newAlertResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			ctx := context.Background()
			if err := apiClient.Alerts().Resolve(ctx, id); err != nil {
				return fmt.Errorf("failed to resolve alert: %w", err)
			}

			fmt.Printf("Alert %d resolved\n", id)
			return nil
		},
	}
}
