package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/beaconhq/beacon/pkg/client"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show platform summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			firing := "firing"

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				health, err := apiClient.Health(ctx)
				if err == nil {
					summary["server"] = health.Status
				}
				_, page, err := apiClient.Alerts().List(ctx, &client.AlertListOptions{Status: &firing})
				if err == nil && page != nil {
					summary["firing_alerts"] = page.TotalItems
				}
				_, page, err = apiClient.Incidents().List(ctx, nil)
				if err == nil && page != nil {
					summary["incidents"] = page.TotalItems
				}
				return printOutput(summary)
			}

			fmt.Println("Beacon Dashboard")
			fmt.Println(strings.Repeat("=", 40))

			// Server
			health, err := apiClient.Health(ctx)
			if err != nil {
				fmt.Printf("  Server:     (error: %v)\n", err)
			} else {
				fmt.Printf("  Server:     %s", formatStatus(health.Status))
				if health.Version != "" {
					fmt.Printf(" (%s)", health.Version)
				}
				fmt.Println()
			}

			// Alerts
			alerts, page, err := apiClient.Alerts().List(ctx, &client.AlertListOptions{Status: &firing})
			if err != nil {
				fmt.Printf("  Alerts:     (error: %v)\n", err)
			} else {
				total := int64(len(alerts))
				if page != nil {
					total = page.TotalItems
				}
				critical := 0
				for _, a := range alerts {
					if a.Severity == "critical" {
						critical++
					}
				}
				fmt.Printf("  Alerts:     %d firing", total)
				if critical > 0 {
					fmt.Printf(" (%d critical)", critical)
				}
				fmt.Println()
			}

			// Incidents
			incidents, page, err := apiClient.Incidents().List(ctx, nil)
			if err != nil {
				fmt.Printf("  Incidents:  (error: %v)\n", err)
			} else {
				total := int64(len(incidents))
				if page != nil {
					total = page.TotalItems
				}
				open := 0
				for _, i := range incidents {
					if i.Status == "triggered" || i.Status == "acknowledged" {
						open++
					}
				}
				fmt.Printf("  Incidents:  %d total", total)
				if open > 0 {
					fmt.Printf(" (%d open)", open)
				}
				fmt.Println()
			}

			return nil
		},
	}
}
