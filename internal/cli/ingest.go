package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/beaconhq/beacon/pkg/client"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var routingKey, severity, description, source, fingerprint string
	var labels []string

	cmd := &cobra.Command{
		Use:   "ingest <title>",
		Short: "Submit an alert event through an integration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if routingKey == "" {
				return fmt.Errorf("--key is required")
			}

			ev := client.IngestEvent{
				Title:       args[0],
				Severity:    severity,
				Description: description,
				Source:      source,
				Fingerprint: fingerprint,
			}
			if len(labels) > 0 {
				ev.Labels = make(map[string]string, len(labels))
				for _, l := range labels {
					k, v, ok := strings.Cut(l, "=")
					if !ok {
						return fmt.Errorf("invalid label %q, expected key=value", l)
					}
					ev.Labels[k] = v
				}
			}

			ctx := context.Background()
			result, err := apiClient.Alerts().Ingest(ctx, routingKey, ev)
			if err != nil {
				return fmt.Errorf("failed to ingest event: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Alert:        %d\n", result.Alert.ID)
			fmt.Printf("Severity:     %s\n", formatSeverity(result.Alert.Severity))
			fmt.Printf("Status:       %s\n", formatStatus(result.Alert.Status))
			fmt.Printf("Deduplicated: %t\n", result.Deduplicated)
			fmt.Printf("Suppressed:   %t\n", result.Suppressed)
			fmt.Printf("Rule matched: %t\n", result.RuleMatched)
			return nil
		},
	}

	cmd.Flags().StringVar(&routingKey, "key", "", "integration routing key")
	cmd.Flags().StringVar(&severity, "severity", "", "event severity (critical, high, medium, low, info)")
	cmd.Flags().StringVar(&description, "description", "", "event description")
	cmd.Flags().StringVar(&source, "source", "", "event source")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "explicit deduplication fingerprint")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "label as key=value (repeatable)")

	return cmd
}
