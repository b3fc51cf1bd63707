package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/beaconhq/beacon/pkg/client"
)

// Example demonstrates basic usage of the Beacon client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "https://beacon.example.com",
	})

	ctx := context.Background()

	loginResp, err := c.Login(ctx, "user@example.com", "password")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Logged in as: %s\n", loginResp.User.Email)

	incidents, _, err := c.Incidents().List(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d incidents\n", len(incidents))
}

// ExampleAlertService_Ingest demonstrates submitting an alert event
func ExampleAlertService_Ingest() {
	c := client.NewClient(client.Config{
		BaseURL: "https://beacon.example.com",
	})

	result, err := c.Alerts().Ingest(context.Background(), "your-routing-key", client.IngestEvent{
		Title:    "CPU saturated on web-1",
		Severity: "high",
		Source:   "prometheus",
		Labels:   map[string]string{"host": "web-1"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Alert %d (deduplicated: %v)\n", result.Alert.ID, result.Deduplicated)
}

// ExampleRuleService_Test demonstrates dry-running rule conditions
func ExampleRuleService_Test() {
	c := client.NewClient(client.Config{
		BaseURL: "https://beacon.example.com",
		Token:   "your-jwt-token",
	})

	result, err := c.Rules().Test(context.Background(), client.TestRuleRequest{
		Conditions: map[string]interface{}{
			"severity":      []string{"critical"},
			"titleContains": "database",
		},
		Sample: client.SampleAlert{
			Title:    "database connection pool exhausted",
			Severity: "critical",
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Matches: %v\n", result.Matches)
}
