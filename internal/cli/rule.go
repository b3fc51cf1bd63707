package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/beaconhq/beacon/pkg/client"
	"github.com/spf13/cobra"
)

func newRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage routing rules",
	}

	cmd.AddCommand(newRuleListCmd())
	cmd.AddCommand(newRuleGetCmd())
	cmd.AddCommand(newRuleCreateCmd())
	cmd.AddCommand(newRuleDeleteCmd())
	cmd.AddCommand(newRulePriorityCmd())
	cmd.AddCommand(newRuleMatchesCmd())
	cmd.AddCommand(newRuleTestCmd())

	return cmd
}

func newRuleListCmd() *cobra.Command {
	var teamID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List routing rules for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID == 0 {
				return fmt.Errorf("--team is required")
			}

			ctx := context.Background()
			rules, err := apiClient.Rules().List(ctx, teamID)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(rules)
			}

			t := NewTable("ID", "PRIORITY", "ENABLED", "NAME")
			for _, r := range rules {
				t.AddRow(
					strconv.FormatInt(r.ID, 10),
					strconv.Itoa(r.Priority),
					strconv.FormatBool(r.Enabled),
					truncate(r.Name, 50),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "team ID")

	return cmd
}

func newRuleGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get rule details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %s", args[0])
			}

			ctx := context.Background()
			rule, err := apiClient.Rules().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get rule: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(rule)
			}

			conditions, _ := json.Marshal(rule.Conditions)
			actions, _ := json.Marshal(rule.Actions)

			fmt.Printf("ID:          %d\n", rule.ID)
			fmt.Printf("Team:        %d\n", rule.TeamID)
			fmt.Printf("Name:        %s\n", rule.Name)
			if rule.Description != "" {
				fmt.Printf("Description: %s\n", rule.Description)
			}
			fmt.Printf("Priority:    %d\n", rule.Priority)
			fmt.Printf("Enabled:     %t\n", rule.Enabled)
			fmt.Printf("Conditions:  %s\n", conditions)
			fmt.Printf("Actions:     %s\n", actions)
			fmt.Printf("Created:     %s\n", rule.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newRuleCreateCmd() *cobra.Command {
	var teamID int64
	var priority int
	var name, description, conditionsJSON, actionsJSON string
	var disabled bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a routing rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID == 0 {
				return fmt.Errorf("--team is required")
			}
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := client.CreateRuleRequest{
				TeamID:      teamID,
				Name:        name,
				Description: description,
				Priority:    priority,
			}
			if disabled {
				enabled := false
				req.Enabled = &enabled
			}
			if conditionsJSON != "" {
				if err := json.Unmarshal([]byte(conditionsJSON), &req.Conditions); err != nil {
					return fmt.Errorf("invalid conditions JSON: %w", err)
				}
			}
			if actionsJSON != "" {
				if err := json.Unmarshal([]byte(actionsJSON), &req.Actions); err != nil {
					return fmt.Errorf("invalid actions JSON: %w", err)
				}
			}

			ctx := context.Background()
			id, err := apiClient.Rules().Create(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Printf("Rule %d created\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "team ID")
	cmd.Flags().StringVar(&name, "name", "", "rule name")
	cmd.Flags().StringVar(&description, "description", "", "rule description")
	cmd.Flags().IntVar(&priority, "priority", 0, "rule priority (higher evaluates first)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the rule disabled")
	cmd.Flags().StringVar(&conditionsJSON, "conditions", "", "match conditions as JSON")
	cmd.Flags().StringVar(&actionsJSON, "actions", "", "routing actions as JSON")

	return cmd
}

func newRuleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a routing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %s", args[0])
			}

			ctx := context.Background()
			if err := apiClient.Rules().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			fmt.Printf("Rule %d deleted\n", id)
			return nil
		},
	}
}

func newRulePriorityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priority <id> <priority>",
		Short: "Change a rule's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %s", args[0])
			}
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid priority: %s", args[1])
			}

			ctx := context.Background()
			if err := apiClient.Rules().UpdatePriority(ctx, id, priority); err != nil {
				return fmt.Errorf("failed to update priority: %w", err)
			}

			fmt.Printf("Rule %d priority set to %d\n", id, priority)
			return nil
		},
	}
}

func newRuleMatchesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "matches <id>",
		Short: "Show recent match records for a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID: %s", args[0])
			}

			ctx := context.Background()
			matches, err := apiClient.Rules().Matches(ctx, id, limit)
			if err != nil {
				return fmt.Errorf("failed to get matches: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(matches)
			}

			t := NewTable("ID", "ALERT", "MATCHED AT")
			for _, m := range matches {
				t.AddRow(
					strconv.FormatInt(m.ID, 10),
					strconv.FormatInt(m.AlertID, 10),
					m.MatchedAt.Format("2006-01-02 15:04:05"),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to return")

	return cmd
}

func newRuleTestCmd() *cobra.Command {
	var conditionsJSON, title, severity, description, source string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Dry-run conditions against a sample alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			if conditionsJSON == "" {
				return fmt.Errorf("--conditions is required")
			}
			if title == "" {
				return fmt.Errorf("--title is required")
			}

			req := client.TestRuleRequest{
				Sample: client.SampleAlert{
					Title:       title,
					Severity:    severity,
					Description: description,
					Source:      source,
				},
			}
			if err := json.Unmarshal([]byte(conditionsJSON), &req.Conditions); err != nil {
				return fmt.Errorf("invalid conditions JSON: %w", err)
			}

			ctx := context.Background()
			result, err := apiClient.Rules().Test(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to test rule: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			if result.Matches {
				fmt.Println("[+] MATCH")
			} else {
				fmt.Println("[-] NO MATCH")
			}
			fmt.Printf("Reason: %s\n", result.Reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&conditionsJSON, "conditions", "", "match conditions as JSON")
	cmd.Flags().StringVar(&title, "title", "", "sample alert title")
	cmd.Flags().StringVar(&severity, "severity", "", "sample alert severity")
	cmd.Flags().StringVar(&description, "description", "", "sample alert description")
	cmd.Flags().StringVar(&source, "source", "", "sample alert source")

	return cmd
}
