package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beaconhq/beacon/pkg/client"
	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}

	cmd.AddCommand(newTeamListCmd())
	cmd.AddCommand(newTeamGetCmd())
	cmd.AddCommand(newTeamCreateCmd())
	cmd.AddCommand(newTeamDeleteCmd())

	return cmd
}

func newTeamListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			teams, _, err := apiClient.Teams().List(ctx, nil)
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(teams)
			}

			t := NewTable("ID", "NAME", "SLUG")
			for _, team := range teams {
				t.AddRow(
					strconv.FormatInt(team.ID, 10),
					truncate(team.Name, 40),
					team.Slug,
				)
			}
			t.Render()
			return nil
		},
	}
}

func newTeamGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get team details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid team ID: %s", args[0])
			}

			ctx := context.Background()
			team, err := apiClient.Teams().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get team: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(team)
			}

			fmt.Printf("ID:          %d\n", team.ID)
			fmt.Printf("Name:        %s\n", team.Name)
			fmt.Printf("Slug:        %s\n", team.Slug)
			if team.Description != "" {
				fmt.Printf("Description: %s\n", team.Description)
			}
			fmt.Printf("Created:     %s\n", team.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newTeamCreateCmd() *cobra.Command {
	var name, slug, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			ctx := context.Background()
			id, err := apiClient.Teams().Create(ctx, client.CreateTeamRequest{
				Name:        name,
				Slug:        slug,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create team: %w", err)
			}

			fmt.Printf("Team %d created\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "team name")
	cmd.Flags().StringVar(&slug, "slug", "", "URL-safe team slug")
	cmd.Flags().StringVar(&description, "description", "", "team description")

	return cmd
}

func newTeamDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid team ID: %s", args[0])
			}

			ctx := context.Background()
			if err := apiClient.Teams().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete team: %w", err)
			}

			fmt.Printf("Team %d deleted\n", id)
			return nil
		},
	}
}
