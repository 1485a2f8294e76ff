package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/linweave/linweave/internal/linear"
	"github.com/linweave/linweave/internal/types"
)

var updateCmd = &cobra.Command{
	Use:   "update <issue-id>",
	Short: "Update a work item's fields",
	Long: `Updates the given work item in place. State names are the
canonical workflow types (backlog, unstarted, started, completed,
canceled) and resolve to the team's matching workflow state. Assigning a
project replaces any previous one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		teamFlag, _ := cmd.Flags().GetString("team-id")

		var input linear.IssueUpdateInput
		changed := false

		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			input.Title = &title
			changed = true
		}
		if cmd.Flags().Changed("description") {
			desc, _ := cmd.Flags().GetString("description")
			input.Description = &desc
			changed = true
		}
		if cmd.Flags().Changed("priority") {
			priority, _ := cmd.Flags().GetInt("priority")
			if priority < 0 || priority > 4 {
				return fmt.Errorf("priority must be between 0 and 4 (got %d)", priority)
			}
			input.Priority = &priority
			changed = true
		}
		if cmd.Flags().Changed("project") {
			projectID, _ := cmd.Flags().GetString("project")
			input.ProjectID = &projectID
			changed = true
		}
		if cmd.Flags().Changed("state") {
			stateName, _ := cmd.Flags().GetString("state")
			state := types.State(stateName)
			if !state.IsValid() {
				return fmt.Errorf("invalid state %q (want backlog, unstarted, started, completed, or canceled)", stateName)
			}
			teamID, err := cfg.RequireTeamID(teamFlag)
			if err != nil {
				return err
			}
			cache, err := linear.BuildStateCache(rootCtx, client, teamID)
			if err != nil {
				return err
			}
			stateID := cache.IDForState(state)
			input.StateID = &stateID
			changed = true
		}

		if !changed {
			return fmt.Errorf("nothing to update (pass --title, --description, --priority, --state, or --project)")
		}

		if err := client.UpdateIssue(rootCtx, args[0], input); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated %s\n", green("✓"), args[0])
		return nil
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().IntP("priority", "p", 0, "New priority (0=none, 1=urgent .. 4=low)")
	updateCmd.Flags().String("state", "", "New state (backlog|unstarted|started|completed|canceled)")
	updateCmd.Flags().String("project", "", "Project ID to assign (replaces any current project)")
	updateCmd.Flags().String("team-id", "", "Team ID for state resolution (default: linear.team_id from config)")
	rootCmd.AddCommand(updateCmd)
}
