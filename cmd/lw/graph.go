package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/linweave/linweave/internal/debug"
	"github.com/linweave/linweave/internal/graph"
	"github.com/linweave/linweave/internal/linear"
	"github.com/linweave/linweave/internal/types"
)

// buildTeamModel fetches the team's issues and their relations and
// assembles the in-memory graph. One relations round trip per issue; a
// failed relation fetch degrades that issue to edge-less rather than
// aborting.
func buildTeamModel(ctx context.Context, teamID string) (*graph.Model, error) {
	issues, err := client.ListIssues(ctx, linear.IssueFilter{TeamID: teamID})
	if err != nil {
		return nil, fmt.Errorf("fetch team issues: %w", err)
	}

	model := graph.New()
	for i := range issues {
		model.AddWorkItem(linear.IssueToWorkItem(&issues[i]))
	}
	for i := range issues {
		relations, err := client.ListRelations(ctx, issues[i].ID)
		if err != nil {
			debug.Logf("relations for %s: %v (treating as none)\n", issues[i].Identifier, err)
			continue
		}
		for _, r := range relations {
			if r.RelatedIssue == nil {
				continue
			}
			model.AddRelation(issues[i].ID, r.RelatedIssue.ID, types.RelationType(r.Type))
		}
	}
	return model, nil
}

// findItem resolves an identifier or remote ID against the model.
func findItem(model *graph.Model, ref string) *types.WorkItem {
	if w := model.Item(ref); w != nil {
		return w
	}
	for _, w := range model.Items() {
		if w.Identifier == ref {
			return w
		}
	}
	return nil
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show work items ready to start (no incomplete blockers)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		teamFlag, _ := cmd.Flags().GetString("team-id")
		limit, _ := cmd.Flags().GetInt("limit")

		teamID, err := cfg.RequireTeamID(teamFlag)
		if err != nil {
			return err
		}

		model, err := buildTeamModel(rootCtx, teamID)
		if err != nil {
			return err
		}
		ready := graph.NextAvailable(model, limit)

		if jsonOutput {
			if ready == nil {
				ready = []*types.WorkItem{}
			}
			outputJSON(ready)
			return nil
		}
		if len(ready) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s No ready work found\n\n", yellow("✨"))
			return nil
		}
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Ready work (%d items with no blockers):\n\n", cyan("📋"), len(ready))
		for i, w := range ready {
			fmt.Printf("%d. [P%d] %s: %s\n", i+1, w.Priority, w.Ref(), w.Title)
		}
		fmt.Println()
		return nil
	},
}

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "Show blocked work items and what blocks them",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		teamFlag, _ := cmd.Flags().GetString("team-id")

		teamID, err := cfg.RequireTeamID(teamFlag)
		if err != nil {
			return err
		}

		model, err := buildTeamModel(rootCtx, teamID)
		if err != nil {
			return err
		}

		type blockedItem struct {
			Item      *types.WorkItem   `json:"item"`
			BlockedBy []*types.WorkItem `json:"blocked_by"`
		}
		var blocked []blockedItem
		for _, w := range model.Items() {
			if w.State.IsTerminal() {
				continue
			}
			if isBlocked, blockers := graph.IsBlocked(model, w.RemoteID); isBlocked {
				blocked = append(blocked, blockedItem{Item: w, BlockedBy: blockers})
			}
		}

		if jsonOutput {
			if blocked == nil {
				blocked = []blockedItem{}
			}
			outputJSON(blocked)
			return nil
		}
		if len(blocked) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("\n%s No blocked items\n\n", green("✨"))
			return nil
		}
		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("\n%s Blocked items (%d):\n\n", red("🚫"), len(blocked))
		for _, b := range blocked {
			fmt.Printf("[P%d] %s: %s\n", b.Item.Priority, b.Item.Ref(), b.Item.Title)
			fmt.Printf("  Blocked by %d open items:", len(b.BlockedBy))
			for _, blocker := range b.BlockedBy {
				fmt.Printf(" %s", blocker.Ref())
			}
			fmt.Println()
			fmt.Println()
		}
		return nil
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain <identifier>",
	Short: "Show an item's direct dependency chain",
	Long: `Shows the items directly blocking the given item, the items it
directly blocks, and whether it can start now. Direct edges only: rerun
against each blocker to walk further up the chain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		teamFlag, _ := cmd.Flags().GetString("team-id")

		teamID, err := cfg.RequireTeamID(teamFlag)
		if err != nil {
			return err
		}

		model, err := buildTeamModel(rootCtx, teamID)
		if err != nil {
			return err
		}
		item := findItem(model, args[0])
		if item == nil {
			return fmt.Errorf("work item %q not found in team %s", args[0], teamID)
		}

		chain := graph.DependencyChain(model, item.RemoteID)
		if jsonOutput {
			outputJSON(chain)
			return nil
		}

		fmt.Printf("\n%s\n\n", headerStyle.Render(fmt.Sprintf("%s: %s", item.Ref(), item.Title)))
		if len(chain.BlockedBy) == 0 {
			fmt.Println("Blocked by: (none)")
		} else {
			fmt.Println("Blocked by:")
			for _, w := range chain.BlockedBy {
				fmt.Printf("  ← %s: %s (%s)\n", w.Ref(), w.Title, w.State)
			}
		}
		if len(chain.Blocks) == 0 {
			fmt.Println("Blocks:     (none)")
		} else {
			fmt.Println("Blocks:")
			for _, w := range chain.Blocks {
				fmt.Printf("  → %s: %s (%s)\n", w.Ref(), w.Title, w.State)
			}
		}
		if chain.CanStart {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("\n%s\n\n", green("Can start now"))
		} else {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("\n%s\n\n", red("Waiting on blockers"))
		}
		return nil
	},
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Show work items with no project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		teamFlag, _ := cmd.Flags().GetString("team-id")

		teamID, err := cfg.RequireTeamID(teamFlag)
		if err != nil {
			return err
		}

		issues, err := client.ListIssues(rootCtx, linear.IssueFilter{TeamID: teamID, NoProject: true})
		if err != nil {
			return err
		}
		items := make([]*types.WorkItem, 0, len(issues))
		for i := range issues {
			items = append(items, linear.IssueToWorkItem(&issues[i]))
		}

		if jsonOutput {
			outputJSON(items)
			return nil
		}
		if len(items) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("\n%s Every item has a project\n\n", green("✨"))
			return nil
		}
		fmt.Printf("\nItems with no project (%d):\n\n", len(items))
		for _, w := range items {
			fmt.Printf("[P%d] %s: %s\n", w.Priority, w.Ref(), w.Title)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{nextCmd, blockedCmd, chainCmd, orphansCmd} {
		c.Flags().String("team-id", "", "Team ID (default: linear.team_id from config)")
	}
	nextCmd.Flags().IntP("limit", "n", 10, "Maximum items to show")
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(blockedCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(orphansCmd)
}
