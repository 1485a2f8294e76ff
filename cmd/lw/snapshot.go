package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/linweave/linweave/internal/snapshot"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a team's full graph to a snapshot file",
	Long: `Walks the team's labels, projects (with milestones), work items,
and relations, and writes a portable snapshot document. Every
association in the document is by name, so it can be imported into a
team where all remote IDs differ.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		teamFlag, _ := cmd.Flags().GetString("team-id")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		teamID, err := cfg.RequireTeamID(teamFlag)
		if err != nil {
			return err
		}

		exporter := snapshot.NewExporter(client)
		exporter.Progress = progressPrinter

		doc, err := exporter.Export(rootCtx, teamID)
		if err != nil {
			return err
		}

		if out == "" {
			outputJSON(doc)
			return nil
		}
		if err := snapshot.WriteFile(doc, out, format); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Exported %d labels, %d projects, %d issues, %d relations to %s\n",
			green("✓"), len(doc.Labels), len(doc.Projects), len(doc.Issues), len(doc.Relations), out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Reconstruct a snapshot in a new or existing team",
	Long: `Recreates a snapshot's labels, then projects, then work items in
the target team, remapping every association by name. Entity-level
failures are logged and skipped; the run continues and reports them.
Relations are restored only with --with-relations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}

		opts := snapshot.DefaultOptions()
		opts.NewTeamName, _ = cmd.Flags().GetString("new-team")
		opts.ExistingTeamID, _ = cmd.Flags().GetString("team-id")
		opts.RecreateRelations, _ = cmd.Flags().GetBool("with-relations")
		opts.ProjectID, _ = cmd.Flags().GetString("project-id")
		opts.CreateImportProject, _ = cmd.Flags().GetBool("create-new-project")

		if skip, _ := cmd.Flags().GetBool("skip-labels"); skip {
			opts.IncludeLabels = false
		}
		if skip, _ := cmd.Flags().GetBool("skip-projects"); skip {
			opts.IncludeProjects = false
		}
		if skip, _ := cmd.Flags().GetBool("skip-issues"); skip {
			opts.IncludeIssues = false
		}

		doc, err := snapshot.ReadFile(file)
		if err != nil {
			return err
		}

		importer := snapshot.NewImporter(client)
		importer.Progress = progressPrinter

		report, err := importer.Import(rootCtx, doc, opts)
		if err != nil {
			return err
		}

		if jsonOutput {
			outputJSON(report)
			return nil
		}

		fmt.Printf("\n%s (team %s)\n", headerStyle.Render("Import summary"), countStyle.Render(report.TeamID))
		summaryLine("Labels:", report.Labels.Created, report.Labels.Reused, report.Labels.Failed)
		summaryLine("Projects:", report.Projects.Created, report.Projects.Reused, report.Projects.Failed)
		summaryLine("Milestones:", report.Milestones.Created, 0, report.Milestones.Failed)
		summaryLine("Issues:", report.Issues.Created, 0, report.Issues.Failed)
		if opts.RecreateRelations {
			summaryLine("Relations:", report.Relations.Created, 0, report.Relations.Failed)
		}
		if report.RelationsSkipped > 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("  %s relations skipped (%d) — rerun with --with-relations to restore them\n",
				yellow("!"), report.RelationsSkipped)
		}
		if len(report.Failures) > 0 {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("\n%s\n", red("Failures:"))
			for _, f := range report.Failures {
				fmt.Printf("  %s %q: %s\n", f.Category, f.Name, f.Reason)
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	exportCmd.Flags().String("team-id", "", "Team ID to export (default: linear.team_id from config)")
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: stdout as JSON)")
	exportCmd.Flags().String("format", "json", "Output format: json or yaml")

	importCmd.Flags().StringP("file", "f", "", "Snapshot file (required)")
	importCmd.Flags().String("new-team", "", "Create a new team with this name as the target")
	importCmd.Flags().String("team-id", "", "Import into this existing team")
	importCmd.Flags().Bool("with-relations", false, "Recreate issue relations from the snapshot")
	importCmd.Flags().Bool("skip-labels", false, "Do not recreate labels")
	importCmd.Flags().Bool("skip-projects", false, "Do not recreate projects")
	importCmd.Flags().Bool("skip-issues", false, "Do not recreate work items")
	importCmd.Flags().Bool("create-new-project", false, "Create one fresh project and put all imported items in it")
	importCmd.Flags().String("project-id", "", "Assign all imported items to this existing project")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
