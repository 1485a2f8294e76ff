package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linweave/linweave/internal/bulk"
	"github.com/linweave/linweave/internal/types"
)

// batchFile is the on-disk shape of a bulk-creation batch.
type batchFile struct {
	Items []types.WorkItemSpec `json:"items" yaml:"items"`
}

// readBatchFile loads a batch of work item specs from a YAML or JSON
// file, chosen by extension.
func readBatchFile(path string) ([]types.WorkItemSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var batch batchFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &batch)
	default:
		err = json.Unmarshal(data, &batch)
	}
	if err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	if len(batch.Items) == 0 {
		return nil, fmt.Errorf("batch file %s contains no items", path)
	}
	return batch.Items, nil
}

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Create a batch of work items with blocking relations",
	Long: `Creates every item in the batch file in order, then wires the
blocking relations between them. Items reference their blockers by
position in the batch (blocked_by indices). A failed item is skipped and
the batch continues; relations touching it are dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		teamFlag, _ := cmd.Flags().GetString("team-id")
		if file == "" {
			return fmt.Errorf("--file is required")
		}

		teamID, err := cfg.RequireTeamID(teamFlag)
		if err != nil {
			return err
		}
		specs, err := readBatchFile(file)
		if err != nil {
			return err
		}

		creator := bulk.NewCreator(client, teamID)
		creator.Progress = progressPrinter

		result, err := creator.Run(rootCtx, specs)
		if err != nil {
			return err
		}

		if jsonOutput {
			outputJSON(result)
			return nil
		}

		fmt.Printf("\n%s\n", headerStyle.Render("Batch summary"))
		summaryLine("Items:", len(result.Created), 0, len(result.Failures))
		summaryLine("Relations:", result.EdgesCreated, 0, len(result.EdgeFailures))
		if result.EdgesSkipped > 0 {
			fmt.Printf("  %-12s %d skipped (endpoint not created)\n", "", result.EdgesSkipped)
		}
		if len(result.Failures) > 0 {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("\n%s\n", red("Failed items:"))
			for _, f := range result.Failures {
				fmt.Printf("  [%d] %s: %s\n", f.LocalIndex, f.Title, f.Reason)
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	bulkCmd.Flags().StringP("file", "f", "", "Batch file (YAML or JSON, required)")
	bulkCmd.Flags().String("team-id", "", "Team ID (default: linear.team_id from config)")
	rootCmd.AddCommand(bulkCmd)
}
