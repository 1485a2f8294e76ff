// Command lw manages a Linear team's dependency graph: bulk creation of
// blocked work items, readiness queries, and team snapshot export/import.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linweave/linweave/internal/config"
	"github.com/linweave/linweave/internal/debug"
	"github.com/linweave/linweave/internal/linear"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	rootCtx    context.Context
	rootCancel context.CancelFunc

	cfg    *config.Config
	client *linear.Client

	configFile  string
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "lw",
	Short: "lw - dependency-aware Linear team automation",
	Long: `lw drives a Linear team's work-item graph: it creates batches of
issues wired together with blocking relations, answers which items are
ready to start, and exports a team's full graph to a portable snapshot
that can be reconstructed in another team.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("lw version %s\n", Version)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		setupColor()

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		client = cfg.Client()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: .linweave/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.Flags().Bool("version", false, "Show version")
}

// requireClient fails fast when the API key is missing. Run-level errors
// like this abort before any remote work starts.
func requireClient() error {
	return cfg.RequireAPIKey()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
