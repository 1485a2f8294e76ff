package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	countStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// setupColor disables color when stdout is not a terminal or the
// environment asks for none.
func setupColor() {
	if !term.IsTerminal(int(os.Stdout.Fd())) || termenv.EnvNoColor() {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func outputJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// progressPrinter streams per-entity markers to stderr so stdout stays
// clean for JSON output.
func progressPrinter(format string, args ...interface{}) {
	if quietFlag || jsonOutput {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// summaryLine prints one "Category:  created N, failed M" summary row.
func summaryLine(category string, created, reused, failed int) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	line := fmt.Sprintf("%-12s %s created", category, green(fmt.Sprintf("%d", created)))
	if reused > 0 {
		line += fmt.Sprintf(", %d reused", reused)
	}
	if failed > 0 {
		line += fmt.Sprintf(", %s failed", red(fmt.Sprintf("%d", failed)))
	}
	fmt.Println("  " + line)
}
