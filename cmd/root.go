package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataFile    string
	storageKind string
)

var rootCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Single-user task manager",
	Long: `Keeps a list of tasks with priorities, statuses and due dates.

Run without a subcommand to open the interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "", "JSON data file (overrides TASKS_FILE)")
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", "", "storage backend: json, sqlite or redis (overrides TASKS_STORAGE)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
