package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/console"
	apperrors "task-manager.com/task-manager/internal/errors"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive task shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	menu := console.NewMenu(a.service, cmd.InOrStdin(), out)

	if err := a.service.Load(ctx); err != nil {
		if !errors.Is(err, apperrors.ErrMalformedData) {
			return fmt.Errorf("load tasks: %w", err)
		}
		fmt.Fprintf(out, "Warning: %v\nStarting with an empty list. Stored data is left alone until you run 'save'.\n", err)
		menu.SkipExitSave()
	}

	return menu.Run(ctx)
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
