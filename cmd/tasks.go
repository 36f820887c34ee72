package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/console"
	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

var (
	addDescription string
	addPriority    string
	addDue         string

	listStatus    string
	listPriority  string
	listSearch    string
	listSort      bool
	listCompleted bool
	listPending   bool
	listOverdue   bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := services.CreateTaskInput{
			Title:       strings.Join(args, " "),
			Description: addDescription,
		}

		priority, err := constants.ParsePriority(addPriority)
		if err != nil {
			return err
		}
		in.Priority = priority

		if in.DueDate, err = model.ParseDueDate(addDue); err != nil {
			return err
		}

		return withTasks(cmd, func(a *app) error {
			task, err := a.service.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", task.ID, task.Title)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := services.ListQuery{
			Search:         listSearch,
			SortByPriority: listSort,
			OverdueOnly:    listOverdue,
		}
		switch {
		case listCompleted && listPending:
			return fmt.Errorf("--completed and --pending are mutually exclusive")
		case listCompleted, listPending:
			completed := listCompleted
			q.Completed = &completed
		}
		if listStatus != "" {
			status, err := constants.ParseStatus(listStatus)
			if err != nil {
				return err
			}
			q.Status = &status
		}
		if listPriority != "" {
			priority, err := constants.ParsePriority(listPriority)
			if err != nil {
				return err
			}
			q.Priority = &priority
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tasks := a.service.ListTasks(q)
		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks.")
			return nil
		}
		for _, task := range tasks {
			fmt.Fprintln(out, console.FormatTask(task))
		}
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between completed and pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		return withTasks(cmd, func(a *app) error {
			task, err := a.service.ToggleTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s.\n", task.ID, task.Status)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a task's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		status, err := constants.ParseStatus(args[1])
		if err != nil {
			return err
		}

		return withTasks(cmd, func(a *app) error {
			task, err := a.service.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s.\n", task.ID, task.Status)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"delete", "rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		return withTasks(cmd, func(a *app) error {
			removed, err := a.service.RemoveTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d not found.\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %d.\n", id)
			return nil
		})
	},
}

// loadApp builds the app and loads the stored tasks. One-shot commands do
// not fall back to an empty list: a load failure aborts the command.
func loadApp(cmd *cobra.Command) (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if err := a.service.Load(cmd.Context()); err != nil {
		a.Close()
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return a, nil
}

// withTasks runs fn against the loaded tasks and saves afterwards.
func withTasks(cmd *cobra.Command, fn func(*app) error) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(a); err != nil {
		return err
	}
	return a.service.Save(cmd.Context())
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", s, apperrors.ErrInvalidTaskID)
	}
	return id, nil
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(constants.PriorityMedium), "Low, Medium, High or Urgent")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date, YYYY-MM-DD or RFC 3339")

	listCmd.Flags().StringVar(&listStatus, "status", "", "only tasks with this status")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "only tasks with this priority")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive search in title and description")
	listCmd.Flags().BoolVar(&listSort, "sort", false, "sort by priority, then due date")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed tasks")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "only unfinished tasks")
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "only overdue tasks")

	rootCmd.AddCommand(addCmd, listCmd, toggleCmd, statusCmd, removeCmd)
}
