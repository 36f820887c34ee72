package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/store"
)

const (
	prompt = "> "

	maxLineLength = 64 * 1024
)

var errLineTooLong = fmt.Errorf("input line is longer than %d bytes", maxLineLength)

type commandFunc func(ctx context.Context, args string) error

type command struct {
	usage string
	help  string
	run   commandFunc
}

// Menu is the interactive read-eval-print loop. It reads one line at a
// time and never runs two commands at once.
type Menu struct {
	service  *services.TaskService
	in       *bufio.Reader
	out      io.Writer
	commands map[string]command
	aliases  map[string]string
	// saveOnExit is cleared when the startup load failed, so the implicit
	// save on exit cannot overwrite data that could not be read.
	saveOnExit bool
	done       bool
}

func NewMenu(service *services.TaskService, in io.Reader, out io.Writer) *Menu {
	m := &Menu{
		service:    service,
		in:         bufio.NewReader(in),
		out:        out,
		saveOnExit: true,
	}
	m.register()
	return m
}

// SkipExitSave disables the implicit save on exit until an explicit save
// succeeds.
func (m *Menu) SkipExitSave() {
	m.saveOnExit = false
}

func (m *Menu) register() {
	m.commands = map[string]command{
		"add":      {usage: "add <title>", help: "create a task (prompts for details)", run: m.add},
		"list":     {usage: "list [all|pending|completed|overdue|<status>] [--sort]", help: "show tasks", run: m.list},
		"show":     {usage: "show <id>", help: "show one task in full", run: m.show},
		"toggle":   {usage: "toggle <id>", help: "flip a task between done and pending", run: m.toggle},
		"complete": {usage: "complete <id>", help: "mark a task completed", run: m.complete},
		"status":   {usage: "status <id> <status>", help: "set Pending, InProgress, Completed, Cancelled or OnHold", run: m.status},
		"priority": {usage: "priority <id> <priority>", help: "set Low, Medium, High or Urgent", run: m.priority},
		"due":      {usage: "due <id> <YYYY-MM-DD|none>", help: "set or clear the due date", run: m.due},
		"edit":     {usage: "edit <id> <title>", help: "rename a task", run: m.edit},
		"describe": {usage: "describe <id> <text>", help: "replace a task's description", run: m.describe},
		"remove":   {usage: "remove <id>", help: "delete a task", run: m.remove},
		"search":   {usage: "search <term>", help: "find tasks by title or description", run: m.search},
		"stats":    {usage: "stats", help: "summarise tasks by status and priority", run: m.stats},
		"save":     {usage: "save", help: "write tasks to storage", run: m.save},
		"help":     {usage: "help", help: "show this help", run: m.help},
		"exit":     {usage: "exit", help: "save and quit", run: m.exit},
	}
	m.aliases = map[string]string{
		"delete": "remove",
		"rm":     "remove",
		"ls":     "list",
		"done":   "complete",
		"quit":   "exit",
		"q":      "exit",
		"?":      "help",
	}
}

// Run loops until exit. End of input is treated as exit; its save error,
// if any, is returned because nothing else can report it. A failing reader
// also ends the loop, after the same save.
func (m *Menu) Run(ctx context.Context) error {
	m.printf("Task manager. Type 'help' for commands.\n")

	for !m.done {
		m.printf(prompt)
		line, err := m.readLine()
		switch {
		case errors.Is(err, errLineTooLong):
			m.printf("Input ignored: lines are limited to %d bytes.\n", maxLineLength)
			continue
		case errors.Is(err, io.EOF):
			m.printf("\n")
			return m.shutdown(ctx)
		case err != nil:
			m.printf("\n")
			return errors.Join(fmt.Errorf("read input: %w", err), m.shutdown(ctx))
		}
		m.dispatch(ctx, line)
	}
	return nil
}

func (m *Menu) dispatch(ctx context.Context, line string) {
	name, args := splitCommand(line)
	if name == "" {
		return
	}

	name = strings.ToLower(name)
	if target, ok := m.aliases[name]; ok {
		name = target
	}

	cmd, ok := m.commands[name]
	if !ok {
		m.printf("Unknown command %q. Type 'help' for a list of commands.\n", name)
		return
	}

	if err := cmd.run(ctx, args); err != nil {
		m.report(cmd, err)
	}
}

func (m *Menu) report(cmd command, err error) {
	var usage *usageError
	switch {
	case errors.As(err, &usage):
		m.printf("%s\nUsage: %s\n", usage.msg, cmd.usage)
	case errors.Is(err, apperrors.ErrTaskNotFound):
		m.printf("Task not found.\n")
	case apperrors.IsValidation(err):
		m.printf("Invalid input: %v\n", err)
	default:
		m.printf("Error: %v\n", err)
	}
}

func (m *Menu) add(ctx context.Context, args string) error {
	title := strings.TrimSpace(args)
	if title == "" {
		return usageErrorf("A title is required.")
	}

	description, err := m.ask("Description (optional): ")
	if err != nil {
		return err
	}

	in := services.CreateTaskInput{Title: title, Description: description, Priority: constants.PriorityMedium}
	answer, err := m.ask("Priority [Low/Medium/High/Urgent] (Medium): ")
	if err != nil {
		return err
	}
	if answer != "" {
		p, err := constants.ParsePriority(answer)
		if err != nil {
			return err
		}
		in.Priority = p
	}

	if answer, err = m.ask("Due date [YYYY-MM-DD] (none): "); err != nil {
		return err
	}
	if answer != "" {
		due, err := model.ParseDueDate(answer)
		if err != nil {
			return err
		}
		in.DueDate = due
	}

	task, err := m.service.CreateTask(ctx, in)
	if err != nil {
		return err
	}
	m.printf("Added task %d: %s\n", task.ID, task.Title)
	return nil
}

func (m *Menu) list(_ context.Context, args string) error {
	var q services.ListQuery
	for _, arg := range strings.Fields(args) {
		switch strings.ToLower(arg) {
		case "--sort", "-s", "sorted":
			q.SortByPriority = true
		case "all":
		case "pending", "open":
			open := false
			q.Completed = &open
		case "completed", "done":
			done := true
			q.Completed = &done
		case "overdue":
			q.OverdueOnly = true
		default:
			status, err := constants.ParseStatus(arg)
			if err != nil {
				return usageErrorf("Unknown list filter %q.", arg)
			}
			q.Status = &status
		}
	}

	m.printTasks(m.service.ListTasks(q))
	return nil
}

func (m *Menu) show(_ context.Context, args string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}

	task, err := m.service.GetTask(id)
	if err != nil {
		return err
	}

	m.printf("Task %d: %s\n", task.ID, task.Title)
	if task.Description != "" {
		m.printf("  Description: %s\n", task.Description)
	}
	m.printf("  Status:      %s\n", task.Status)
	m.printf("  Priority:    %s\n", task.Priority)
	m.printf("  Created:     %s\n", task.CreatedDate.Format("2006-01-02 15:04"))
	m.printf("  Due:         %s\n", model.FormatDueDate(task.DueDate))
	return nil
}

func (m *Menu) toggle(ctx context.Context, args string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}

	task, err := m.service.ToggleTask(ctx, id)
	if err != nil {
		return err
	}
	if task.IsCompleted() {
		m.printf("Task %d marked completed.\n", task.ID)
	} else {
		m.printf("Task %d marked pending.\n", task.ID)
	}
	return nil
}

func (m *Menu) complete(ctx context.Context, args string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}
	return m.setStatus(ctx, id, constants.StatusCompleted)
}

func (m *Menu) status(ctx context.Context, args string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	if rest == "" {
		return usageErrorf("A status is required.")
	}

	status, err := constants.ParseStatus(rest)
	if err != nil {
		return err
	}
	return m.setStatus(ctx, id, status)
}

func (m *Menu) setStatus(ctx context.Context, id int, status constants.TaskStatus) error {
	task, err := m.service.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	m.printf("Task %d is now %s.\n", task.ID, task.Status)
	return nil
}

func (m *Menu) priority(ctx context.Context, args string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	if rest == "" {
		return usageErrorf("A priority is required.")
	}

	p, err := constants.ParsePriority(rest)
	if err != nil {
		return err
	}
	task, err := m.service.UpdateTask(ctx, id, store.Patch{Priority: &p})
	if err != nil {
		return err
	}
	m.printf("Task %d priority set to %s.\n", task.ID, task.Priority)
	return nil
}

func (m *Menu) due(ctx context.Context, args string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	if rest == "" {
		return usageErrorf("A due date (or 'none') is required.")
	}

	d, err := model.ParseDueDate(rest)
	if err != nil {
		return err
	}
	task, err := m.service.UpdateTask(ctx, id, store.Patch{DueDate: &d})
	if err != nil {
		return err
	}
	m.printf("Task %d due: %s.\n", task.ID, model.FormatDueDate(task.DueDate))
	return nil
}

func (m *Menu) edit(ctx context.Context, args string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	if rest == "" {
		return usageErrorf("A new title is required.")
	}

	task, err := m.service.UpdateTask(ctx, id, store.Patch{Title: &rest})
	if err != nil {
		return err
	}
	m.printf("Task %d renamed to %q.\n", task.ID, task.Title)
	return nil
}

func (m *Menu) describe(ctx context.Context, args string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}

	task, err := m.service.UpdateTask(ctx, id, store.Patch{Description: &rest})
	if err != nil {
		return err
	}
	m.printf("Task %d description updated.\n", task.ID)
	return nil
}

func (m *Menu) remove(ctx context.Context, args string) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}

	removed, err := m.service.RemoveTask(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		m.printf("Task %d not found.\n", id)
		return nil
	}
	m.printf("Removed task %d.\n", id)
	return nil
}

func (m *Menu) search(_ context.Context, args string) error {
	term := strings.TrimSpace(args)
	if term == "" {
		return usageErrorf("A search term is required.")
	}
	m.printTasks(m.service.ListTasks(services.ListQuery{Search: term}))
	return nil
}

func (m *Menu) stats(_ context.Context, _ string) error {
	stats := m.service.Stats()

	m.printf("Total: %d, overdue: %d\n", stats.Total, stats.Overdue)
	for _, s := range constants.Statuses {
		m.printf("  %-11s %d\n", s, stats.ByStatus[s])
	}
	for i := len(constants.Priorities) - 1; i >= 0; i-- {
		p := constants.Priorities[i]
		m.printf("  %-11s %d\n", p, stats.ByPriority[p])
	}
	return nil
}

func (m *Menu) save(ctx context.Context, _ string) error {
	if err := m.service.Save(ctx); err != nil {
		return err
	}
	m.saveOnExit = true
	m.printf("Tasks saved.\n")
	return nil
}

func (m *Menu) help(_ context.Context, _ string) error {
	names := make([]string, 0, len(m.commands))
	for name := range m.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	m.printf("Commands:\n")
	for _, name := range names {
		cmd := m.commands[name]
		m.printf("  %-55s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

// exit stays in the loop when the final save fails so nothing is lost.
func (m *Menu) exit(ctx context.Context, _ string) error {
	if err := m.shutdown(ctx); err != nil {
		m.printf("Could not save tasks: %v\nStill running. Fix the problem and try 'exit' again.\n", err)
	}
	return nil
}

func (m *Menu) shutdown(ctx context.Context) error {
	if m.saveOnExit {
		if err := m.service.Save(ctx); err != nil {
			return err
		}
		m.printf("Tasks saved.\n")
	} else {
		m.printf("Skipping save: stored tasks could not be loaded. Use 'save' to overwrite them.\n")
	}

	m.done = true
	m.printf("Goodbye.\n")
	return nil
}

func (m *Menu) printTasks(tasks []model.Task) {
	if len(tasks) == 0 {
		m.printf("No tasks.\n")
		return
	}
	for _, task := range tasks {
		m.printf("%s\n", FormatTask(task))
	}
}

func FormatTask(task model.Task) string {
	marker := " "
	if task.IsCompleted() {
		marker = "x"
	}

	line := fmt.Sprintf("%3d [%s] %s (%s", task.ID, marker, task.Title, task.Priority)
	if task.Status != constants.StatusPending && task.Status != constants.StatusCompleted {
		line += ", " + string(task.Status)
	}
	if task.DueDate != nil {
		line += ", due " + model.FormatDueDate(task.DueDate)
	}
	return line + ")"
}

// ask reads one answer. End of input counts as an empty answer so the
// prompt falls back to its default; the loop notices the EOF next.
func (m *Menu) ask(question string) (string, error) {
	m.printf("%s", question)
	line, err := m.readLine()
	switch {
	case errors.Is(err, errLineTooLong):
		return "", usageErrorf("Answer ignored: lines are limited to %d bytes.", maxLineLength)
	case errors.Is(err, io.EOF):
		return "", nil
	}
	return line, err
}

// readLine returns the next line without its newline. Lines over
// maxLineLength are consumed in full and reported as errLineTooLong.
func (m *Menu) readLine() (string, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := m.in.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxLineLength {
				buf, tooLong = nil, true
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || (len(buf) == 0 && !tooLong)) {
			return "", err
		}
		break
	}

	if tooLong {
		return "", errLineTooLong
	}
	return strings.TrimSpace(string(buf)), nil
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	return name, strings.TrimSpace(rest)
}

// parseID reads the leading task id and returns the remaining text.
func parseID(args string) (int, string, error) {
	first, rest := splitCommand(args)
	if first == "" {
		return 0, "", usageErrorf("A task id is required.")
	}

	id, err := strconv.Atoi(first)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("%q: %w", first, apperrors.ErrInvalidTaskID)
	}
	return id, rest, nil
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
