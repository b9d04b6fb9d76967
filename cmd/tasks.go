package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskclaw/internal/task"
	"github.com/nibzard/taskclaw/internal/utils"
)

func (a *app) newAddCmd() *cobra.Command {
	var (
		tags    []string
		project string
		due     string
	)
	cmd := &cobra.Command{
		Use:     "add <text...>",
		Aliases: []string{"a"},
		Short:   "Add a new task",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return userError("task title cannot be empty")
			}

			var opts []task.AddOption
			if t := utils.UniqueTags(tags); len(t) > 0 {
				opts = append(opts, task.WithTags(t...))
			}
			if p := strings.TrimSpace(project); p != "" {
				opts = append(opts, task.WithProject(p))
			}
			if due != "" {
				when, err := parseDue(due)
				if err != nil {
					return err
				}
				opts = append(opts, task.WithDue(when))
			}

			store, _, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			added, err := store.Add(title, opts...)
			if err != nil {
				a.warnPersist("save task", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task [%d]: %s\n", added.ID, added.Title)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag the task (repeatable or comma-separated)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project the task belongs to")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")
	return cmd
}

// parseDue accepts a calendar date, taken as midnight UTC, or an RFC 3339
// timestamp.
func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, userError("invalid due date %q (want YYYY-MM-DD or RFC 3339)", s)
}

func (a *app) newListCmd() *cobra.Command {
	var (
		amount  int
		all     bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limited := cmd.Flags().Changed("amount")
			if limited && amount < 0 {
				return userError("--amount must not be negative, got %d", amount)
			}
			store, _, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			showCompleted := all || a.cws.Config.ShowCompleted
			var tasks []task.Task
			for _, t := range store.Tasks() {
				if t.Completed && !showCompleted {
					continue
				}
				tasks = append(tasks, t)
			}
			if limited && len(tasks) > amount {
				tasks = tasks[:amount]
			}

			printTaskList(cmd.OutOrStdout(), tasks, verbose)
			return nil
		},
	}
	cmd.Flags().IntVarP(&amount, "amount", "n", 0, "Show at most N tasks")
	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks even when show_completed is off")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show uuid, project, tags and due date")
	return cmd
}

func printTaskList(w io.Writer, tasks []task.Task, verbose bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	fmt.Fprintln(w, "Tasks:")
	for _, t := range tasks {
		printTask(w, t, verbose)
	}
}

func printTask(w io.Writer, t task.Task, verbose bool) {
	fmt.Fprintf(w, "  %s\n", t.String())
	if !verbose {
		return
	}
	fmt.Fprintf(w, "      uuid: %s\n", t.UUID)
	if t.Project != "" {
		fmt.Fprintf(w, "      project: %s\n", t.Project)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "      tags: %s\n", strings.Join(t.Tags, ", "))
	}
	if t.Due != nil {
		fmt.Fprintf(w, "      due: %s\n", formatDue(*t.Due))
	}
}

func formatDue(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func (a *app) newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "complete <id|uuid>",
		Aliases: []string{"done"},
		Short:   "Mark a task as complete",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := task.ParseRef(args[0])
			if err != nil {
				return userError("%v", err)
			}
			store, _, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			if _, found := store.Get(ref); !found {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s not found\n", ref)
				return nil
			}
			if _, err := store.Complete(ref); err != nil {
				a.warnPersist("save task", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", ref)
			return nil
		},
	}
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|uuid>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := task.ParseRef(args[0])
			if err != nil {
				return userError("%v", err)
			}
			store, _, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			if _, found := store.Get(ref); !found {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s not found\n", ref)
				return nil
			}
			if _, err := store.Remove(ref); err != nil {
				a.warnPersist("delete task", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", ref)
			return nil
		},
	}
}
