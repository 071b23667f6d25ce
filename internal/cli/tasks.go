// tasks.go implements the "caremate tasks" command family.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/tasks"
)

var (
	taskDescription string
	taskDueTime     string
	taskType        string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage care tasks",
	RunE:  runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksAdd,
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksRm,
}

var tasksUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show tasks due soon",
	RunE:  runTasksUpcoming,
}

func init() {
	tasksAddCmd.Flags().StringVar(&taskDescription, "description", "", "Task description")
	tasksAddCmd.Flags().StringVar(&taskDueTime, "due", "", "Due time (ISO-8601)")
	tasksAddCmd.Flags().StringVar(&taskType, "type", "general", "Task type (medication, appointment, general, ...)")

	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRmCmd)
	tasksCmd.AddCommand(tasksUpcomingCmd)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Tasks"); err != nil {
		return err
	}

	list, err := app.Tasks.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Tasks.LastError())
	}

	printTasks(list)
	return nil
}

func runTasksUpcoming(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Tasks"); err != nil {
		return err
	}

	list, err := app.Tasks.Upcoming(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Tasks.LastError())
	}

	printTasks(list)
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Tasks"); err != nil {
		return err
	}

	created, err := app.Tasks.Create(cmd.Context(), tasks.CreateRequest{
		Title:       args[0],
		Description: taskDescription,
		DueTime:     taskDueTime,
		TaskType:    taskType,
	})
	if err != nil {
		return fmt.Errorf("%s", app.Tasks.LastError())
	}

	fmt.Printf("Created task %s: %s\n", created.ID, created.Title)
	return nil
}

func runTasksDone(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Tasks"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	done := true
	updated, err := app.Tasks.Update(cmd.Context(), id, tasks.UpdateRequest{IsCompleted: &done})
	if err != nil {
		return fmt.Errorf("%s", app.Tasks.LastError())
	}

	fmt.Printf("Completed task %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runTasksRm(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Tasks"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := app.Tasks.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("%s", app.Tasks.LastError())
	}

	fmt.Printf("Deleted task %s\n", id)
	return nil
}

func printTasks(list []tasks.Task) {
	if len(list) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range list {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Printf("  [%s] %-5s  %-12s  %s", mark, t.ID, t.TaskType, t.Title)
		if t.DueTime != "" {
			fmt.Printf("  (due %s)", t.DueTime)
		}
		fmt.Println()
	}
}

// parseID converts a command-line identifier argument.
func parseID(arg string) (api.ID, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return api.ID(n), nil
}
