package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/tree"
	"github.com/braidtask/braid/internal/ui"
)

var (
	addPriority    string
	addParent      string
	addInteractive bool
)

var addCmd = &cobra.Command{
	Use:     "add [text]",
	Short:   "Add a new task",
	GroupID: "tasks",
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if addInteractive {
			runAddForm()
			return
		}

		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			FatalErrorWithHint("task text is required",
				`braid add "Buy milk" (or braid add -i for a form)`)
		}

		priority, err := task.ParsePriority(addPriority)
		if err != nil {
			FatalError("%v", err)
		}

		if addParent != "" {
			parentID, err := resolveTaskID(addParent)
			if err != nil {
				FatalError("%v", err)
			}
			createSubtask(parentID, text, priority, cmd.Flags().Changed("priority"))
			return
		}

		created, err := taskStore.Add(text, priority, false)
		if err != nil {
			FatalError("%v", err)
		}
		printCreatedTask(created)
	},
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority (low, medium, high)")
	addCmd.Flags().StringVar(&addParent, "parent", "", "Attach as a subtask of this task id")
	addCmd.Flags().BoolVarP(&addInteractive, "interactive", "i", false, "Create the task through a form")
	rootCmd.AddCommand(addCmd)
}

// createSubtask adds a child under parentID. Children default to medium
// priority, so an explicit -p needs a second call to stick.
func createSubtask(parentID, text string, priority task.Priority, priorityChanged bool) {
	child, err := taskStore.AddSubtask(parentID, text)
	if err != nil {
		FatalError("%v", err)
	}
	if child == nil {
		FatalError("task %s not found", parentID)
	}
	if priorityChanged && child.Priority != priority {
		if err := taskStore.SetPriority(child.ID, priority); err != nil {
			FatalError("%v", err)
		}
		child.Priority = priority
	}
	printCreatedTask(child)
}

func printCreatedTask(t *task.Task) {
	if jsonOutput {
		outputJSON(t)
		return
	}
	successf("Created task: %s", t.ID)
	fmt.Printf("  Text: %s\n", t.Text)
	fmt.Printf("  Priority: %s\n", t.Priority)
	if t.ParentID != "" {
		fmt.Printf("  Parent: %s\n", t.ParentID)
	}
}

// runAddForm collects the task interactively. Only top-level tasks are
// offered as parents because subtasks cannot nest further.
func runAddForm() {
	var (
		text        string
		priorityStr = "medium"
		parentID    string
		confirmed   = true
	)

	parentOptions := []huh.Option[string]{huh.NewOption("None (top-level task)", "")}
	for _, t := range tree.Build(taskStore.Snapshot(), task.FilterActive).Roots() {
		label := fmt.Sprintf("%s (%s)", ui.TruncateText(t.Text, 60), t.ID)
		parentOptions = append(parentOptions, huh.NewOption(label, t.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Description("What needs doing?").
				Placeholder("e.g., Book flights for the Lisbon trip").
				Value(&text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("task text is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("High", "high"),
					huh.NewOption("Medium", "medium"),
					huh.NewOption("Low", "low"),
				).
				Value(&priorityStr),

			huh.NewSelect[string]().
				Title("Parent").
				Description("Attach as a subtask of an existing task").
				Options(parentOptions...).
				Value(&parentID),

			huh.NewConfirm().
				Title("Create this task?").
				Affirmative("Create").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Task creation cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	if !confirmed {
		fmt.Fprintln(os.Stderr, "Task creation cancelled.")
		return
	}

	text = strings.TrimSpace(text)
	priority, err := task.ParsePriority(priorityStr)
	if err != nil {
		FatalError("%v", err)
	}

	if parentID != "" {
		createSubtask(parentID, text, priority, priorityStr != "medium")
		return
	}
	created, err := taskStore.Add(text, priority, false)
	if err != nil {
		FatalError("%v", err)
	}
	printCreatedTask(created)
}
