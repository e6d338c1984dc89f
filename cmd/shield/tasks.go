package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/azan1ud/landlordshield/internal/cli"
	"github.com/azan1ud/landlordshield/internal/importer"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage compliance checklist tasks",
		Long: `Manage checklist tasks. Tasks without --property are account-wide and count
towards every property's readiness score.`,
	}

	cmd.AddCommand(tasksAddCmd())
	cmd.AddCommand(tasksListCmd())
	cmd.AddCommand(taskCompletionCmd("complete", "Mark a task as done", true))
	cmd.AddCommand(taskCompletionCmd("reopen", "Mark a task as outstanding again", false))

	return cmd
}

func tasksAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a checklist task",
		Example: `  shield tasks add --domain energy --property 3f2a... \
    --title "Commission EPC upgrade survey" --priority high --due 2027-06-30`,
		RunE: runTasksAdd,
	}

	cmd.Flags().String("property", "", "property id (empty for an account-wide task)")
	cmd.Flags().String("domain", "", "domain: tax, tenancy-rights or energy")
	cmd.Flags().String("key", "", "stable task key (default: derived from the title)")
	cmd.Flags().String("title", "", "task title")
	cmd.Flags().String("description", "", "task description")
	cmd.Flags().String("priority", string(model.PriorityMedium), "priority: critical, high, medium or low")
	cmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runTasksAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	propertyID, _ := flags.GetString("property")
	domain, _ := flags.GetString("domain")
	key, _ := flags.GetString("key")
	title, _ := flags.GetString("title")
	description, _ := flags.GetString("description")
	priority, _ := flags.GetString("priority")
	dueRaw, _ := flags.GetString("due")

	due, err := parseDateFlag("due", dueRaw)
	if err != nil {
		return err
	}
	if key == "" {
		key = importer.Slug(title)
	}

	settings, store, _, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if propertyID != "" {
		if _, err := store.GetProperty(ctx, propertyID); err != nil {
			return err
		}
	}

	task := &model.Task{
		OwnerID:     settings.OwnerID,
		PropertyID:  optionalString(propertyID),
		Domain:      model.ParseDomain(domain),
		Key:         key,
		Title:       title,
		Description: description,
		Priority:    model.ParsePriority(priority),
		DueDate:     due,
		CreatedAt:   settings.Clock().UTC(),
	}
	if err := task.Validate(); err != nil {
		return err
	}
	if err := store.CreateTask(ctx, task); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Added task %s (%s)\n",
		cli.SuccessStyle.Render(cli.SuccessIcon),
		task.Title,
		cli.InfoStyle.Render(task.ID))
	return nil
}

func tasksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List checklist tasks",
		RunE:  runTasksList,
	}

	cmd.Flags().String("property", "", "only tasks for this property (account-wide tasks included)")
	cmd.Flags().String("domain", "", "only tasks in this domain")
	cmd.Flags().Bool("outstanding", false, "only tasks that are not done")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runTasksList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	propertyID, _ := flags.GetString("property")
	domain, _ := flags.GetString("domain")
	outstanding, _ := flags.GetBool("outstanding")
	asJSON, _ := flags.GetBool("json")

	settings, store, _, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	filter := service.TaskFilter{
		OwnerID:            settings.OwnerID,
		PropertyID:         optionalString(propertyID),
		IncludeAccountWide: true,
		OutstandingOnly:    outstanding,
	}
	if domain != "" {
		filter.Domain = model.ParseDomain(domain)
	}

	tasks, err := store.ListTasks(ctx, filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No tasks found. Run 'shield seed' to load the default checklist."))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tPRIORITY\tDUE\tSCOPE\tTITLE\tDONE")
	for _, t := range tasks {
		scope := "account"
		if t.PropertyID != nil {
			scope = *t.PropertyID
		}
		done := ""
		if t.IsCompleted {
			done = cli.SuccessStyle.Render(cli.SuccessIcon)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Domain, t.Priority, formatDate(t.DueDate), scope, t.Title, done)
	}
	return w.Flush()
}

func taskCompletionCmd(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, store, _, cleanup, err := openEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.SetTaskCompletion(ctx, args[0], completed, settings.Clock()); err != nil {
				return err
			}

			state := "outstanding"
			if completed {
				state = "done"
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Task %s marked %s", args[0], state)))
			return nil
		},
	}
}
