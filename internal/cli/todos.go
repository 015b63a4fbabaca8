package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoapp/internal/diag"
	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/todoapp"
	"github.com/idilsaglam/todoapp/internal/ui"
)

// withApp runs fn against a freshly fetched component and turns the errors
// it swallowed into the command error.
func withApp(cmd *cobra.Command, fn func(app *todoapp.App) error) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()
	app, _, rec, err := e.newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := fn(app); err != nil {
		return err
	}
	return recorded(rec)
}

func recorded(rec *diag.Recorder) error {
	errs := rec.Errors()
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func findItem(app *todoapp.App, id string) (model.Item, error) {
	for _, it := range app.Todos() {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, fmt.Errorf("no todo with id %q", id)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Short:   "List todos",
		Args:    exactArgs(0, "todoapp ls"),
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *todoapp.App) error {
				app.Drive(app.FetchAll())
				if app.LastError() != nil {
					return nil
				}
				printList(app.Todos())
				return nil
			})
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <description...>",
		Short: "Create a todo",
		Args:  minArgs(2, `todoapp add <name> <description...>`),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			desc := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" || desc == "" {
				return usagef("add: name and description must not be empty")
			}
			return withApp(cmd, func(app *todoapp.App) error {
				app.SetField(model.FieldName, name)
				app.SetField(model.FieldDescription, desc)
				app.Drive(app.Create())
				if app.LastError() == nil {
					ui.OK("created")
				}
				return nil
			})
		},
	}
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update the name and/or description of a todo",
		Args:  exactArgs(1, "todoapp edit <id> [--name N] [--description D]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("description")
			if name == "" && desc == "" {
				return usagef("edit: nothing to change (use --name and/or --description)")
			}
			return withApp(cmd, func(app *todoapp.App) error {
				app.Drive(app.FetchAll())
				if err := app.LastError(); err != nil {
					return nil
				}
				it, err := findItem(app, args[0])
				if err != nil {
					return err
				}
				app.BeginEdit(it)
				if name != "" {
					app.SetField(model.FieldName, name)
				}
				if desc != "" {
					app.SetField(model.FieldDescription, desc)
				}
				app.Drive(app.Save())
				if app.LastError() == nil {
					ui.OK("saved")
				}
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("description", "", "new description")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete a todo",
		Aliases: []string{"delete"},
		Args:    exactArgs(1, "todoapp rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *todoapp.App) error {
				app.Drive(app.Remove(model.Item{ID: args[0]}))
				if app.LastError() == nil {
					ui.OK("removed")
				}
				return nil
			})
		},
	}
}

func newSumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sum <number1> <number2>",
		Short: "Add two numbers on the remote",
		Args:  exactArgs(2, "todoapp sum <number1> <number2>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *todoapp.App) error {
				app.Toggle()
				app.SetField(model.FieldNumber1, args[0])
				app.SetField(model.FieldNumber2, args[1])
				app.Drive(app.ComputeSum())
				if app.LastError() == nil {
					fmt.Printf("The sum is %s\n", app.SumText())
				}
				return nil
			})
		},
	}
}

// -------------- rendering helpers --------------

func printList(items []model.Item) {
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d", t.Title.Render("Todos"), t.Accent.Render("Total"), len(items))
	lines := []string{header, ""}
	lines = append(lines, flatLines(items)...)
	lines = append(lines, "", t.Muted.Render(`Tip: add with "todoapp add <name> <description>"`))
	ui.Panel(lines)
}

func flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			t.Muted.Render(idx),
			t.Title.Render(ui.Truncate(it.Name, 40)),
			ui.Truncate(it.Description, 60),
			t.Muted.Render(it.ID)))
	}
	return out
}
