package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&PushCmd{})
}

// PushCmd implements the push command: every local task is created in a
// Google Tasks list.
type PushCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *PushCmd) SetListName(name string) {
	c.listName = name
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Copy tasks to Google Tasks" }
func (c *PushCmd) Usage() string     { return "todo push [--list <list-name>]" }
func (c *PushCmd) NeedsTasks() bool  { return true }
func (c *PushCmd) NeedsAuth() bool   { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	svc := env.Remote
	var list service.TaskList
	var err error
	if c.listName != "" {
		list, err = svc.ResolveList(ctx, c.listName)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				fmt.Fprintf(errOut, "error: list not found: %s\n", c.listName)
				return exitcode.UserError
			}
			if strings.Contains(err.Error(), "ambiguous") {
				fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", c.listName)
				return exitcode.UserError
			}
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	} else {
		list, err = svc.DefaultList(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	}

	// Google Tasks puts new tasks on top, so oldest goes first to keep the
	// local order.
	tasks := env.Tasks.Tasks()
	pushed := 0
	for i := len(tasks) - 1; i >= 0; i-- {
		t := tasks[i]
		status := service.StatusNeedsAction
		if t.Completed {
			status = service.StatusCompleted
		}
		if err := svc.CreateTask(ctx, list.ID, service.Task{Title: t.Text, Status: status}); err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v (pushed %d of %d)\n", err, pushed, len(tasks))
			return exitcode.BackendError
		}
		pushed++
	}
	env.logger().Debug("tasks pushed", "list", list.Title, "count", pushed)

	if !cfg.Quiet {
		fmt.Fprintf(out, "pushed %d\n", pushed)
	}
	return exitcode.Success
}
