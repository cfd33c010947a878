package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips the completed flag, so
// running it twice reopens the task.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completed state" }
func (c *DoneCmd) Usage() string     { return "todo done <ref>" }
func (c *DoneCmd) NeedsTasks() bool  { return true }
func (c *DoneCmd) NeedsAuth() bool   { return false }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	t, found := resolveRef(env, args, errOut)
	if !found {
		return exitcode.UserError
	}

	// Toggle only schedules the write; the dispatcher flushes it on Close.
	if _, err := env.Tasks.Toggle(ctx, t.ID); err != nil {
		return taskError(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
