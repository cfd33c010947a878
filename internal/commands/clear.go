package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&ClearCmd{})
}

// ClearCmd implements the clear command.
type ClearCmd struct{}

func (c *ClearCmd) Name() string      { return "clear" }
func (c *ClearCmd) Aliases() []string { return nil }
func (c *ClearCmd) Synopsis() string  { return "Delete all completed tasks" }
func (c *ClearCmd) Usage() string     { return "todo clear" }
func (c *ClearCmd) NeedsTasks() bool  { return true }
func (c *ClearCmd) NeedsAuth() bool   { return false }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	removed, err := env.Tasks.ClearCompleted(ctx)
	if err != nil {
		return taskError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "removed %d\n", removed)
	}
	return exitcode.Success
}
