package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text" }
func (c *EditCmd) Usage() string     { return "todo edit <ref> <text...>" }
func (c *EditCmd) NeedsTasks() bool  { return true }
func (c *EditCmd) NeedsAuth() bool   { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	t, found := resolveRef(env, args, errOut)
	if !found {
		return exitcode.UserError
	}

	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	if _, err := env.Tasks.Update(ctx, t.ID, text); err != nil {
		return taskError(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
