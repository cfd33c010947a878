package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd implements the tui command.
type TuiCmd struct{}

func (c *TuiCmd) Name() string      { return "tui" }
func (c *TuiCmd) Aliases() []string { return nil }
func (c *TuiCmd) Synopsis() string  { return "Open the interactive task list" }
func (c *TuiCmd) Usage() string     { return "todo tui" }
func (c *TuiCmd) NeedsTasks() bool  { return true }
func (c *TuiCmd) NeedsAuth() bool   { return false }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	in := env.Stdin
	if in == nil {
		in = os.Stdin
	}
	if err := tui.Run(ctx, env.Tasks, in, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
