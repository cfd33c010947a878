package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command. The file replaces the whole list.
type ImportCmd struct{}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Replace the task list with a JSON export" }
func (c *ImportCmd) Usage() string     { return "todo import <file>|-" }
func (c *ImportCmd) NeedsTasks() bool  { return true }
func (c *ImportCmd) NeedsAuth() bool   { return false }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: file required")
		return exitcode.UserError
	}

	var data []byte
	var err error
	if args[0] == "-" {
		if env.Stdin == nil {
			fmt.Fprintln(errOut, "error: stdin not available")
			return exitcode.UserError
		}
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	n, err := env.Tasks.ImportJSON(ctx, data)
	if err != nil {
		return taskError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "imported %d\n", n)
	}
	return exitcode.Success
}
