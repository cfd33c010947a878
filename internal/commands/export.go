package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/export"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	out    string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write the task list as JSON or PDF" }
func (c *ExportCmd) Usage() string     { return "todo export [--format json|pdf] [--out <path>|-]" }
func (c *ExportCmd) NeedsTasks() bool  { return true }
func (c *ExportCmd) NeedsAuth() bool   { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "json", "")
	fs.StringVar(&c.out, "out", "-", "")
	fs.StringVar(&c.out, "o", "-", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format, err := export.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.out == "" || c.out == "-" {
		if err := export.Write(out, env.Tasks, format, time.Now()); err != nil {
			fmt.Fprintf(errOut, "error: export failed: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	f, err := os.Create(c.out)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := export.Write(f, env.Tasks, format, time.Now()); err != nil {
		f.Close()
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.UserError
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	env.logger().Debug("tasks exported", "path", c.out, "format", format)

	ok(cfg, out)
	return exitcode.Success
}
