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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsTasks() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                       List all tasks
  todo list|ls [common flags] [--ids]        List tasks, optionally with ids
  todo add|create [common flags] <text...>   Add a task to the top of the list
  todo edit [common flags] <ref> <text...>   Change a task's text
  todo done|toggle [common flags] <ref>      Toggle a task's completed state
  todo rm [common flags] <ref>               Delete a task
  todo clear [common flags]                  Delete all completed tasks
  todo export [common flags] [--format json|pdf] [--out <path>|-]
  todo import [common flags] <file>|-        Replace the list with a JSON export
  todo tui [common flags]                    Interactive task list
  todo serve [common flags] [--addr <host:port>]
  todo push [common flags] [--list <list-name>]
  todo login [common flags]
  todo logout [common flags]
  todo help
  todo version

<ref> is a position as printed by list, or a task id or unique id prefix.
Use id:<id> for an exact id, such as an imported numeric id.

Common flags:
  --config <dir>   Override config directory
  --store <url>    Override the task store (file://, memory:, redis://, postgres://, mysql://)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
