// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logger"
	"todo/internal/service"
	"todo/internal/task"
)

// Env carries the resources the dispatcher prepared for a command.
type Env struct {
	// Tasks is the loaded task list. Nil if NeedsTasks() returns false.
	Tasks *task.Manager

	// Remote is the remote backend. Nil if NeedsAuth() returns false.
	Remote service.Service

	// Log is the process logger.
	Log *slog.Logger

	// Stdin is read by commands that accept "-" as a file name.
	Stdin io.Reader
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Log == nil {
		return logger.Get()
	}
	return e.Log
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsTasks returns true if the command reads or changes the task list.
	NeedsTasks() bool

	// NeedsAuth returns true if the command requires authentication.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int
}

// ok prints the success acknowledgement unless quiet.
func ok(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		io.WriteString(out, "ok\n")
	}
}

// taskError prints err and returns the exit code for a failed task list
// operation. Anything that is not a user mistake came from the store.
func taskError(errOut io.Writer, err error) int {
	var parseErr *task.ParseError
	switch {
	case errors.As(err, &parseErr):
		fmt.Fprintf(errOut, "error: %v\n", parseErr)
		return exitcode.UserError
	case errors.Is(err, task.ErrEmptyText):
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	case errors.Is(err, task.ErrNotFound):
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}
}

// resolveRef parses args[0] as a task reference against the current list.
func resolveRef(env *Env, args []string, errOut io.Writer) (task.Task, bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return task.Task{}, false
	}
	t, err := ref.Resolve(env.Tasks.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return task.Task{}, false
	}
	return t, true
}
