package commands_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/logger"
)

// runWithFlags parses args with the command's own flags before running it.
func runWithFlags(t *testing.T, cmd commands.Command, env *commands.Env, args []string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if env.Log == nil {
		env.Log = logger.Discard()
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	code = cmd.Run(context.Background(), cfg, env, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}
