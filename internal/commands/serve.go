package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/server"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the task list over HTTP" }
func (c *ServeCmd) Usage() string     { return "todo serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsTasks() bool  { return true }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Addr
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(env.Tasks, server.WithLogger(env.logger()))
	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", addr)
	}
	if err := srv.Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
