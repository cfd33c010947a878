// Package cli parses the command line and runs commands with the resources
// they declare.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/kv"
	"todo/internal/logger"
	"todo/internal/metrics"
	"todo/internal/service"
	"todo/internal/task"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// StoreFactory opens the key-value store the task list lives in.
type StoreFactory func(ctx context.Context, cfg *config.Config) (kv.Store, error)

// OpenStore opens the store named by cfg.Store, defaulting to the store file
// in the config directory.
func OpenStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	return kv.Open(ctx, cfg.Store, cfg.StorePath())
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	services ServiceFactory
	stores   StoreFactory

	// Stdin is handed to commands that read input. Defaults to os.Stdin.
	Stdin io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// A nil stores factory uses OpenStore.
func NewDispatcher(registry *commands.Registry, services ServiceFactory, stores StoreFactory) *Dispatcher {
	if stores == nil {
		stores = OpenStore
	}
	return &Dispatcher{
		registry: registry,
		services: services,
		stores:   stores,
		Stdin:    os.Stdin,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		if s := d.registry.Suggest(cmdName); s != "" {
			fmt.Fprintf(errOut, "did you mean: %s\n", s)
		}
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir, store string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&store, "store", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = cfg.Debug || debug
	if store != "" {
		cfg.Store = store
	}

	log := logger.Init(errOut, cfg.EffectiveLogLevel(), cfg.LogJSON())
	env := &commands.Env{Log: log, Stdin: d.Stdin}

	// Check auth requirements
	if cmd.NeedsAuth() {
		if code := d.connect(ctx, cfg, env, errOut); code != exitcode.Success {
			return code
		}
	}

	if !cmd.NeedsTasks() {
		return cmd.Run(ctx, cfg, env, positionalArgs, out, errOut)
	}

	kvStore, err := d.stores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}
	defer kvStore.Close()

	env.Tasks = task.NewManager(metrics.InstrumentStore(kvStore),
		task.WithKey(cfg.StorageKey),
		task.WithDebounce(cfg.Debounce),
		task.WithLogger(log),
	)
	if err := env.Tasks.Load(ctx); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}

	code := cmd.Run(ctx, cfg, env, positionalArgs, out, errOut)

	// A toggle only schedules its write; make sure it lands before exit.
	if err := env.Tasks.Close(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		if code == exitcode.Success {
			code = exitcode.StoreError
		}
	}
	return code
}

// connect builds the remote service, or reports why it cannot.
func (d *Dispatcher) connect(ctx context.Context, cfg *config.Config, env *commands.Env, errOut io.Writer) int {
	if !cfg.HasOAuthClient() && d.services == nil {
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
		return exitcode.AuthError
	}
	if d.services == nil {
		fmt.Fprintln(errOut, "error: no remote backend configured")
		return exitcode.BackendError
	}

	svc, err := d.services(ctx, cfg)
	if err != nil {
		// Check if it's an auth error
		if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
	env.Remote = svc
	return exitcode.Success
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Missing flag value: "flag needs an argument: -out"
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
