package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/kv"
	"todo/internal/service"
	"todo/internal/task"
	"todo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// memoryStores hands every dispatch the same in-memory store, so state
// carries over between Run calls like a file would.
func memoryStores(store kv.Store) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config) (kv.Store, error) {
		return nopCloser{store}, nil
	}
}

type nopCloser struct{ kv.Store }

func (nopCloser) Close() error { return nil }

type harness struct {
	t     *testing.T
	d     *cli.Dispatcher
	dir   string
	store *kv.Memory
	svc   *testutil.FakeService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"TODO_STORE", "TODO_STORAGE_KEY", "TODO_DEBOUNCE", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	h := &harness{
		t:     t,
		dir:   t.TempDir(),
		store: kv.NewMemory(),
		svc:   testutil.NewFakeService(),
	}
	h.d = cli.NewDispatcher(commands.DefaultRegistry, testFactory(h.svc), memoryStores(h.store))
	return h
}

// run dispatches args with the harness config dir.
func (h *harness) run(args ...string) (stdout, stderr string, code int) {
	h.t.Helper()
	if len(args) > 0 {
		args = append([]string{args[0], "--config", h.dir}, args[1:]...)
	}
	var out, errOut bytes.Buffer
	code = h.d.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run("unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_UnknownCommandSuggests(t *testing.T) {
	h := newHarness(t)

	_, stderr, _ := h.run("lsit")

	expected := "error: unknown command: lsit\ndid you mean: list\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	h := newHarness(t)

	var stdout, stderr bytes.Buffer
	code := h.d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, code := h.run("help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	h := newHarness(t)

	stdout, _, code := h.run("version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run("help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run("export", "--format")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -format\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	h := newHarness(t)

	var stdout, stderr bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", h.dir)
	code := h.d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "no tasks found\n" {
		t.Errorf("expected empty list, got %q", stdout.String())
	}
}

func TestDispatcher_Session(t *testing.T) {
	h := newHarness(t)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"add", "Buy", "milk"}, "ok\n"},
		{[]string{"create", "Buy eggs"}, "ok\n"},
		{[]string{"done", "2"}, "ok\n"},
		{[]string{"ls"}, "   1  [ ] Buy eggs\n   2  [x] Buy milk\n------------\n1 open task\n"},
		{[]string{"edit", "1", "Buy", "bread"}, "ok\n"},
		{[]string{"clear"}, "removed 1\n"},
		{[]string{"list"}, "   1  [ ] Buy bread\n------------\n1 open task\n"},
	}
	for _, s := range steps {
		stdout, stderr, code := h.run(s.args...)
		if code != exitcode.Success {
			t.Fatalf("%v: exit %d, stderr %q", s.args, code, stderr)
		}
		if stdout != s.want {
			t.Errorf("%v: expected %q, got %q", s.args, s.want, stdout)
		}
	}

	data, err := h.store.Get(context.Background(), task.DefaultStorageKey)
	if err != nil {
		t.Fatalf("store not written: %v", err)
	}
	var stored []task.Task
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Text != "Buy bread" {
		t.Errorf("unexpected stored tasks %+v", stored)
	}
}

func TestDispatcher_ToggleIsFlushedOnExit(t *testing.T) {
	h := newHarness(t)
	os.WriteFile(filepath.Join(h.dir, "config.yaml"), []byte("debounce: 1h\n"), 0600)

	h.run("add", "Buy milk")
	writes := h.store.Writes()

	if _, stderr, code := h.run("toggle", "1"); code != exitcode.Success {
		t.Fatalf("toggle failed: %q", stderr)
	}
	if h.store.Writes() != writes+1 {
		t.Errorf("expected the pending toggle write on exit, got %d writes", h.store.Writes()-writes)
	}

	stdout, _, _ := h.run("list")
	if !strings.Contains(stdout, "[x] Buy milk") {
		t.Errorf("toggle not persisted: %q", stdout)
	}
}

func TestDispatcher_StorageKeyFromEnv(t *testing.T) {
	h := newHarness(t)
	t.Setenv("TODO_STORAGE_KEY", "custom-key")

	h.run("add", "Buy milk")

	if _, err := h.store.Get(context.Background(), "custom-key"); err != nil {
		t.Errorf("expected tasks under custom-key: %v", err)
	}
	if _, err := h.store.Get(context.Background(), task.DefaultStorageKey); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("default key should be untouched, got %v", err)
	}
}

func TestDispatcher_StoreOpenError(t *testing.T) {
	h := newHarness(t)
	h.d = cli.NewDispatcher(commands.DefaultRegistry, testFactory(h.svc),
		func(ctx context.Context, cfg *config.Config) (kv.Store, error) {
			return nil, errors.New("connection refused")
		})

	_, stderr, code := h.run("list")

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if stderr != "error: store error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_StoreWriteError(t *testing.T) {
	h := newHarness(t)
	h.store.SetErr = errors.New("read-only")

	_, stderr, code := h.run("add", "Buy milk")

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if !strings.Contains(stderr, "read-only") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_StoreFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TODO_STORE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "elsewhere.json")
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), []string{"add", "--config", dir, "--store", "file://" + path, "Buy milk"}, &out, &errOut)
	if code != exitcode.Success {
		t.Fatalf("exit %d: %q", code, errOut.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected store at %s: %v", path, err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.StoreFile)); !os.IsNotExist(err) {
		t.Errorf("default store file should not exist")
	}
}

func TestDispatcher_UnsupportedStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), []string{"list", "--config", t.TempDir(), "--store", "ftp://host/x"}, &out, &errOut)

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if errOut.String() != "error: store error: unsupported store: ftp\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestDispatcher_PushUsesFactory(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Buy milk")

	stdout, stderr, code := h.run("push")

	if code != exitcode.Success {
		t.Fatalf("exit %d: %q", code, stderr)
	}
	if stdout != "pushed 1\n" {
		t.Errorf("expected 'pushed 1\\n', got %q", stdout)
	}
	if got := h.svc.Tasks(testutil.DefaultListID); len(got) != 1 {
		t.Errorf("expected 1 remote task, got %d", len(got))
	}
}

func TestDispatcher_PushAuthError(t *testing.T) {
	h := newHarness(t)
	h.d = cli.NewDispatcher(commands.DefaultRegistry,
		func(ctx context.Context, cfg *config.Config) (service.Service, error) {
			return nil, errors.New("missing token (run: todo login)")
		}, memoryStores(h.store))

	_, stderr, code := h.run("push")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_PushWithoutOAuthClient(t *testing.T) {
	h := newHarness(t)
	h.d = cli.NewDispatcher(commands.DefaultRegistry, nil, memoryStores(h.store))

	_, stderr, code := h.run("push")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_ImportFromStdin(t *testing.T) {
	h := newHarness(t)
	h.d.Stdin = strings.NewReader(`[{"text":"from stdin"}]`)

	stdout, stderr, code := h.run("import", "-")

	if code != exitcode.Success {
		t.Fatalf("exit %d: %q", code, stderr)
	}
	if stdout != "imported 1\n" {
		t.Errorf("expected 'imported 1\\n', got %q", stdout)
	}
}
