package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/kv"
	"todo/internal/logger"
	"todo/internal/service"
	"todo/internal/task"
	"todo/internal/testutil"
)

// runCommand is a helper to run a command against a seeded task list.
func runCommand(t *testing.T, cmd commands.Command, env *commands.Env, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}
	if env != nil && env.Log == nil {
		env.Log = logger.Discard()
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, env, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seeded returns an Env whose list shows texts in the given order.
func seeded(t *testing.T, texts ...string) (*commands.Env, *kv.Memory) {
	t.Helper()
	reversed := make([]string, len(texts))
	for i, s := range texts {
		reversed[len(texts)-1-i] = s
	}
	mgr, store := testutil.NewManager(t, reversed...)
	return &commands.Env{Tasks: mgr}, store
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	env, _ := seeded(t, "Buy milk", "Buy eggs")
	if _, err := env.Tasks.Toggle(context.Background(), "id-2"); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, env, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list", stdout)
}

func TestListCommand_WithIDs(t *testing.T) {
	env, _ := seeded(t, "Buy milk")

	cmd := &commands.ListCmd{}
	cmd.SetIDs(true)
	stdout, _, code := runCommand(t, cmd, env, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Buy milk  (id-1)\n------------\n1 open task\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	env, _ := seeded(t)

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, env, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected empty message, got %q", stdout)
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	env, _ := seeded(t)

	_, stderr, code := runCommand(t, &commands.ListCmd{}, env, []string{"work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	env, _ := seeded(t, "Old")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, env, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	tasks := env.Tasks.Tasks()
	if len(tasks) != 2 || tasks[0].Text != "Buy milk" {
		t.Errorf("expected new task first, got %+v", tasks)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	env, _ := seeded(t)

	stdout, _, code := runCommand(t, &commands.AddCmd{}, env, []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoText(t *testing.T) {
	env, store := seeded(t)

	for _, args := range [][]string{nil, {"   "}} {
		_, stderr, code := runCommand(t, &commands.AddCmd{}, env, args, false)

		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if stderr != "error: text required\n" {
			t.Errorf("expected 'error: text required\\n', got %q", stderr)
		}
	}
	if store.Writes() != 0 {
		t.Errorf("expected no writes, got %d", store.Writes())
	}
}

func TestAddCommand_StoreError(t *testing.T) {
	env, store := seeded(t)
	store.SetErr = errors.New("disk full")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, env, []string{"Buy milk"}, false)

	if code != exitcode.StoreError {
		t.Errorf("expected exit code %d, got %d", exitcode.StoreError, code)
	}
	if !strings.Contains(stderr, "disk full") {
		t.Errorf("expected store error, got %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	env, _ := seeded(t, "Buy milk", "Buy eggs")

	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, env, []string{"2", "Buy", "bread"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if got, _ := env.Tasks.Get("id-1"); got.Text != "Buy bread" {
		t.Errorf("expected edited text, got %q", got.Text)
	}
}

func TestEditCommand_NoText(t *testing.T) {
	env, _ := seeded(t, "Buy milk")

	_, stderr, code := runCommand(t, &commands.EditCmd{}, env, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: text required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand_Success(t *testing.T) {
	env, _ := seeded(t, "Buy milk", "Buy eggs")

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, env, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if got, _ := env.Tasks.Get("id-2"); !got.Completed {
		t.Error("expected first task to be completed")
	}

	// toggling again reopens it
	runCommand(t, &commands.DoneCmd{}, env, []string{"id-2"}, false)
	if got, _ := env.Tasks.Get("id-2"); got.Completed {
		t.Error("expected task to be reopened")
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	env, _ := seeded(t, "Buy milk")

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, env, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected 'error: task reference required\\n', got %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	env, _ := seeded(t, "Buy milk")

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, env, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 5\n" {
		t.Errorf("expected 'error: task not found: 5\\n', got %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	env, _ := seeded(t, "Buy milk", "Buy eggs")

	stdout, _, code := runCommand(t, &commands.RmCmd{}, env, []string{"id-1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := env.Tasks.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

// Tests for clear command
func TestClearCommand(t *testing.T) {
	env, _ := seeded(t, "a", "b", "c")
	ctx := context.Background()
	env.Tasks.Toggle(ctx, "id-3")
	env.Tasks.Toggle(ctx, "id-1")

	stdout, _, code := runCommand(t, &commands.ClearCmd{}, env, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "removed 2\n" {
		t.Errorf("expected 'removed 2\\n', got %q", stdout)
	}
	if env.Tasks.Len() != 1 {
		t.Errorf("expected 1 task left, got %d", env.Tasks.Len())
	}
}

// Tests for export command
func TestExportCommand_Stdout(t *testing.T) {
	env, _ := seeded(t, "Buy milk")

	stdout, _, code := runCommand(t, &commands.ExportCmd{}, env, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "export", stdout)
}

func TestExportCommand_FileAndRoundTrip(t *testing.T) {
	env, _ := seeded(t, "Buy milk", "Buy eggs")
	env.Tasks.Toggle(context.Background(), "id-1")
	path := filepath.Join(t.TempDir(), "todos.json")

	cmd := &commands.ExportCmd{}
	stdout, stderr, code := runWithFlags(t, cmd, env, []string{"--out", path})
	if code != exitcode.Success {
		t.Fatalf("export failed: %d %q", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	other, _ := seeded(t, "something else")
	_, stderr, code = runCommand(t, &commands.ImportCmd{}, other, []string{path}, false)
	if code != exitcode.Success {
		t.Fatalf("import failed: %d %q", code, stderr)
	}

	want := env.Tasks.Tasks()
	got := other.Tasks.Tasks()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExportCommand_BadFormat(t *testing.T) {
	env, _ := seeded(t)

	_, stderr, code := runWithFlags(t, &commands.ExportCmd{}, env, []string{"--format", "csv"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown export format: csv\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for import command
func TestImportCommand_Stdin(t *testing.T) {
	env, _ := seeded(t, "old")
	env.Stdin = strings.NewReader(`[{"id":"x","text":"new","completed":true,"created":5}]`)

	stdout, _, code := runCommand(t, &commands.ImportCmd{}, env, []string{"-"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "imported 1\n" {
		t.Errorf("expected 'imported 1\\n', got %q", stdout)
	}
	want := task.Task{ID: "x", Text: "new", Completed: true, Created: 5}
	if got := env.Tasks.Tasks(); len(got) != 1 || got[0] != want {
		t.Errorf("unexpected tasks %+v", got)
	}
}

func TestImportCommand_InvalidJSON(t *testing.T) {
	env, store := seeded(t, "old")
	writes := store.Writes()
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"text":"not an array"}`), 0600)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, env, []string{path}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid JSON") {
		t.Errorf("expected invalid JSON error, got %q", stderr)
	}
	if env.Tasks.Len() != 1 || store.Writes() != writes {
		t.Error("failed import must not change the list")
	}
}

func TestImportCommand_NoFile(t *testing.T) {
	env, _ := seeded(t)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, env, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: file required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for push command
func TestPushCommand_DefaultList(t *testing.T) {
	env, _ := seeded(t, "Buy milk", "Buy eggs")
	env.Tasks.Toggle(context.Background(), "id-2")
	svc := testutil.NewFakeService()
	env.Remote = svc

	stdout, stderr, code := runCommand(t, &commands.PushCmd{}, env, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%q)", exitcode.Success, code, stderr)
	}
	if stdout != "pushed 2\n" {
		t.Errorf("expected 'pushed 2\\n', got %q", stdout)
	}

	got := svc.Tasks(testutil.DefaultListID)
	if len(got) != 2 {
		t.Fatalf("expected 2 remote tasks, got %d", len(got))
	}
	// oldest first
	if got[0].Title != "Buy eggs" || got[0].Status != service.StatusNeedsAction {
		t.Errorf("unexpected first remote task %+v", got[0])
	}
	if got[1].Title != "Buy milk" || got[1].Status != service.StatusCompleted {
		t.Errorf("unexpected second remote task %+v", got[1])
	}
}

func TestPushCommand_NamedList(t *testing.T) {
	env, _ := seeded(t, "Ship it")
	svc := testutil.NewFakeService()
	svc.AddList("work", "Work")
	env.Remote = svc

	cmd := &commands.PushCmd{}
	cmd.SetListName("work")
	_, _, code := runCommand(t, cmd, env, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := svc.Tasks("work"); len(got) != 1 || got[0].Title != "Ship it" {
		t.Errorf("unexpected remote tasks %+v", got)
	}
}

func TestPushCommand_ListNotFound(t *testing.T) {
	env, _ := seeded(t, "Ship it")
	env.Remote = testutil.NewFakeService()

	cmd := &commands.PushCmd{}
	cmd.SetListName("Nope")
	_, stderr, code := runCommand(t, cmd, env, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: list not found: Nope\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestPushCommand_BackendError(t *testing.T) {
	env, _ := seeded(t, "Ship it")
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("quota exceeded")
	env.Remote = svc

	_, stderr, code := runCommand(t, &commands.PushCmd{}, env, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: quota exceeded (pushed 0 of 1)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
