package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

func TestLogoutCommand(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		quiet    bool
		wantOut  string
	}{
		{"removes token", true, false, "ok\n"},
		{"removes token quietly", true, true, ""},
		{"not logged in", false, false, "not logged in\n"},
		{"not logged in quietly", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Dir: t.TempDir(), Quiet: tt.quiet}

			// Neither the OAuth client nor the local task store belong to the login.
			keep := []string{cfg.OAuthClientPath(), cfg.StorePath()}
			for _, path := range keep {
				if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
					t.Fatal(err)
				}
			}
			if tt.loggedIn {
				if err := os.WriteFile(cfg.TokenPath(), []byte(`{"refresh_token":"r"}`), 0600); err != nil {
					t.Fatal(err)
				}
			}

			var out, errOut bytes.Buffer
			code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &out, &errOut)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if errOut.Len() != 0 {
				t.Errorf("expected no stderr, got %q", errOut.String())
			}
			if out.String() != tt.wantOut {
				t.Errorf("expected %q, got %q", tt.wantOut, out.String())
			}
			if cfg.HasToken() {
				t.Error("token.json should be gone")
			}
			for _, path := range keep {
				if _, err := os.Stat(path); err != nil {
					t.Errorf("%s should not have been removed", filepath.Base(path))
				}
			}
		})
	}
}
