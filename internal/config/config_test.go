package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Watch.Mode != "auto" || cfg.SettingsPath != "settings.json" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("IMGSHRINK_INBOX", "/tmp/inbox")
	path := writeConfig(t, `
workers: 3
watch:
  inbox: $(IMGSHRINK_INBOX)
  mode: poll
  pollInterval: 2s
schedule:
  cron: "*/5 * * * *"
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 3 || cfg.WorkerCount() != 3 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.Watch.Inbox != "/tmp/inbox" {
		t.Errorf("inbox not expanded: %q", cfg.Watch.Inbox)
	}
	if cfg.Watch.PollInterval != 2*time.Second {
		t.Errorf("pollInterval = %v", cfg.Watch.PollInterval)
	}
	// untouched keys keep defaults
	if cfg.Watch.DebounceWindow != 500*time.Millisecond {
		t.Errorf("debounce default lost: %v", cfg.Watch.DebounceWindow)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"mode", "watch:\n  mode: inotify\n", "unknown mode"},
		{"cron", "schedule:\n  cron: \"not a cron\"\n", "schedule.cron"},
		{"workers", "workers: -1\n", "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWorkerCountDefaultsToCPU(t *testing.T) {
	if got := Default().WorkerCount(); got != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d, want %d", got, runtime.NumCPU())
	}
}
