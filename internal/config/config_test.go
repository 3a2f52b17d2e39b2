package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/staff-tools-mcp/internal/staff"
)

const sampleConfig = `threshold: 100
threads: 3
log_level: DEBUG
staff:
  safety_factor: 2.5
  chunk_width: 64
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Threshold != 100 || cfg.Threads != 3 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Staff.SafetyFactor != 2.5 || cfg.Staff.ChunkWidth != 64 {
		t.Errorf("staff overrides not applied: %+v", cfg.Staff)
	}

	def := staff.DefaultParams()
	if cfg.Staff.MaxAngle != def.MaxAngle || cfg.Staff.SeamBlend != def.SeamBlend {
		t.Errorf("unset staff fields should keep defaults: %+v", cfg.Staff)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse([]byte("  \n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Staff.SafetyFactor != staff.DefaultParams().SafetyFactor || cfg.Threads < 1 {
		t.Errorf("empty payload should yield defaults: %+v", cfg)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "thresold: 3\n", "decode"},
		{"bad staff value", "staff:\n  safety_factor: 0.5\n", "safety_factor"},
		{"no threads", "threads: 0\n", "threads"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"threshold overflow", "threshold: 300\n", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unset env: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset env should give defaults, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "staff.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	t.Setenv(EnvPath, path)
	cfg, err = FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Threads != 3 {
		t.Errorf("threads: got %d, want 3", cfg.Threads)
	}

	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := FromEnv(); err == nil {
		t.Error("missing file should fail")
	}
}
