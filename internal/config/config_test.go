package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"animopt/internal/config"
)

func TestLoadDefaultsExpandPathsAndHonorEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMOPT_DATA_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "animopt")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.HistoryDB != filepath.Join(wantData, "history.db") {
		t.Fatalf("unexpected history db: %q", cfg.Paths.HistoryDB)
	}
	if cfg.Tolerances.Translation != 1e-3 {
		t.Fatalf("unexpected translation tolerance: %v", cfg.Tolerances.Translation)
	}
	if got, want := cfg.RotationRadians(), 0.1*math.Pi/180; math.Abs(got-want) > 1e-15 {
		t.Fatalf("unexpected rotation tolerance: got %v want %v", got, want)
	}
	if cfg.Report.SampleCount != 100 {
		t.Fatalf("unexpected sample count: %d", cfg.Report.SampleCount)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.ArchiveDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMOPT_DATA_DIR", "")

	path := filepath.Join(tempHome, "animopt.toml")
	content := `
[tolerances]
translation = 0.01
rotation_degrees = 1.5

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Tolerances.Translation != 0.01 {
		t.Fatalf("unexpected translation tolerance: %v", cfg.Tolerances.Translation)
	}
	if cfg.Tolerances.RotationDegrees != 1.5 {
		t.Fatalf("unexpected rotation tolerance: %v", cfg.Tolerances.RotationDegrees)
	}
	if cfg.Tolerances.Scale != 1e-3 {
		t.Fatalf("expected default scale tolerance, got %v", cfg.Tolerances.Scale)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMOPT_DATA_DIR", "")

	cases := map[string]string{
		"negative tolerance": "[tolerances]\ntranslation = -0.5\n",
		"huge rotation":      "[tolerances]\nrotation_degrees = 270\n",
		"bad log format":     "[logging]\nformat = \"xml\"\n",
		"tiny sample count":  "[report]\nsample_count = 1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnvOverridesDataDir(t *testing.T) {
	tempHome := t.TempDir()
	override := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMOPT_DATA_DIR", override)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected data dir %q, got %q", override, cfg.Paths.DataDir)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMOPT_DATA_DIR", "")

	path := filepath.Join(tempHome, ".config", "animopt", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}

	// The sample documents the defaults. Paths are expanded on load, so only
	// the value sections are comparable directly.
	def := config.Default()
	if cfg.Tolerances != def.Tolerances {
		t.Fatalf("sample tolerances diverge from defaults: got %+v want %+v", cfg.Tolerances, def.Tolerances)
	}
	if cfg.Report != def.Report {
		t.Fatalf("sample report settings diverge from defaults: got %+v want %+v", cfg.Report, def.Report)
	}
	if cfg.History != def.History {
		t.Fatalf("sample history settings diverge from defaults: got %+v want %+v", cfg.History, def.History)
	}
	if cfg.Logging != def.Logging {
		t.Fatalf("sample logging settings diverge from defaults: got %+v want %+v", cfg.Logging, def.Logging)
	}
}
