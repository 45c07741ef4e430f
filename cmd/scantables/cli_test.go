package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/internal/pdftest"
	"github.com/JennaRuan/scantables/internal/runner"
)

// clearEnv keeps host settings out of config.Load
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvPdftoppm, config.EnvTesseract, config.EnvTessdataPrefix,
		config.EnvLanguages, config.EnvOutputDir, config.EnvWorkers, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	code := runCLI(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// ============================================================================
// Exit Code Tests
// ============================================================================

func TestHelp(t *testing.T) {
	code, out, _ := run(t, "--help")
	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
	if !strings.Contains(out, "scantables") || !strings.Contains(out, "tokens") {
		t.Errorf("help output missing command names:\n%s", out)
	}
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("colour: blue\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--frobnicate", "a.pdf"}},
		{"no inputs", []string{}},
		{"bad alignment", []string{"--alignment", "diagonal", "a.pdf"}},
		{"bad format", []string{"--format", "pdf", "a.pdf"}},
		{"bad workers", []string{"--workers", "0", "a.pdf"}},
		{"missing config", []string{"--config", filepath.Join(dir, "none.yaml"), "a.pdf"}},
		{"unknown config key", []string{"--config", badConfig, "a.pdf"}},
		{"tokens without file", []string{"tokens"}},
		{"tokens with two files", []string{"tokens", "a.pdf", "b.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			if code != exitUsage {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, exitUsage, stderr)
			}
			if !strings.Contains(stderr, "Error:") {
				t.Errorf("stderr = %q, want an error message", stderr)
			}
		})
	}
}

func TestMissingInputsAreReported(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")

	code, out, _ := run(t, "--log-level", "error", a, b)
	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
	if !strings.Contains(out, a+": file not found") || !strings.Contains(out, b+": file not found") {
		t.Errorf("output does not report missing files:\n%s", out)
	}
	if !strings.Contains(out, "2 documents: 0 converted, 0 without table, 0 failed, 2 missing") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestBareFilenameIsAnInput(t *testing.T) {
	t.Chdir(t.TempDir())

	code, out, stderr := run(t, "--log-level", "error", "balance.pdf")
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, exitOK, stderr)
	}
	if strings.Contains(stderr, "unknown command") {
		t.Errorf("positional file treated as a subcommand: %s", stderr)
	}
	if !strings.Contains(out, "balance.pdf: file not found") {
		t.Errorf("output does not report the input:\n%s", out)
	}
}

func TestInputsFromConfig(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "from-config.pdf")
	cfgPath := filepath.Join(dir, "scantables.yaml")
	if err := os.WriteFile(cfgPath, []byte("inputs:\n  - "+missing+"\nlog:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := run(t, "--config", cfgPath)
	if code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
	if !strings.Contains(out, missing+": file not found") {
		t.Errorf("configured input not processed:\n%s", out)
	}
}

func TestFailedDocumentExitCode(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.Write(t, "scan.pdf", 1)
	cfgPath := filepath.Join(dir, "scantables.yaml")
	cfg := "raster:\n  pdftoppm: " + filepath.Join(dir, "no-such-pdftoppm") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := run(t, "--config", cfgPath, path)
	if code != exitFailures {
		t.Errorf("exit code = %d, want %d\n%s", code, exitFailures, out)
	}
	if !strings.Contains(out, "1 failed") {
		t.Errorf("output missing failure summary:\n%s", out)
	}
}

// ============================================================================
// Flag Tests
// ============================================================================

func TestApplyFlagsOnlyChanged(t *testing.T) {
	clearEnv(t)
	root := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	if err := root.ParseFlags([]string{"--languages", "spa", "--all-pages", "--min-confidence", "75"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Raster.DPI = 300
	f := &flags{languages: "spa", allPages: true, minConf: 75, dpi: 200}
	applyFlags(root, f, &cfg)

	if len(cfg.OCR.Languages) != 1 || cfg.OCR.Languages[0] != "spa" {
		t.Errorf("Languages = %v, want [spa]", cfg.OCR.Languages)
	}
	if cfg.MaxPages != 0 {
		t.Errorf("MaxPages = %d, want 0", cfg.MaxPages)
	}
	if cfg.Tables.MinConfidence != 75 {
		t.Errorf("MinConfidence = %d, want 75", cfg.Tables.MinConfidence)
	}
	if cfg.Raster.DPI != 300 {
		t.Errorf("DPI = %d, unset flag must not override 300", cfg.Raster.DPI)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.Log{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("document", "a.pdf").Info("processing")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"document":"a.pdf"`) {
		t.Errorf("json log = %q", buf.String())
	}

	if _, err := newLogger(config.Log{Level: "loud"}, &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}

// ============================================================================
// End-to-end Tests
// ============================================================================

func TestBlankDocumentHasNoTable(t *testing.T) {
	if !runner.Available("pdftoppm") || !runner.Available("tesseract") {
		t.Skipf("pdftoppm or tesseract not installed")
	}
	path := pdftest.Write(t, "blank.pdf", 1)
	debug := t.TempDir()

	code, out, stderr := run(t, "--log-level", "error", "--languages", "eng", path)
	if code != exitOK {
		t.Fatalf("exit code = %d\n%s\n%s", code, out, stderr)
	}
	if !strings.Contains(out, "no table found") {
		t.Errorf("output = %q, want no table", out)
	}

	code, _, stderr = run(t, "tokens", "--languages", "eng", "--debug-dir", debug, path)
	if code != exitOK {
		t.Fatalf("tokens exit code = %d\n%s", code, stderr)
	}
	stages, _ := filepath.Glob(filepath.Join(debug, "blank-*.png"))
	if len(stages) < 5 {
		t.Errorf("debug stages = %v, want one image per stage", stages)
	}
}
