package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var configKeys = []string{
	"SERVER_ADDR", "DEBUG_MODE", "FONT_SOURCE", "FONT_DIRS",
	"FONT_ALLOWED_ROOTS", "INCLUDE_EMBEDDED_FONTS", "LIST_TIMEOUT",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	got, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := EnvValue{
		ServerAddr:  "127.0.0.1:3030",
		FontSource:  "system",
		ListTimeout: 60 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	sep := string(os.PathListSeparator)
	config := writeFile(t, "fontbridge.yaml", strings.Join([]string{
		"server_addr: 0.0.0.0:9000",
		"font_source: DIRS",
		"font_dirs: [/yaml/fonts]",
		"allowed_roots: [/yaml/root]",
		"include_embedded_fonts: true",
		"list_timeout: 5s",
		"debug_mode: true",
	}, "\n"))
	dotenv := writeFile(t, ".env", strings.Join([]string{
		"SERVER_ADDR=127.0.0.1:8000",
		"FONT_DIRS=/dotenv/a" + sep + "/dotenv/b",
		"LIST_TIMEOUT=10s",
	}, "\n"))
	t.Setenv("SERVER_ADDR", "localhost:7000")
	t.Setenv("DEBUG_MODE", "false")

	got, err := Load(config, dotenv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := EnvValue{
		ServerAddr:           "localhost:7000",
		DebugMode:            false,
		FontSource:           "dirs",
		FontDirs:             []string{"/dotenv/a", "/dotenv/b"},
		AllowedRoots:         []string{"/yaml/root"},
		IncludeEmbeddedFonts: true,
		ListTimeout:          10 * time.Second,
		ConfigFile:           config,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIST_TIMEOUT", "-3s")
	t.Setenv("DEBUG_MODE", "sometimes")
	t.Setenv("FONT_ALLOWED_ROOTS", "/srv/fonts")

	got, err := Load("", "")
	if err == nil {
		t.Fatalf("expected an error for invalid values")
	}
	for _, key := range []string{"LIST_TIMEOUT", "DEBUG_MODE"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
	if got.ListTimeout != DefaultListTimeout || got.DebugMode {
		t.Errorf("invalid values leaked into config: %+v", got)
	}
	if diff := cmp.Diff([]string{"/srv/fonts"}, got.AllowedRoots); diff != "" {
		t.Errorf("valid keys must still apply (-want +got):\n%s", diff)
	}
}

func TestLoadBrokenYAML(t *testing.T) {
	clearEnv(t)
	config := writeFile(t, "fontbridge.yaml", "font_dirs: [unterminated")
	got, err := Load(config, "")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if got.ServerAddr != DefaultServerAddr || got.ConfigFile != "" {
		t.Errorf("broken file must not apply: %+v", got)
	}
}

func TestLoadEnvSetsValue(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("FONTBRIDGE_CONFIG", "")
	t.Setenv("SERVER_ADDR", ":4040")
	saved := Value
	t.Cleanup(func() { Value = saved })

	LoadEnv()
	if Value.ServerAddr != ":4040" {
		t.Errorf("Value.ServerAddr = %q", Value.ServerAddr)
	}
}
