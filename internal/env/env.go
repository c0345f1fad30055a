// Package env holds the process configuration. Values are resolved from, in
// order of precedence: the environment, a .env file, a YAML config file and
// built-in defaults.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerAddr  = "127.0.0.1:3030"
	DefaultFontSource  = "system"
	DefaultListTimeout = 60 * time.Second

	defaultConfigFile = "fontbridge.yaml"
	defaultDotenvFile = ".env"
)

type EnvValue struct {
	ServerAddr           string
	DebugMode            bool
	FontSource           string
	FontDirs             []string
	AllowedRoots         []string
	IncludeEmbeddedFonts bool
	ListTimeout          time.Duration
	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string
}

var Value = defaults()

// fileConfig is the layout of the YAML config file.
type fileConfig struct {
	ServerAddr           string   `yaml:"server_addr"`
	DebugMode            *bool    `yaml:"debug_mode"`
	FontSource           string   `yaml:"font_source"`
	FontDirs             []string `yaml:"font_dirs"`
	AllowedRoots         []string `yaml:"allowed_roots"`
	IncludeEmbeddedFonts *bool    `yaml:"include_embedded_fonts"`
	ListTimeout          string   `yaml:"list_timeout"`
}

func defaults() EnvValue {
	return EnvValue{
		ServerAddr:  DefaultServerAddr,
		FontSource:  DefaultFontSource,
		ListTimeout: DefaultListTimeout,
	}
}

// LoadEnv fills Value from the standard locations. Problems are logged and
// the affected keys keep their defaults.
func LoadEnv() {
	configPath := os.Getenv("FONTBRIDGE_CONFIG")
	if configPath == "" {
		configPath = defaultConfigFile
	}
	v, err := Load(configPath, defaultDotenvFile)
	if err != nil {
		logger.Warn("Failed to load configuration, using defaults", zap.Error(err))
	}
	Value = v
}

// Load resolves the configuration from the YAML file at configPath, the
// dotenv file at dotenvPath and the process environment. Missing files are
// not an error. On error the returned value still holds everything that
// could be resolved.
func Load(configPath, dotenvPath string) (EnvValue, error) {
	v := defaults()
	var errs []error

	if configPath != "" {
		loaded, err := applyFile(&v, configPath)
		if err != nil {
			errs = append(errs, err)
		} else if loaded {
			v.ConfigFile = configPath
		}
	}

	dotenv := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, fs.ErrNotExist):
			errs = append(errs, fmt.Errorf("read %s: %w", dotenvPath, err))
		}
	}
	lookup := func(key string) (string, bool) {
		if val, ok := os.LookupEnv(key); ok {
			return val, true
		}
		val, ok := dotenv[key]
		return val, ok
	}

	if val, ok := lookup("SERVER_ADDR"); ok && val != "" {
		v.ServerAddr = val
	}
	if val, ok := lookup("DEBUG_MODE"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("DEBUG_MODE: %w", err))
		} else {
			v.DebugMode = b
		}
	}
	if val, ok := lookup("FONT_SOURCE"); ok && val != "" {
		v.FontSource = strings.ToLower(val)
	}
	if val, ok := lookup("FONT_DIRS"); ok {
		v.FontDirs = splitList(val)
	}
	if val, ok := lookup("FONT_ALLOWED_ROOTS"); ok {
		v.AllowedRoots = splitList(val)
	}
	if val, ok := lookup("INCLUDE_EMBEDDED_FONTS"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("INCLUDE_EMBEDDED_FONTS: %w", err))
		} else {
			v.IncludeEmbeddedFonts = b
		}
	}
	if val, ok := lookup("LIST_TIMEOUT"); ok && val != "" {
		d, err := parseTimeout(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("LIST_TIMEOUT: %w", err))
		} else {
			v.ListTimeout = d
		}
	}

	return v, errors.Join(errs...)
}

func applyFile(v *EnvValue, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.ServerAddr != "" {
		v.ServerAddr = fc.ServerAddr
	}
	if fc.DebugMode != nil {
		v.DebugMode = *fc.DebugMode
	}
	if fc.FontSource != "" {
		v.FontSource = strings.ToLower(fc.FontSource)
	}
	if fc.FontDirs != nil {
		v.FontDirs = fc.FontDirs
	}
	if fc.AllowedRoots != nil {
		v.AllowedRoots = fc.AllowedRoots
	}
	if fc.IncludeEmbeddedFonts != nil {
		v.IncludeEmbeddedFonts = *fc.IncludeEmbeddedFonts
	}
	if fc.ListTimeout != "" {
		d, err := parseTimeout(fc.ListTimeout)
		if err != nil {
			return true, fmt.Errorf("%s: list_timeout: %w", path, err)
		}
		v.ListTimeout = d
	}
	return true, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

// splitList splits an OS path list (":" on Unix, ";" on Windows), dropping
// empty elements.
func splitList(s string) []string {
	var res []string
	for _, p := range filepath.SplitList(s) {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
