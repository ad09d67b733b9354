// Package lintconfig loads the optional .dsflint.toml / dsflint.toml
// configuration that customises rule severities, the process-authorization
// code catalogue, the exit fail-level, and the run deadline.
package lintconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

// ConfigFileNames are searched, in priority order, during discovery.
var ConfigFileNames = []string{".dsflint.toml", "dsflint.toml"}

// EnvPrefix is the prefix recognised for environment-variable overrides.
const EnvPrefix = "DSFLINT_"

// Config is the complete, merged linter configuration.
type Config struct {
	// Rules maps a rule Kind (by its string form) to a severity override.
	Rules map[string]string `koanf:"rules"`

	Authorization AuthorizationConfig `koanf:"authorization"`
	Output        OutputConfig        `koanf:"output"`
	Run           RunConfig           `koanf:"run"`

	// ConfigFile is the discovered/loaded config file path, if any.
	// Metadata, not itself loaded from config.
	ConfigFile string `koanf:"-"`
}

// AuthorizationConfig configures the process-authorization code catalogue.
type AuthorizationConfig struct {
	// CatalogueFile is a path to a TOML or JSON file listing recognised
	// process-authorization codes. Empty means use the built-in default.
	CatalogueFile string `koanf:"catalogue-file"`
}

// OutputConfig configures the severity that causes a non-zero exit code.
type OutputConfig struct {
	// FailLevel is the minimum severity that causes exit code 1.
	// Valid values: "error", "warn", "info", "success", "none".
	FailLevel string `koanf:"fail-level"`
}

// RunConfig configures the lint run itself.
type RunConfig struct {
	// Timeout bounds the whole run, parsed with time.ParseDuration
	// ("30s", "2m"); empty means no deadline.
	Timeout string `koanf:"timeout"`
}

// Deadline parses Run.Timeout and returns the corresponding time.Time
// measured from now, or the zero Time if no timeout is configured.
func (c *Config) Deadline() (time.Time, error) {
	if c.Run.Timeout == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseDuration(c.Run.Timeout)
	if err != nil {
		return time.Time{}, fmt.Errorf("lintconfig: invalid run.timeout %q: %w", c.Run.Timeout, err)
	}
	return time.Now().Add(d), nil
}

// defaultAuthorizationCodes is the built-in process-authorization code
// catalogue used when no external catalogue file is configured, so an
// archive can be linted out of the box.
var defaultAuthorizationCodes = []string{
	"HEALTHCARE_PROVIDER",
	"HEALTHCARE_PROVIDER_SYSTEM",
	"HEALTHCARE_PROVIDER_ROLE",
	"LOCAL_ORGANIZATION",
	"REMOTE_ORGANIZATION",
	"ALL",
	"PRACTITIONER",
	"PRACTITIONER_ROLE",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rules: map[string]string{},
		Output: OutputConfig{
			FailLevel: "error",
		},
	}
}

// Load discovers the closest config file for targetPath (typically the
// archive being linted), loads it, and applies environment overrides.
func Load(targetPath string) (*Config, error) {
	return LoadFromFile(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific file path, skipping
// discovery. An empty configPath loads only defaults and environment.
func LoadFromFile(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides loads configuration the same way LoadFromFile does, then
// layers flagOverrides (dot-separated koanf keys, e.g. "output.fail-level")
// on top — the highest-priority source, for CLI-flag values that should
// win over both the config file and the environment.
func LoadWithOverrides(configPath string, flagOverrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	if len(flagOverrides) > 0 {
		if err := k.Load(confmap.Provider(flagOverrides, "."), nil); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = configPath
	return cfg, nil
}

// knownHyphenatedKeys maps dot-separated env-derived key fragments to
// their hyphenated TOML-key equivalents.
var knownHyphenatedKeys = map[string]string{
	"fail.level":      "fail-level",
	"catalogue.file":  "catalogue-file",
}

func envKeyTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}
	return s
}

// Discover walks up from targetPath's directory looking for a config file,
// returning the closest match or "" if none is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(absPath)
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// SeverityOverrides parses Rules into the map[lintrule.Kind]lintrule.Severity
// shape the rule engines accept.
func (c *Config) SeverityOverrides() (map[lintrule.Kind]lintrule.Severity, error) {
	out := make(map[lintrule.Kind]lintrule.Severity, len(c.Rules))
	for kind, sev := range c.Rules {
		parsed, err := lintrule.ParseSeverity(sev)
		if err != nil {
			return nil, err
		}
		out[lintrule.Kind(kind)] = parsed
	}
	return out, nil
}

// FailLevel parses Output.FailLevel into a Severity; "none" disables
// failing entirely and is reported as SeverityOff.
func (c *Config) FailLevel() (lintrule.Severity, error) {
	if strings.EqualFold(c.Output.FailLevel, "none") {
		return lintrule.SeverityOff, nil
	}
	return lintrule.ParseSeverity(c.Output.FailLevel)
}

// AuthorizationCodes returns the configured authorization code catalogue,
// loading it from Authorization.CatalogueFile when set, or the built-in
// default otherwise.
func (c *Config) AuthorizationCodes() (map[string]bool, error) {
	if c.Authorization.CatalogueFile == "" {
		return toSet(defaultAuthorizationCodes), nil
	}
	return LoadAuthorizationCatalogue(c.Authorization.CatalogueFile)
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
