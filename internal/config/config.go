// Package config loads oncecheck configuration.
//
// Configuration is layered, later sources overriding earlier ones:
//  1. Defaults
//  2. Project config file (./.oncecheck.yaml), if present
//  3. Environment variables (ONCECHECK_*)
//  4. Command-line flags (applied by the CLI after Load)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kolkov/staticonce/internal/checker"
)

// ProjectConfigFileName is the per-project config file name, without
// extension.
const ProjectConfigFileName = ".oncecheck"

// Config holds all oncecheck configuration values.
type Config struct {
	// OncePath is the import path of the staticonce runtime package whose
	// Init/Bind calls are treated as initialization claims.
	OncePath string `mapstructure:"once_path"`

	// Strict additionally warns about claims outside main/init.
	Strict bool `mapstructure:"strict"`

	// Verbose prints every discovered call site, not just findings.
	Verbose bool `mapstructure:"verbose"`

	// configFile is the config file that was loaded, if any.
	configFile string
}

// ConfigFile returns the path of the loaded config file, or "" when only
// defaults and environment were used.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory searched for the project config file.
	// If empty, the current working directory is used.
	ProjectDir string

	// SkipProjectConfig skips the project config file.
	SkipProjectConfig bool
}

// Load reads configuration from all sources. If opts is nil, default
// options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	v := viper.New()

	v.SetDefault("once_path", checker.DefaultOncePath)
	v.SetDefault("strict", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("ONCECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileUsed string
	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		v.SetConfigName(ProjectConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(projectDir)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			configFileUsed = v.ConfigFileUsed()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configFile = configFileUsed

	if cfg.OncePath == "" {
		return nil, errors.New("once_path must not be empty")
	}

	return &cfg, nil
}

// WriteExample writes a commented example config file to dir, refusing to
// overwrite an existing one. Returns the written path.
func WriteExample(dir string) (string, error) {
	path := filepath.Join(dir, ProjectConfigFileName+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	example := `# oncecheck configuration.
# Values may also be set via ONCECHECK_* environment variables
# (ONCECHECK_STRICT=true) or command-line flags; flags win.

# Import path of the staticonce runtime package.
once_path: ` + checker.DefaultOncePath + `

# Warn about initialization claims outside main/init.
strict: false

# Print every discovered call site, not just findings.
verbose: false
`
	if err := os.WriteFile(path, []byte(example), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
