package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and
// environment variables. If configFile is empty, it searches standard
// locations for smartfarmer.yaml/.yml. The search requires an explicit
// YAML extension so the binary itself is never matched.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file found in any standard location. Set name/type
		// without search paths so ReadInConfig returns
		// ConfigFileNotFoundError (handled gracefully by callers).
		viper.SetConfigName("smartfarmer")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: SMARTFARMER_API_BASE_URL
	viper.SetEnvPrefix("SMARTFARMER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for a smartfarmer config
// file with an explicit YAML extension (.yaml or .yml).
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".smartfarmer"),
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "smartfarmer"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds all config keys for environment variable
// support. Example: SMARTFARMER_API_BASE_URL overrides api.base_url.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("api.base_url")
	_ = viper.BindEnv("api.timeout")
	_ = viper.BindEnv("cache.ttl")
	_ = viper.BindEnv("state.path")
	_ = viper.BindEnv("state.backend")
	_ = viper.BindEnv("log_level")
}

// LoadConfig reads the configuration file, applies environment
// overrides, sets defaults, validates, and returns the PortalConfig.
func LoadConfig() (*PortalConfig, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars only.
	}

	var cfg PortalConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	if cfg.State.Path == "" {
		cfg.State.Path = defaultStatePath(cfg.State.Backend)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// defaultStatePath places state under ~/.smartfarmer, falling back to
// the working directory when the home directory is unknown.
func defaultStatePath(backend string) string {
	name := "state.json"
	if backend == "sqlite" {
		name = "state.db"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".smartfarmer", name)
}

// ConfigFileUsed returns the path to the configuration file that was
// loaded, or "" when running on env vars only.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
