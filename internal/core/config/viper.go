package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	return Load(viper.New(), configPath)
}

// Load reads configuration into v, which may already carry bound CLI flags.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	def := DefaultConfig()

	// Set defaults matching DefaultConfig
	v.SetDefault("render.line_ending", def.Render.LineEnding)
	v.SetDefault("render.indent_width", def.Render.IndentWidth)
	v.SetDefault("render.date_layout", def.Render.DateLayout)
	v.SetDefault("render.strict", def.Render.Strict)
	v.SetDefault("render.detect_dates", def.Render.DetectDates)
	v.SetDefault("store.db_url", def.Store.DBURL)
	v.SetDefault("store.list_limit", def.Store.ListLimit)

	// Bind environment variables with QT_ prefix
	v.SetEnvPrefix("QT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject credentials in config files
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Render: RenderConfig{
			LineEnding:  strings.ToLower(v.GetString("render.line_ending")),
			IndentWidth: v.GetInt("render.indent_width"),
			DateLayout:  v.GetString("render.date_layout"),
			Strict:      v.GetBool("render.strict"),
			DetectDates: v.GetBool("render.detect_dates"),
		},
		Store: StoreConfig{
			DBURL:     v.GetString("store.db_url"),
			ListLimit: v.GetInt("store.list_limit"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateNoSecretsInConfig enforces environment-only database passwords.
// A db_url from the environment or a flag may carry one; a file may not.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if !v.InConfig("store.db_url") {
		return nil
	}
	fileURL := fileValue(v, "store.db_url")
	if hasPassword(fileURL) {
		return fmt.Errorf("database passwords not allowed in config files (use QT_STORE_DB_URL environment variable)")
	}
	return nil
}

// fileValue returns the value of key as written in the config file,
// ignoring environment and flag overrides.
func fileValue(v *viper.Viper, key string) string {
	section, leaf, _ := strings.Cut(key, ".")
	sub, ok := v.Get(section).(map[string]any)
	if !ok {
		return v.GetString(key)
	}
	s, _ := sub[leaf].(string)
	return s
}
