package configuration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger: logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server: HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Catalog: destination catalog source
	Catalog CatalogConfig `mapstructure:"catalog"`
	// Rules: scoring rule set source
	Rules RulesConfig `mapstructure:"rules"`
	// Ranking: result selection parameters
	Ranking RankingConfig `mapstructure:"ranking"`
	// Facts: per-session query store
	Facts FactsConfig `mapstructure:"facts"`
	// Dataset: served recommendations dataset
	Dataset DatasetConfig `mapstructure:"dataset"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level: log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address: address and port where the server will listen (e.g., ":8080").
	Address string `mapstructure:"address"`
	// Static: path to directory with static files served by the server.
	// Can be empty if static serving is not required.
	Static string `mapstructure:"static"`
	// ReadTimeout and WriteTimeout: per-request limits.
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout: grace period for active requests on shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig points at the CSV catalog.
type CatalogConfig struct {
	File string `mapstructure:"file"`
}

// RulesConfig points at the rules document (YAML or JSON).
type RulesConfig struct {
	File string `mapstructure:"file"`
}

// RankingConfig defines result selection.
type RankingConfig struct {
	// TopK: maximal number of returned destinations.
	TopK int `mapstructure:"top_k"`
}

// FactsConfig defines the session query store.
type FactsConfig struct {
	// Cookie: name of the cookie identifying a session.
	Cookie string `mapstructure:"cookie"`
	// History: number of submissions kept per session.
	History int `mapstructure:"history"`
	// Ttl: idle time after which a session is forgotten, e.g. "30m".
	Ttl time.Duration `mapstructure:"ttl"`
	// SweepInterval: how often expired sessions are removed.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// DatasetConfig defines the served recommendations dataset.
type DatasetConfig struct {
	// Dataset file path (optional, disabled when empty)
	File string `mapstructure:"file"`
	// Maximal dataset file size in MB (default 100)
	Size int `mapstructure:"size"`
	// Number of rotated dataset files (default 20)
	Amount int `mapstructure:"amount"`
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected error.
func (c *AppConfig) Validate() error {
	validators := []func() error{
		c.Logger.Validate,
		c.Server.Validate,
		c.Catalog.Validate,
		c.Rules.Validate,
		c.Ranking.Validate,
		c.Facts.Validate,
		c.Dataset.Validate,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the correctness of the logger configuration.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	return nil
}

// Validate checks the correctness of the server configuration.
func (s *ServerConfig) Validate() error {
	if s.Address == "" {
		return errors.New("server.address: must be specified")
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		return errors.New("server: timeouts must not be negative")
	}

	return nil
}

// Validate checks that the catalog file is set.
func (c *CatalogConfig) Validate() error {
	if c.File == "" {
		return errors.New("catalog.file: must be specified")
	}
	return nil
}

// Validate checks that the rules file is set.
func (r *RulesConfig) Validate() error {
	if r.File == "" {
		return errors.New("rules.file: must be specified")
	}
	return nil
}

// Validate checks the ranking parameters.
func (r *RankingConfig) Validate() error {
	if r.TopK <= 0 {
		return fmt.Errorf("ranking.top_k: must be positive, got %d", r.TopK)
	}
	return nil
}

// Validate checks the fact store parameters.
func (f *FactsConfig) Validate() error {
	if f.Cookie == "" {
		return errors.New("facts.cookie: must be specified")
	}
	if f.History <= 0 {
		return fmt.Errorf("facts.history: must be positive, got %d", f.History)
	}
	if f.Ttl < 0 {
		return errors.New("facts.ttl: must not be negative")
	}
	if f.SweepInterval <= 0 {
		return errors.New("facts.sweep_interval: must be positive")
	}
	return nil
}

// Validate dataset parameters
func (d *DatasetConfig) Validate() error {
	if d.Size < 0 || d.Amount < 0 {
		return errors.New("dataset: size and amount must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Keys without a meaningful default are still registered, otherwise
	// AutomaticEnv cannot override them when the file omits them.
	v.SetDefault("catalog.file", "")
	v.SetDefault("rules.file", "")
	v.SetDefault("server.static", "")
	v.SetDefault("dataset.file", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 3*time.Second)
	v.SetDefault("server.write_timeout", 3*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("ranking.top_k", 6)
	v.SetDefault("facts.cookie", "tripmatch_session")
	v.SetDefault("facts.history", 5)
	v.SetDefault("facts.ttl", 30*time.Minute)
	v.SetDefault("facts.sweep_interval", time.Minute)
	v.SetDefault("dataset.size", 100)
	v.SetDefault("dataset.amount", 20)
}

// LoadConfig loads configuration from the specified file using Viper.
// Supports YAML format. Environment variables override file values, with
// dots replaced by underscores and a TRIPMATCH prefix
// (e.g. TRIPMATCH_RANKING_TOP_K).
//
// Returns an error if the file is not found or inaccessible, has an invalid
// format, or one of the sections fails validation.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tripmatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
