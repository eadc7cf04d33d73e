// Package config loads aidb settings from flags, AIDB_* environment variables
// and an optional config file through viper.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Prayag-01/ai-project/database"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "AIDB"

	KeyDB              = "db"
	KeySchema          = "schema"
	KeyData            = "data"
	KeyEmbedded        = "embedded"
	KeySeed            = "seed"
	KeyBackup          = "backup"
	KeyMaxBackups      = "max_backups"
	KeyVerifyOnFailure = "verify_on_failure"
	KeyTopLimit        = "top_limit"
	KeyAddr            = "addr"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"

	defaultScriptDir = "database"
)

type Config struct {
	DBPath     string `mapstructure:"db"`
	SchemaPath string `mapstructure:"schema"`
	DataPath   string `mapstructure:"data"`
	// Embedded builds from the scripts compiled into the binary instead of SchemaPath/DataPath.
	Embedded        bool   `mapstructure:"embedded"`
	Seed            bool   `mapstructure:"seed"`
	Backup          bool   `mapstructure:"backup"`
	MaxBackups      int    `mapstructure:"max_backups"`
	VerifyOnFailure bool   `mapstructure:"verify_on_failure"`
	TopLimit        int    `mapstructure:"top_limit"`
	Addr            string `mapstructure:"addr"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
}

// New returns a viper instance with defaults set and AIDB_* env binding enabled.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, filepath.Join(defaultScriptDir, database.DBFile))
	v.SetDefault(KeySchema, filepath.Join(defaultScriptDir, database.SchemaFile))
	v.SetDefault(KeyData, filepath.Join(defaultScriptDir, database.SampleDataFile))
	v.SetDefault(KeyEmbedded, false)
	v.SetDefault(KeySeed, true)
	v.SetDefault(KeyBackup, false)
	v.SetDefault(KeyMaxBackups, 5)
	v.SetDefault(KeyVerifyOnFailure, false)
	v.SetDefault(KeyTopLimit, 5)
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads configFile when given, then unmarshals and validates v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.DBPath == "" {
		problems = append(problems, KeyDB+" must be set")
	}
	if !c.Embedded {
		if c.SchemaPath == "" {
			problems = append(problems, KeySchema+" must be set unless "+KeyEmbedded+" is true")
		}
		if c.Seed && c.DataPath == "" {
			problems = append(problems, KeyData+" must be set when seeding unless "+KeyEmbedded+" is true")
		}
	}
	if c.Backup && c.MaxBackups < 1 {
		problems = append(problems, fmt.Sprintf("%s must be at least 1, got %d", KeyMaxBackups, c.MaxBackups))
	}
	if c.TopLimit < 1 || c.TopLimit > 100 {
		problems = append(problems, fmt.Sprintf("%s must be between 1 and 100, got %d", KeyTopLimit, c.TopLimit))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("%s must be console or json, got %q", KeyLogFormat, c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
