package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CPPBRIDGE_LOG_LEVEL
const EnvPrefix = "CPPBRIDGE"

// Settings configures the binaries. Scenario inputs are not settings.
type Settings struct {
	Server         ServerSettings         `mapstructure:"server"`
	Log            LogSettings            `mapstructure:"log"`
	Mortality      MortalitySettings      `mapstructure:"mortality"`
	Recommendation RecommendationSettings `mapstructure:"recommendation"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MortalitySettings struct {
	Source string `mapstructure:"source"` // "table" or "gompertz"
	File   string `mapstructure:"file"`
}

type RecommendationSettings struct {
	Policy string `mapstructure:"policy"` // "binary" or "tiered"
}

// SettingsLoader reads cppbridge.yaml, an optional .env file and the
// environment, in increasing order of precedence
type SettingsLoader struct {
	// ConfigFile is an explicit settings file. When empty, cppbridge.yaml is
	// searched for in the working directory and $HOME/.config/cppbridge.
	ConfigFile string
	// EnvFile is loaded into the process environment before reading. Missing
	// files are ignored.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", defaultAddr())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("mortality.source", "table")
	v.SetDefault("mortality.file", "")
	v.SetDefault("recommendation.policy", "binary")
}

// defaultAddr honours a bare PORT variable the way container platforms set it
func defaultAddr() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// Load resolves the settings
func (l SettingsLoader) Load() (*Settings, error) {
	if l.EnvFile != "" {
		if _, err := os.Stat(l.EnvFile); err == nil {
			if err := godotenv.Load(l.EnvFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", l.EnvFile, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)

	if l.ConfigFile != "" {
		v.SetConfigFile(l.ConfigFile)
	} else {
		v.SetConfigName("cppbridge")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/cppbridge")
		}
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// LoadSettings resolves settings from the default locations
func LoadSettings() (*Settings, error) {
	return SettingsLoader{EnvFile: ".env"}.Load()
}

// Validate rejects values no binary can act on
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", s.Log.Level)
	}
	switch strings.ToLower(s.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", s.Log.Format)
	}
	switch strings.ToLower(s.Mortality.Source) {
	case "table", "gompertz":
	default:
		return fmt.Errorf("mortality.source must be table or gompertz, got %q", s.Mortality.Source)
	}
	if s.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
