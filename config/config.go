// Package config loads scitable settings from a YAML file, SCITABLE_* environment
// variables and built-in defaults, in that order of precedence: environment first,
// then file, then defaults.
package config

import (
	"bytes"
	"math/rand/v2"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/table"
)

// EnvPrefix は環境変数のプレフィックス
const EnvPrefix = "SCITABLE"

// Config holds the settings shared by the command line tool.
type Config struct {
	// Separator is a single character; "\t" and "tab" mean a tab.
	Separator string `mapstructure:"separator" yaml:"separator"`
	Headers   bool   `mapstructure:"headers" yaml:"headers"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// Seed fixes sampling and splitting. 0 seeds from the clock.
	Seed     uint64 `mapstructure:"seed" yaml:"seed"`
	HeadRows int    `mapstructure:"head_rows" yaml:"head_rows"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Separator: ",",
		Headers:   true,
		LogLevel:  "warn",
		LogFormat: "console",
		Seed:      0,
		HeadRows:  5,
	}
}

// Load reads path (which may be empty) and overlays SCITABLE_* environment
// variables. ${VAR} references in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("separator", def.Separator)
	v.SetDefault("headers", def.Headers)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("head_rows", def.HeadRows)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewSourceError(path, err)
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader([]byte(substituteEnvVars(string(data))))); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.GetLoggerWithName("config").Debug("config loaded",
		log.PathKey, path,
		log.SeparatorKey, cfg.Separator,
		log.RandomSeedKey, cfg.Seed,
	)
	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewSourceError(path, err)
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := c.SeparatorRune(); err != nil {
		return err
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return errors.NewValidationError("log_level", "must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return errors.NewValidationError("log_format", "must be console or json", c.LogFormat)
	}
	if c.HeadRows < 0 {
		return errors.NewValidationError("head_rows", "must not be negative", c.HeadRows)
	}
	return nil
}

// SeparatorRune decodes Separator.
func (c Config) SeparatorRune() (rune, error) {
	switch c.Separator {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return 0, errors.NewValidationError("separator", "must be a single character", c.Separator)
	}
	r, _ := utf8.DecodeRuneInString(c.Separator)
	if r == '\n' || r == '\r' || r == '"' {
		return 0, errors.NewValidationError("separator", "must not be a newline or quote", c.Separator)
	}
	return r, nil
}

// CSVOptions converts the delimited-text settings for table.Load.
func (c Config) CSVOptions() ([]table.CSVOption, error) {
	sep, err := c.SeparatorRune()
	if err != nil {
		return nil, err
	}
	return []table.CSVOption{table.WithSeparator(sep), table.WithHeaders(c.Headers)}, nil
}

// Rand returns a generator seeded with Seed, or nil when Seed is 0 so that
// callers fall back to a clock seed.
func (c Config) Rand() *rand.Rand {
	if c.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(c.Seed, c.Seed))
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		content = content[:start] + os.Getenv(content[start+2:end]) + content[end+1:]
	}
	return content
}
