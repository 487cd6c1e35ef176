package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/findex-cli/internal/clean"
	"github.com/KaramelBytes/findex-cli/internal/dataset"
)

// Global configuration structure.
type Global struct {
	Source         string `mapstructure:"source" yaml:"source"`
	Sheet          string `mapstructure:"sheet" yaml:"sheet,omitempty"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	PreviewRows     int     `mapstructure:"preview_rows" yaml:"preview_rows"`
	ZScoreThreshold float64 `mapstructure:"zscore_threshold" yaml:"zscore_threshold"`

	// Imputation maps a column name to mean|median|ffill|zero and is merged over
	// the built-in rules.
	Imputation map[string]string `mapstructure:"imputation" yaml:"imputation,omitempty"`
}

// Dir returns ~/.findex.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".findex"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.findex/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FINDEX")
	v.AutomaticEnv()

	v.SetDefault("source", dataset.DefaultSource)
	v.SetDefault("sheet", "")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("preview_rows", 20)
	v.SetDefault("zscore_threshold", 3.0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HTTPTimeoutSec <= 0 {
		c.HTTPTimeoutSec = 60
	}
	if c.PreviewRows < 0 {
		c.PreviewRows = 0
	}
	return &c, nil
}

// Rules parses the configured imputation overrides. Viper folds map keys to
// lower case, so names are matched case-insensitively against allow.
func (c *Global) Rules(allow []string) (clean.Rules, error) {
	if len(c.Imputation) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(c.Imputation))
	for k := range c.Imputation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(clean.Rules, len(keys))
	for _, k := range keys {
		name, ok := canonical(k, allow)
		if !ok {
			return nil, fmt.Errorf("imputation: unknown column %q", k)
		}
		s, err := clean.ParseStrategy(c.Imputation[k])
		if err != nil {
			return nil, fmt.Errorf("imputation for %q: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

func canonical(key string, allow []string) (string, bool) {
	key = strings.TrimSpace(key)
	for _, n := range allow {
		if strings.EqualFold(n, key) {
			return n, true
		}
	}
	return "", false
}
