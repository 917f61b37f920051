package lint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/scanner"
)

const (
	DefaultName = "tsniff"
	envPrefix   = "TSNIFF_"
)

// ConfigFileNames are looked up in the working directory, in this order,
// when no configuration file is given.
var ConfigFileNames = []string{".tsniff.yaml", ".tsniff.yml", ".tsniff.toml"}

// flagKeys maps the flags that may override configuration to their keys.
var flagKeys = map[string]string{
	"cache-dir":  "cache_dir",
	"extensions": "extensions",
}

// Config represents the overall configuration.
type Config struct {
	Name       string                   `koanf:"name" yaml:"name"`
	Extensions []string                 `koanf:"extensions" yaml:"extensions,omitempty"`
	CacheDir   string                   `koanf:"cache_dir" yaml:"cache_dir,omitempty"`
	Rules      map[string]tt.ConfigRule `koanf:"rules" yaml:"rules"`
}

// LoadConfig builds the configuration from, lowest precedence first,
// built-in defaults, the configuration file, TSNIFF_ environment variables
// and the explicitly set flags. flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"name":       DefaultName,
		"extensions": scanner.DefaultExtensions,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findConfigFile(path)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := loadConfigFile(k, path); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// TSNIFF_CACHE_DIR -> cache_dir
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if key == "extensions" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
		},
	}); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

func loadConfigFile(k *koanf.Koanf, path string) error {
	if filepath.Ext(path) != ".toml" {
		return k.Load(file.Provider(path), yaml.Parser())
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return err
	}
	return k.Load(confmap.Provider(raw, ""), nil)
}

// Validate reports configuration values that would make linting fail
// later on.
func (c Config) Validate() error {
	var errs []error
	for i, ext := range c.Extensions {
		if strings.TrimSpace(ext) == "" {
			errs = append(errs, fmt.Errorf("extensions[%d] is empty", i))
		}
	}
	return errors.Join(errs...)
}
