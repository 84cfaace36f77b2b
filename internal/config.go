package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type TinyRelConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Mode      string `mapstructure:"mode"` // mem | disk
		Workdir   string `mapstructure:"workdir"`
		Name      string `mapstructure:"name"`
		IndexKind string `mapstructure:"index_kind"` // hash | sorted | btree
		RowCache  int    `mapstructure:"row_cache"`  // decoded rows kept per disk table
	} `mapstructure:"storage"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // text | json
		SeqURL string `mapstructure:"seq_url"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "tinyrel")
	v.SetDefault("storage.mode", "disk")
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("storage.name", "main")
	v.SetDefault("storage.index_kind", "hash")
	v.SetDefault("storage.row_cache", 256)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.seq_url", "")
}

// LoadConfig reads a YAML file. An empty path uses defaults only.
// TINYREL_* environment variables override file values,
// e.g. TINYREL_STORAGE_MODE=mem.
func LoadConfig(path string) (*TinyRelConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("tinyrel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg TinyRelConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.Storage.Mode {
	case "mem", "disk":
	default:
		return nil, fmt.Errorf("config: storage.mode must be mem or disk, got %q", cfg.Storage.Mode)
	}
	return &cfg, nil
}

// URL renders the storage section as a connection URL.
func (c *TinyRelConfig) URL() string {
	if c.Storage.Mode == "mem" {
		return "mem:" + c.Storage.Name
	}
	return "disk:" + c.Storage.Workdir
}
