package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the render and collection defaults. Every field can be
// overridden by a CLI flag; the file and environment only set defaults.
type Config struct {
	Title    string `mapstructure:"title"`
	Subtitle string `mapstructure:"subtitle"`
	ASCII    bool   `mapstructure:"ascii"`
	NoColor  bool   `mapstructure:"no_color"`
	Format   string `mapstructure:"format"`
	Fast     bool   `mapstructure:"fast"`
}

func Default() *Config {
	return &Config{
		Title:    "SYSREPORT",
		Subtitle: "machine report",
		Format:   "table",
	}
}

// Load reads sysreport.yaml from the user config dir or the working
// directory, then applies SYSREPORT_ environment overrides. A missing
// file is not an error: the defaults stand.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sysreport")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("SYSREPORT")
	for _, key := range []string{"title", "subtitle", "ascii", "no_color", "format", "fast"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A present but unreadable file is a real error; only an
			// explicitly named missing file is too.
			if cfgFile != "" || !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "sysreport")
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sysreport")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "sysreport")
}
