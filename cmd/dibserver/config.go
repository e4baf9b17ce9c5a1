package main

import (
	"errors"
	"os"

	"github.com/lemmi/dropinblog/core"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given.
const DefaultConfigFile = "dibserver.yaml"

// tokenEnv overrides the api token from the config file.
const tokenEnv = "DROPINBLOG_API_TOKEN"

var ErrConfigNotFound = errors.New("configuration file not found")

// Config is the server configuration. Flags override values read from the
// file.
type Config struct {
	Bind     string      `yaml:"bind"`
	Network  string      `yaml:"net"`
	Prefix   string      `yaml:"prefix"`
	Git      bool        `yaml:"git"`
	Branch   string      `yaml:"branch"`
	SiteName string      `yaml:"site_name"`
	Debug    bool        `yaml:"debug"`
	Sanitize bool        `yaml:"sanitize"`
	Blog     core.Config `yaml:"blog"`
}

func defaultConfig() Config {
	return Config{
		Bind:    "localhost:8080",
		Network: "tcp",
		Prefix:  "../example_page",
		Branch:  "master",
	}
}

// LoadConfigFile reads path over the defaults. A missing file yields
// ErrConfigNotFound.
func LoadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if tok := os.Getenv(tokenEnv); tok != "" {
		cfg.Blog.APIToken = tok
	}
}
