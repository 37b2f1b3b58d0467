package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the tad configuration file (~/.config/tad/config.yaml).
// Values only apply when the corresponding flag was not given.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Default formats, used when neither a flag nor the extension decides.
	InputFormat  string `yaml:"input_format"`
	OutputFormat string `yaml:"output_format"`

	// info
	Statistics *bool `yaml:"statistics"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	if p := os.Getenv("TAD_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tad", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyFormatConfig fills in default formats. An explicit flag wins; a
// configured format is only used for files whose extension no backend
// claims.
func applyFormatConfig(c *cli.Command, cfg Config, known func(name string) bool, inputs []string, output string) {
	if cfg.InputFormat != "" && !c.IsSet("input-format") {
		for _, in := range inputs {
			if !known(in) {
				inputFormat = cfg.InputFormat
				break
			}
		}
	}
	if cfg.OutputFormat != "" && !c.IsSet("output-format") && output != "" && !known(output) {
		outputFormat = cfg.OutputFormat
	}
}

func applyInfoConfig(c *cli.Command, cfg Config, statistics *bool) {
	if cfg.Statistics != nil && !c.IsSet("statistics") {
		*statistics = *cfg.Statistics
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
