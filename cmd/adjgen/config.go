package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the adjgen configuration file
// (~/.config/adjgen/config.yaml). Fields are pointers where "not set" must
// be distinguishable from zero values.
type Config struct {
	WordsPath string `yaml:"words_path"`
	ModelPath string `yaml:"model_path"`

	// Training defaults
	Width     *int64   `yaml:"width"`
	Depth     *int64   `yaml:"depth"`
	Epochs    *int64   `yaml:"epochs"`
	BatchSize *int64   `yaml:"batch_size"`
	ValFrac   *float64 `yaml:"val_frac"`

	// Sampling defaults
	Temperature *float64 `yaml:"temperature"`
	Count       *int64   `yaml:"count"`
	Seed        *int64   `yaml:"seed"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "adjgen", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file does
// not exist or cannot be parsed; flags always work without it.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}
	}
	return cfg
}

func parseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyTrainConfig applies config file defaults to train command variables
// when the corresponding CLI flag was not explicitly set.
func applyTrainConfig(c *cli.Command, cfg Config,
	wordsPath, outPath *string, width, depth, epochs, batchSize *int64,
	valFrac *float64, seed *int64,
) {
	if cfg.WordsPath != "" && !c.IsSet("words") {
		*wordsPath = cfg.WordsPath
	}
	if cfg.ModelPath != "" && !c.IsSet("out") {
		*outPath = cfg.ModelPath
	}
	if cfg.Width != nil && !c.IsSet("width") {
		*width = *cfg.Width
	}
	if cfg.Depth != nil && !c.IsSet("depth") {
		*depth = *cfg.Depth
	}
	if cfg.Epochs != nil && !c.IsSet("epochs") {
		*epochs = *cfg.Epochs
	}
	if cfg.BatchSize != nil && !c.IsSet("batch-size") && !c.IsSet("batch_size") {
		*batchSize = *cfg.BatchSize
	}
	if cfg.ValFrac != nil && !c.IsSet("val-frac") {
		*valFrac = *cfg.ValFrac
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
}

// applyGenConfig applies config file defaults to gen command variables.
func applyGenConfig(c *cli.Command, cfg Config,
	modelPath *string, temp *float64, count, seed *int64,
) {
	if cfg.ModelPath != "" && !c.IsSet("model") {
		*modelPath = cfg.ModelPath
	}
	if cfg.Temperature != nil && !c.IsSet("temp") && !c.IsSet("temperature") && !c.IsSet("t") {
		*temp = *cfg.Temperature
	}
	if cfg.Count != nil && !c.IsSet("count") {
		*count = *cfg.Count
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
}
