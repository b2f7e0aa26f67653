// Package config loads and validates the application configuration from a
// YAML file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces all environment overrides, e.g. ELASTIPLOT_LOGGING_LEVEL.
const envPrefix = "ELASTIPLOT"

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Plot    PlotConfig    `yaml:"plot" envconfig:"PLOT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/elastiplot.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" default:"data/elasticities.csv" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/reports" validate:"required"`
	ImageFile string `yaml:"image_file" envconfig:"IMAGE_FILE" default:"forest.png" validate:"required"`
}

// PlotConfig contains the rendering parameters passed to the plotting layer.
// Styling lives here rather than in the plotter so the transform stays
// render-agnostic.
type PlotConfig struct {
	Title        string  `yaml:"title" envconfig:"TITLE" default:"Cross-Price Elasticities of Meat Demand"`
	WidthInches  float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" default:"12" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" default:"8" validate:"gt=0"`
	DPI          int     `yaml:"dpi" envconfig:"DPI" default:"300" validate:"gt=0"`

	// Colors maps the four display meat-type labels to hex colors. The
	// palette is fixed per label so facets stay visually stable between runs.
	Colors map[string]string `yaml:"colors" envconfig:"COLORS"`
}

// defaultColors is the fixed four-color palette keyed by display label.
func defaultColors() map[string]string {
	return map[string]string{
		"Beef":    "#D62728",
		"Pork":    "#FF7F0E",
		"Chicken": "#2CA02C",
		"Fish":    "#1F77B4",
	}
}

// Load loads configuration from the given YAML file (if it exists) and
// applies environment variable overrides. An empty path loads defaults plus
// environment only.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Defaults and environment first, per envconfig struct tags.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := mergeFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if len(cfg.Plot.Colors) == 0 {
		cfg.Plot.Colors = defaultColors()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeFile overlays values from the YAML file onto cfg. File values win over
// defaults; fields absent from the file keep their current values.
func mergeFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration using struct validation tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// ImagePath returns the full path of the output image.
func (c *Config) ImagePath() string {
	return filepath.Join(c.Paths.OutputDir, c.Paths.ImageFile)
}

// EnsureOutputDir creates the output directory if it does not exist.
func (c *Config) EnsureOutputDir() error {
	return os.MkdirAll(c.Paths.OutputDir, 0755)
}
