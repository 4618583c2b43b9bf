package config

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the defaults used by the dsutil command.
// Values come from an optional YAML file; environment variables always
// override YAML values.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	CSV      CSVConfig      `yaml:"csv"`
	Outliers OutliersConfig `yaml:"outliers"`
	Encoding EncodingConfig `yaml:"encoding"`
	Split    SplitConfig    `yaml:"split"`
	Report   ReportConfig   `yaml:"report"`
	Model    ModelConfig    `yaml:"model"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	Level  string `yaml:"level" env:"DSUTIL_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"DSUTIL_LOG_FORMAT" env-default:"console"`
}

// CSVConfig controls how delimited files are read.
type CSVConfig struct {
	Delimiter  string   `yaml:"delimiter" env:"DSUTIL_CSV_DELIMITER" env-default:","`
	NullValues []string `yaml:"null_values" env:"DSUTIL_CSV_NULL_VALUES" env-separator:"|" env-default:"|NA|NaN|null|<nil>"`
}

// OutliersConfig holds the IQR multiplier.
type OutliersConfig struct {
	Factor float64 `yaml:"factor" env:"DSUTIL_OUTLIERS_FACTOR" env-default:"1.5"`
}

// EncodingConfig holds the default categorical encoding method.
type EncodingConfig struct {
	Method string `yaml:"method" env:"DSUTIL_ENCODING_METHOD" env-default:"onehot"`
}

// SplitConfig holds train/test split defaults.
type SplitConfig struct {
	TestRatio float64 `yaml:"test_ratio" env:"DSUTIL_SPLIT_TEST_RATIO" env-default:"0.2"`
	Seed      int64   `yaml:"seed" env:"DSUTIL_SPLIT_SEED" env-default:"42"`
}

// ReportConfig holds figure defaults.
type ReportConfig struct {
	Bins       int    `yaml:"bins" env:"DSUTIL_REPORT_BINS" env-default:"20"`
	FiguresDir string `yaml:"figures_dir" env:"DSUTIL_REPORT_FIGURES_DIR" env-default:"reports/figures"`
}

// ModelConfig holds random forest defaults for the train command.
type ModelConfig struct {
	NEstimators int    `yaml:"n_estimators" env:"DSUTIL_MODEL_N_ESTIMATORS" env-default:"100"`
	MaxDepth    int    `yaml:"max_depth" env:"DSUTIL_MODEL_MAX_DEPTH" env-default:"0"`
	Criterion   string `yaml:"criterion" env:"DSUTIL_MODEL_CRITERION" env-default:"gini"`
	Seed        int64  `yaml:"seed" env:"DSUTIL_MODEL_SEED" env-default:"42"`
}

// Load reads configuration from the YAML file at path with environment
// variable overrides. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cleanenv cannot check on its own.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	if c.Outliers.Factor < 0 || math.IsNaN(c.Outliers.Factor) {
		return fmt.Errorf("outliers.factor must be non-negative, got %v", c.Outliers.Factor)
	}
	if c.Encoding.Method != "onehot" && c.Encoding.Method != "label" {
		return fmt.Errorf("encoding.method must be 'onehot' or 'label', got %q", c.Encoding.Method)
	}
	if c.Split.TestRatio < 0 || c.Split.TestRatio > 1 {
		return fmt.Errorf("split.test_ratio must be within [0, 1], got %v", c.Split.TestRatio)
	}
	if c.Report.Bins <= 0 {
		return fmt.Errorf("report.bins must be positive, got %d", c.Report.Bins)
	}
	if c.Model.NEstimators < 1 {
		return fmt.Errorf("model.n_estimators must be at least 1, got %d", c.Model.NEstimators)
	}
	if c.Model.MaxDepth < 0 {
		return fmt.Errorf("model.max_depth must be non-negative, got %d", c.Model.MaxDepth)
	}
	if c.Model.Criterion != "gini" && c.Model.Criterion != "entropy" {
		return fmt.Errorf("model.criterion must be 'gini' or 'entropy', got %q", c.Model.Criterion)
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *CSVConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
