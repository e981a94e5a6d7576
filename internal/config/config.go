// Package config carries the tool's runtime configuration: logging, the
// fixed layout of the Master ledger sheet, and output naming. Precedence is
// environment (ATHEX_ prefix) over optional YAML file over built-in
// defaults.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Ledger  LedgerConfig  `yaml:"ledger" envconfig:"LEDGER"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// LedgerConfig pins down the Master sheet layout. The defaults describe the
// ledger as the back office maintains it: company headers in row 2 every 4
// columns starting at B, dates in column A, data from row 3.
type LedgerConfig struct {
	SheetName          string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	HeaderRow          int    `yaml:"header_row" envconfig:"HEADER_ROW"`
	DataStartRow       int    `yaml:"data_start_row" envconfig:"DATA_START_ROW"`
	FirstCompanyColumn int    `yaml:"first_company_column" envconfig:"FIRST_COMPANY_COLUMN"`
	ColumnStride       int    `yaml:"column_stride" envconfig:"COLUMN_STRIDE"`
}

// OutputConfig controls where the updated workbook lands. FilenamePattern
// receives the report date label (DD.MM.YYYY); the file is written next to
// the input ledger.
type OutputConfig struct {
	FilenamePattern string `yaml:"filename_pattern" envconfig:"FILENAME_PATTERN"`
}

// Load builds the configuration: defaults, then the optional YAML file,
// then environment variables, later layers winning. An empty configFile
// skips the file layer.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Unmarshal into the defaulted struct: keys absent from the file
		// keep their default values.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("ATHEX", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Ledger.SheetName == "" {
		return fmt.Errorf("ledger sheet name must not be empty")
	}
	if c.Ledger.HeaderRow < 1 {
		return fmt.Errorf("invalid ledger header row: %d", c.Ledger.HeaderRow)
	}
	if c.Ledger.DataStartRow <= c.Ledger.HeaderRow {
		return fmt.Errorf("ledger data start row %d must be below header row %d",
			c.Ledger.DataStartRow, c.Ledger.HeaderRow)
	}
	if c.Ledger.FirstCompanyColumn < 2 {
		return fmt.Errorf("first company column %d collides with the date column", c.Ledger.FirstCompanyColumn)
	}
	// A company block is [date, volume, count, prices]; a narrower stride
	// would make blocks overlap.
	if c.Ledger.ColumnStride < 4 {
		return fmt.Errorf("invalid ledger column stride: %d", c.Ledger.ColumnStride)
	}
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/blocktrades.log",
		},
		Ledger: LedgerConfig{
			SheetName:          "Master",
			HeaderRow:          2,
			DataStartRow:       3,
			FirstCompanyColumn: 2,
			ColumnStride:       4,
		},
		Output: OutputConfig{
			FilenamePattern: "Block Trades_updated as of %s.xlsx",
		},
	}
}
