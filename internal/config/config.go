package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Parser    ParserConfig    `yaml:"parser" envconfig:"PARSER"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// ParserConfig controls how DAT files are decoded
type ParserConfig struct {
	TrailingChunkPolicy TrailingChunkPolicy `yaml:"trailing_chunk_policy" envconfig:"TRAILING_CHUNK_POLICY" validate:"oneof=skip strict"`
	Workers             int                 `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	Layout              string              `yaml:"layout" envconfig:"LAYOUT" validate:"omitempty,oneof=daily intraday"`
	ProgressEvery       int                 `yaml:"progress_every" envconfig:"PROGRESS_EVERY" validate:"min=1"`
}

// ExportConfig controls the generated output files
type ExportConfig struct {
	BOM      bool `yaml:"bom" envconfig:"BOM"`
	Combined bool `yaml:"combined" envconfig:"COMBINED"`
	XLSX     bool `yaml:"xlsx" envconfig:"XLSX"`
}

// TelemetryConfig contains metrics and tracing configuration
type TelemetryConfig struct {
	Metrics   bool   `yaml:"metrics" envconfig:"METRICS"`
	Tracing   bool   `yaml:"tracing" envconfig:"TRACING"`
	TraceFile string `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=Tracing true"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
		}
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No default tags: unset variables leave file and default values intact.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks all field constraints
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// getConfigFilePath returns the first config file found in the common locations
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/datparser.log",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Parser: ParserConfig{
			TrailingChunkPolicy: TrailingChunkSkip,
			Workers:             1,
			ProgressEvery:       DefaultProgressEvery,
		},
		Export: ExportConfig{
			BOM:      false,
			Combined: true,
			XLSX:     false,
		},
		Telemetry: TelemetryConfig{
			Metrics:   true,
			Tracing:   false,
			TraceFile: "logs/traces.json",
		},
	}
}
