package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the sqlseg tool.
type Config struct {
	Segment SegmentConfig `yaml:"segment"`
	Convert ConvertConfig `yaml:"convert"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// SegmentConfig holds block segmentation thresholds and input patterns.
type SegmentConfig struct {
	MaxChunkSize  int      `yaml:"max_chunk_size"` // block size budget in characters
	SmallFragment int      `yaml:"small_fragment"` // below this a fragment is merge-eligible
	MergeCeiling  int      `yaml:"merge_ceiling"`  // combined size at which a merge buffer flushes
	Includes      []string `yaml:"includes"`
	Excludes      []string `yaml:"excludes"`
}

// ConvertConfig holds LLM conversion configuration.
type ConvertConfig struct {
	Provider       string  `yaml:"provider"` // "openai", "azure", "gemini", "mock"
	Model          string  `yaml:"model"`
	APIKeyEnv      string  `yaml:"api_key_env"` // environment variable for the API key
	BaseURL        string  `yaml:"base_url"`    // Azure endpoint or OpenAI-compatible override
	APIVersion     string  `yaml:"api_version"` // Azure api-version
	Deployment     string  `yaml:"deployment"`  // Azure deployment name
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// ExportConfig holds CSV export configuration.
type ExportConfig struct {
	CSV string `yaml:"csv"` // default mapping CSV path ("" = no export)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Segment: SegmentConfig{
			MaxChunkSize:  1200,
			SmallFragment: 180,
			MergeCeiling:  300,
			Includes:      []string{"**/*.sql"},
			Excludes:      []string{"**/.sqlseg/**"},
		},
		Convert: ConvertConfig{
			Provider:       "openai",
			Model:          "gpt-4o",
			APIKeyEnv:      "OPENAI_API_KEY",
			Temperature:    0.3,
			TimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for sqlseg.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "sqlseg.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".sqlseg", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AuditDBPath returns the path to the audit database.
func AuditDBPath(dir string) string {
	return filepath.Join(dir, ".sqlseg", "audit.db")
}

// EnsureWorkDir ensures the .sqlseg directory exists.
func EnsureWorkDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".sqlseg"), 0755)
}
