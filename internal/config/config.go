// Package config resolves run configuration from a YAML file, flags, and the
// environment. The resolved Config is passed explicitly into the batch
// driver and its collaborators; nothing reads ambient state after startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML string parsing ("1s", "500ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config carries every knob for one experiment run.
type Config struct {
	ImageDir    string   `yaml:"image_dir"`
	ResultsDir  string   `yaml:"results_dir"`
	Store       string   `yaml:"store"` // "csv" or "sqlite"
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url"`
	Temperature float64  `yaml:"temperature"`
	MaxAttempts int      `yaml:"max_attempts"`
	Pacing      Duration `yaml:"pacing"`
	APIKeyFile  string   `yaml:"api_key_file"`

	// APIKey is resolved from the environment or APIKeyFile; never read
	// from the YAML file and never written back out.
	APIKey string `yaml:"-"`
}

// Default returns the built-in configuration, mirroring the reference run
// parameters.
func Default() Config {
	return Config{
		ImageDir:    "images",
		ResultsDir:  "results",
		Store:       "csv",
		Model:       "gpt-4o",
		BaseURL:     "https://api.openai.com/v1",
		Temperature: 0.7,
		MaxAttempts: 5,
		Pacing:      Duration(1 * time.Second),
		APIKeyFile:  ".sway-api-key",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// ResolveAPIKey fills APIKey from $SWAY_API_KEY, then $OPENAI_API_KEY, then
// the first line of APIKeyFile. An absent key is not an error here — dry
// paths like `pairs` and `report` never need one; `run` warns.
func (c *Config) ResolveAPIKey() error {
	for _, env := range []string{"SWAY_API_KEY", "OPENAI_API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			c.APIKey = v
			return nil
		}
	}
	data, err := os.ReadFile(c.APIKeyFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read api key file %q: %w", c.APIKeyFile, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	c.APIKey = strings.TrimSpace(line)
	return nil
}

// CSVPath is the durable CSV store location under ResultsDir.
func (c Config) CSVPath() string {
	return filepath.Join(c.ResultsDir, "analysis_results.csv")
}

// DBPath is the SQLite store location under ResultsDir.
func (c Config) DBPath() string {
	return filepath.Join(c.ResultsDir, "results.db")
}

// HTMLPath is the visual report location under ResultsDir.
func (c Config) HTMLPath() string {
	return filepath.Join(c.ResultsDir, "visual_report.html")
}
