// Package config loads solver configuration from a YAML file with
// environment-variable overrides for the credentials.
package config

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region types

// Config is the full configuration surface, read once at startup.
type Config struct {
	APIURL  string `yaml:"api_url"`
	TeamID  string `yaml:"team_id"`
	Problem string `yaml:"problem"`

	Solver SolverConfig `yaml:"solver"`
}

// SolverConfig bounds the exploration session.
type SolverConfig struct {
	MaxIterations       int     `yaml:"max_iterations"`
	MaxPathLength       int     `yaml:"max_path_length"`
	MaxPlansPerBatch    int     `yaml:"max_plans_per_batch"`
	QueryBudget         int     `yaml:"query_budget"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	// RoomCount is the externally declared room count; 0 means undeclared.
	RoomCount int `yaml:"room_count"`
}

// #endregion types

// #region defaults

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		APIURL:  "http://localhost:8080",
		Problem: "probatio",
		Solver: SolverConfig{
			MaxIterations:       60,
			MaxPathLength:       12,
			MaxPlansPerBatch:    16,
			QueryBudget:         400,
			ConfidenceThreshold: 0.9,
		},
	}
}

// #endregion defaults

// #region load

// Load reads path (YAML) over the defaults, then applies env overrides
// WAYFINDER_API_URL and WAYFINDER_TEAM_ID. A missing file is not an error;
// the defaults plus env are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("unmarshal %s: %w", path, err)
		}
	}

	if v := os.Getenv("WAYFINDER_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("WAYFINDER_TEAM_ID"); v != "" {
		cfg.TeamID = v
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	s := c.Solver
	if s.MaxIterations <= 0 || s.MaxPathLength <= 0 || s.MaxPlansPerBatch <= 0 {
		return fmt.Errorf("solver limits must be positive: %+v", s)
	}
	if s.QueryBudget <= 0 {
		return fmt.Errorf("query budget must be positive, got %d", s.QueryBudget)
	}
	if s.ConfidenceThreshold <= 0 || s.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in (0,1], got %v", s.ConfidenceThreshold)
	}
	if s.RoomCount < 0 {
		return fmt.Errorf("room count must be >= 0, got %d", s.RoomCount)
	}
	return nil
}

// #endregion load
