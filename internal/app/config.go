package app

import "errors"

// Config holds everything needed for an App instance to run one workflow
// (SPEC_FULL.md §6).
type Config struct {
	WorkflowPath string // positional argument: path to the workflow YAML file
	OutputDir    string // -o/--output-dir
	ConfigDir    string // -c/--config-dir, holding mmmm.toml
	ClearCache   bool   // --clear-cache

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns it as a pointer ready for NewApp.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkflowPath == "" {
		return nil, errors.New("WorkflowPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
