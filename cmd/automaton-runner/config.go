package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the runner's trigger inventory, loaded from a YAML file.
type Config struct {
	Triggers []TriggerConfig `yaml:"triggers"`
}

// TriggerConfig declares one trigger instance. Settings beyond type are
// passed to the trigger factory untouched.
type TriggerConfig struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read triggers file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse triggers file: %w", err)
	}

	if len(config.Triggers) == 0 {
		return nil, fmt.Errorf("triggers file %s declares no triggers", path)
	}

	return &config, nil
}
