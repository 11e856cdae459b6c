package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToJSON converts a WorkflowDefinition to an indented JSON string.
func (d *WorkflowDefinition) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}

// ToYAML converts a WorkflowDefinition to a YAML string.
func (d *WorkflowDefinition) ToYAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return string(data), nil
}

// FromJSON parses a WorkflowDefinition from JSON.
func FromJSON(data []byte) (*WorkflowDefinition, error) {
	var def WorkflowDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal WorkflowDefinition: %w", err)
	}
	return &def, nil
}

// FromYAML parses a WorkflowDefinition from YAML.
func FromYAML(data []byte) (*WorkflowDefinition, error) {
	var def WorkflowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal WorkflowDefinition: %w", err)
	}
	return &def, nil
}

// LoadDefinitionFile reads a definition from a .json, .yaml, or .yml file.
func LoadDefinitionFile(path string) (*WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	switch {
	case strings.HasSuffix(path, ".json"):
		return FromJSON(data)
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported definition file extension: %s", path)
	}
}
