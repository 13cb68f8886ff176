// Package template models the stack template graph the naming passes
// operate on: a mapping of logical id to typed resource declaration, plus
// optional stack outputs. The engine mutates these structures in place;
// all file I/O stays in this package and the driver.
package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Resource is a single typed declaration in a stack template.
// Properties is mutated in place by the naming pass; every other field
// passes through untouched.
type Resource struct {
	Type           string         `yaml:"Type,omitempty" json:"Type,omitempty"`
	Properties     map[string]any `yaml:"Properties,omitempty" json:"Properties,omitempty"`
	DependsOn      any            `yaml:"DependsOn,omitempty" json:"DependsOn,omitempty"`
	Condition      string         `yaml:"Condition,omitempty" json:"Condition,omitempty"`
	DeletionPolicy string         `yaml:"DeletionPolicy,omitempty" json:"DeletionPolicy,omitempty"`
	Metadata       map[string]any `yaml:"Metadata,omitempty" json:"Metadata,omitempty"`
}

// Output is a named output of the overall graph. Export is created on
// demand by the export-naming pass when absent.
type Output struct {
	Description string         `yaml:"Description,omitempty" json:"Description,omitempty"`
	Value       any            `yaml:"Value,omitempty" json:"Value,omitempty"`
	Export      map[string]any `yaml:"Export,omitempty" json:"Export,omitempty"`
	Condition   string         `yaml:"Condition,omitempty" json:"Condition,omitempty"`
}

// Template is a stack template document.
type Template struct {
	FormatVersion string               `yaml:"AWSTemplateFormatVersion,omitempty" json:"AWSTemplateFormatVersion,omitempty"`
	Description   string               `yaml:"Description,omitempty" json:"Description,omitempty"`
	Parameters    map[string]any       `yaml:"Parameters,omitempty" json:"Parameters,omitempty"`
	Mappings      map[string]any       `yaml:"Mappings,omitempty" json:"Mappings,omitempty"`
	Conditions    map[string]any       `yaml:"Conditions,omitempty" json:"Conditions,omitempty"`
	Resources     map[string]*Resource `yaml:"Resources" json:"Resources"`
	Outputs       map[string]*Output   `yaml:"Outputs,omitempty" json:"Outputs,omitempty"`
}

// Parse decodes a YAML (or JSON, which YAML subsumes) template document.
func Parse(data []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if tpl.Resources == nil {
		tpl.Resources = map[string]*Resource{}
	}
	return &tpl, nil
}

// Load reads and parses a template file.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return Parse(data)
}

// Marshal serializes the template as YAML.
func (t *Template) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}
	return data, nil
}

// Save writes the template to path as YAML.
func Save(path string, t *Template) error {
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}
