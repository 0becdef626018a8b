package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"projectboard/internal/domain"
	"projectboard/internal/validate"
)

// Field names the input collector validates.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPeople      = "people"
)

// Config models board.yml.
type Config struct {
	Fields map[string]Rule        `yaml:"fields" json:"fields"`
	Groups map[string]GroupConfig `yaml:"groups" json:"groups"`
}

// Rule is the declarative constraint set for one field. Nil bounds are absent.
type Rule struct {
	Required  bool     `yaml:"required" json:"required"`
	MinLength *int     `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength *int     `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

type GroupConfig struct {
	Heading string `yaml:"heading" json:"heading"`
}

// Spec binds the rule to a value.
func (r Rule) Spec(v validate.Value) validate.Spec {
	return validate.Spec{
		Value:     v,
		Required:  r.Required,
		MinLength: r.MinLength,
		MaxLength: r.MaxLength,
		Min:       r.Min,
		Max:       r.Max,
	}
}

// Rule returns the rule for a field; unknown fields get an empty rule.
func (c *Config) Rule(field string) Rule {
	if c == nil {
		return Rule{}
	}
	return c.Fields[field]
}

// Heading returns the configured heading for a group, or "".
func (c *Config) Heading(group domain.Status) string {
	if c == nil {
		return ""
	}
	return c.Groups[string(group)].Heading
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	for name, rule := range c.Fields {
		switch name {
		case FieldTitle, FieldDescription, FieldPeople:
		default:
			return fmt.Errorf("config.fields.%s is not a known field", name)
		}
		if rule.MinLength != nil && *rule.MinLength < 0 {
			return fmt.Errorf("config.fields.%s.min_length must not be negative", name)
		}
		if rule.MinLength != nil && rule.MaxLength != nil && *rule.MinLength > *rule.MaxLength {
			return fmt.Errorf("config.fields.%s.min_length exceeds max_length", name)
		}
		if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
			return fmt.Errorf("config.fields.%s.min exceeds max", name)
		}
	}
	for name := range c.Groups {
		if _, err := domain.ParseStatus(name); err != nil {
			return fmt.Errorf("config.groups: %w", err)
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "board.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the built-in rules.
func Default() *Config {
	cfg, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Errorf("default board config: %w", err))
	}
	return cfg
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with board config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	cfg, err := Load(workspace)
	if err != nil {
		if _, statErr := os.Stat(Path(workspace)); os.IsNotExist(statErr) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default board.yml unless one exists and force is false.
func WriteDefault(workspace string, force bool) (string, error) {
	path := Path(workspace)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config %s already exists; use --force to overwrite", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n") + "\n", nil
}

const defaultTemplate = `fields:
  title:
    required: true
  description:
    required: true
    min_length: 5
  people:
    required: true
    min: 1
    max: 5

groups:
  active:
    heading: ACTIVE PROJECTS
  finished:
    heading: FINISHED PROJECTS
`
