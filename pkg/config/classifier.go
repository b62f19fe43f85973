package config

// ClassifierConfig configures prompt routing.
type ClassifierConfig struct {
	// Enabled controls whether prompt classification runs. Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Rules is the priority-ordered routing table. First match wins;
	// the order in the config file is the evaluation order.
	Rules []ClassifierRule `json:"rules,omitempty" koanf:"rules" toml:"rules,omitempty"`
}

// IsEnabled returns whether the classifier is enabled.
func (c *ClassifierConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// ClassifierRule maps a prompt pattern to a named handler.
type ClassifierRule struct {
	// Pattern is a regular expression matched against the prompt.
	Pattern string `json:"pattern" koanf:"pattern" toml:"pattern"`

	// Label is the handler name emitted when the pattern matches.
	Label string `json:"label" koanf:"label" toml:"label"`

	// Description explains the rule for humans.
	Description string `json:"description,omitempty" koanf:"description" toml:"description,omitempty"`
}
