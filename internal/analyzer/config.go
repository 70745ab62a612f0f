package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RulesOverride extends the built-in rule set from a YAML file. Keywords and
// patterns are appended to the matching category; unknown categories are
// rejected so typos fail loudly at startup. Priority phrases, tag rules and
// stopwords are appended as-is.
type RulesOverride struct {
	Categories []CategoryRule `yaml:"categories"`
	Priority   PriorityRules  `yaml:"priority"`
	Tags       []TagRule      `yaml:"tags"`
	Stopwords  []string       `yaml:"stopwords"`
}

// LoadRulesFile reads a YAML rules override file
func LoadRulesFile(path string) (*RulesOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var override RulesOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	return &override, nil
}

// Merge applies the override on top of the rule set
func (r *Rules) Merge(override *RulesOverride) error {
	if override == nil {
		return nil
	}

	for _, oc := range override.Categories {
		merged := false
		for i := range r.Categories {
			if r.Categories[i].Category != oc.Category {
				continue
			}
			r.Categories[i].Keywords = append(r.Categories[i].Keywords, oc.Keywords...)
			r.Categories[i].Patterns = append(r.Categories[i].Patterns, oc.Patterns...)
			if oc.Weight != 0 {
				r.Categories[i].Weight = oc.Weight
			}
			merged = true
			break
		}
		if !merged {
			return fmt.Errorf("unknown category in rules override: %s", oc.Category)
		}
	}

	r.Priority.High = append(r.Priority.High, override.Priority.High...)
	r.Priority.Medium = append(r.Priority.Medium, override.Priority.Medium...)
	r.Priority.Low = append(r.Priority.Low, override.Priority.Low...)
	r.Tags = append(r.Tags, override.Tags...)
	r.Stopwords = append(r.Stopwords, override.Stopwords...)

	return nil
}
