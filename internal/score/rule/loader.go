package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

// Rule types accepted in the rules document.
const (
	TypeCosineSimilarity = "cosine_similarity"
	TypeThreshold        = "threshold"
	TypeEquality         = "equality"
	TypeExpression       = "expression"
)

// Config is one entry of the rules document.
//
//	rules:
//	  - type: cosine_similarity
//	  - type: threshold
//	    column: budget
//	    threshold: 5000
//	  - type: equality
//	    column: hotel_name
//	  - type: expression
//	    when: "duration >= min_duration && duration <= max_duration"
type Config struct {
	Type string `yaml:"type"`
	// Column: abstract column token, see ResolveColumn.
	Column string `yaml:"column"`
	// Threshold: fixed threshold; when omitted the query budget is used.
	Threshold *float64 `yaml:"threshold"`
	// When: CEL expression of an expression rule.
	When string `yaml:"when"`
}

type document struct {
	Rules []Config `yaml:"rules"`
}

var columnAliases = map[string]string{
	"budget":             catalog.ColumnTotalCost,
	"total_cost":         catalog.ColumnTotalCost,
	"hotel_name":         catalog.ColumnAccommodationType,
	"city_name":          catalog.ColumnAccommodationType,
	"lodging":            catalog.ColumnAccommodationType,
	"accommodation_type": catalog.ColumnAccommodationType,
	"duration":           catalog.ColumnDuration,
	"month":              catalog.ColumnMonth,
}

// ResolveColumn maps an abstract column token to a concrete catalog column.
// Unknown tokens are taken as concrete column names.
func ResolveColumn(token string) string {
	if column, found := columnAliases[token]; found {
		return column
	}
	return token
}

// Parse decodes a rules document. JSON documents are accepted as well,
// being valid YAML.
func Parse(content []byte) ([]Config, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return doc.Rules, nil
}

// Build instantiates one rule per entry, preserving order.
// An unknown type or a missing required field fails the whole set.
func Build(configs []Config, c *catalog.Catalog, scaler *score.MinMaxScaler) ([]score.Rule, error) {
	rules := make([]score.Rule, 0, len(configs))

	for i, cfg := range configs {
		switch cfg.Type {
		case TypeCosineSimilarity:
			rules = append(rules, NewCosineSimilarityRule(scaler, c))
		case TypeThreshold:
			if cfg.Column == "" {
				return nil, fmt.Errorf("rule %d: threshold rule requires a column", i)
			}
			rules = append(rules, NewThresholdRule(ResolveColumn(cfg.Column), cfg.Threshold))
		case TypeEquality:
			if cfg.Column == "" {
				return nil, fmt.Errorf("rule %d: equality rule requires a column", i)
			}
			rules = append(rules, NewEqualityRule(ResolveColumn(cfg.Column)))
		case TypeExpression:
			env, err := NewDestinationEnv()
			if err != nil {
				return nil, err
			}
			r := &ExpressionRule{When: cfg.When}
			if err := r.Init(env); err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			rules = append(rules, r)
		default:
			return nil, fmt.Errorf("rule %d: unknown rule type %q", i, cfg.Type)
		}
	}

	return rules, nil
}

// LoadFromFile reads, parses and builds the rule set stored in file.
func LoadFromFile(file string, c *catalog.Catalog, scaler *score.MinMaxScaler) ([]score.Rule, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	configs, err := Parse(content)
	if err != nil {
		return nil, err
	}

	return Build(configs, c, scaler)
}
