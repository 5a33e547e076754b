package scorer

import (
	"log/slog"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

// Aggregator combines the outputs of several rules into one score per
// catalog row: the unweighted element-wise mean across rules.
// Every rule weighs the same regardless of its kind.
//
// Aggregator holds no mutable state and is safe for concurrent use when its
// rules are.
type Aggregator struct {
	rules []score.Rule // rules in evaluation order
}

// Score evaluates every rule for q and averages the results.
// With no rules the result is all zeros. A rule that returns a vector of the
// wrong length contributes zeros for this call.
func (a *Aggregator) Score(q score.Query, c *catalog.Catalog) score.Vector {
	n := c.Len()
	result := score.Zeros(n)
	if len(a.rules) == 0 {
		return result
	}

	for _, rule := range a.rules {
		values := rule.Evaluate(q, c)
		if len(values) != n {
			slog.Warn("rule output length mismatch", "rule", rule.Name(), "got", len(values), "want", n)
			continue
		}
		for i, v := range values {
			result[i] += v
		}
	}

	count := float64(len(a.rules))
	for i := range result {
		result[i] /= count
	}
	return result
}

// Rules returns the number of aggregated rules.
func (a *Aggregator) Rules() int {
	return len(a.rules)
}

// NewAggregator creates an aggregator over rules, evaluated in the given order.
func NewAggregator(rules []score.Rule) *Aggregator {
	return &Aggregator{rules: rules}
}
