package rule

import (
	"log/slog"

	"github.com/google/cel-go/cel"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

// NewDestinationEnv declares the variables visible to expression rules:
// the destination row being scored and the query it is scored against.
func NewDestinationEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.CrossTypeNumericComparisons(true),

		// --- Destination ---
		cel.Variable("name", cel.StringType),
		cel.Variable("total_cost", cel.DoubleType),
		cel.Variable("accommodation_cost", cel.DoubleType),
		cel.Variable("transportation_cost", cel.DoubleType),
		cel.Variable("duration", cel.DoubleType),
		cel.Variable("month", cel.IntType),
		cel.Variable("lodging", cel.StringType),

		// --- Query ---
		cel.Variable("budget", cel.DoubleType),
		cel.Variable("min_duration", cel.IntType),
		cel.Variable("max_duration", cel.IntType),
		cel.Variable("query_month", cel.IntType),
		cel.Variable("query_lodging", cel.StringType),
	)
}

// ExpressionRule yields 1.0 for rows on which the When expression holds.
// The CEL program is compiled by Init and reused for every evaluation.
type ExpressionRule struct {
	// When: CEL expression returning a boolean.
	When string
	// program: compiled CEL program used to execute the condition.
	program cel.Program
}

// Init compiles When into an executable program using env.
// Syntax and type errors are returned; after a successful Init the rule is
// ready for Evaluate.
func (r *ExpressionRule) Init(env *cel.Env) error {
	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}

	var err error
	r.program, err = env.Program(checked)
	if err != nil {
		return err
	}

	return nil
}

// Evaluate runs the program once per destination. A false result or a
// runtime error gives 0.0 for that row and does not interrupt evaluation.
func (r *ExpressionRule) Evaluate(q score.Query, c *catalog.Catalog) score.Vector {
	result := score.Zeros(c.Len())
	if r.program == nil {
		return result
	}

	vars := map[string]any{
		"budget":        q.Budget,
		"min_duration":  int64(q.MinDuration),
		"max_duration":  int64(q.MaxDuration),
		"query_month":   int64(q.Month),
		"query_lodging": q.Lodging,
	}

	for i := range result {
		d := c.At(i)
		vars["name"] = d.Name
		vars["total_cost"] = d.TotalCost
		vars["accommodation_cost"] = d.AccommodationCost
		vars["transportation_cost"] = d.TransportationCost
		vars["duration"] = d.Duration
		vars["month"] = int64(d.Month)
		vars["lodging"] = d.AccommodationType

		out, _, err := r.program.Eval(vars)
		if err != nil {
			slog.Debug("expression rule eval", "error", err, "when", r.When, "destination", d.Name)
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			result[i] = 1.0
		}
	}
	return result
}

// Name returns the configuration type of the rule.
func (r *ExpressionRule) Name() string {
	return TypeExpression
}
