package rule

import (
	"log/slog"
	"math"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

// CosineSimilarityRule scores every destination by the cosine similarity
// between its normalized {TotalCost, Duration, Month} row and the query's
// normalized feature vector. The catalog matrix is normalized once, with the
// same scaler later applied to queries, so both live in one space.
type CosineSimilarityRule struct {
	scaler *score.MinMaxScaler
	// matrix: normalized catalog features, one row per destination.
	matrix [][3]float64
	// norms: precomputed Euclidean norms of matrix rows.
	norms []float64
}

// NewCosineSimilarityRule binds the rule to a fitted scaler and the catalog
// it was fitted on.
func NewCosineSimilarityRule(scaler *score.MinMaxScaler, c *catalog.Catalog) *CosineSimilarityRule {
	matrix := scaler.TransformAll(c.Features())
	norms := make([]float64, len(matrix))
	for i, row := range matrix {
		norms[i] = norm(row)
	}
	return &CosineSimilarityRule{scaler: scaler, matrix: matrix, norms: norms}
}

// Evaluate returns one similarity per row, in [-1, 1].
// Rows or queries with a zero norm get similarity 0.
func (r *CosineSimilarityRule) Evaluate(q score.Query, c *catalog.Catalog) score.Vector {
	if c.Len() != len(r.matrix) {
		slog.Warn("cosine rule bound to a different catalog", "rows", len(r.matrix), "catalog", c.Len())
		return score.Zeros(c.Len())
	}

	x := r.scaler.Transform(q.Features())
	xNorm := norm(x)

	result := score.Zeros(len(r.matrix))
	if xNorm == 0 {
		return result
	}
	for i, row := range r.matrix {
		if r.norms[i] == 0 {
			continue
		}
		result[i] = dot(x, row) / (xNorm * r.norms[i])
	}
	return result
}

// Name returns the configuration type of the rule.
func (r *CosineSimilarityRule) Name() string {
	return TypeCosineSimilarity
}

// ThresholdRule yields 1.0 for rows whose column value does not exceed the
// threshold and 0.0 otherwise.
//
// With a configured threshold the comparison is against that fixed value and
// the query does not affect the outcome. Without one, the query budget is used
// as the threshold.
type ThresholdRule struct {
	column    string
	threshold *float64
}

// NewThresholdRule creates a threshold rule on column. A nil threshold means
// "use the query budget".
func NewThresholdRule(column string, threshold *float64) *ThresholdRule {
	return &ThresholdRule{column: column, threshold: threshold}
}

// Evaluate returns zeros when the column is absent or not numeric.
func (r *ThresholdRule) Evaluate(q score.Query, c *catalog.Catalog) score.Vector {
	values, found := c.Numeric(r.column)
	if !found {
		slog.Debug("threshold rule column not found", "column", r.column)
		return score.Zeros(c.Len())
	}

	limit := q.Budget
	if r.threshold != nil {
		limit = *r.threshold
	}

	result := score.Zeros(len(values))
	for i, v := range values {
		if v <= limit {
			result[i] = 1.0
		}
	}
	return result
}

// Name returns the configuration type of the rule.
func (r *ThresholdRule) Name() string {
	return TypeThreshold
}

// EqualityRule yields 1.0 for rows whose text column equals the query's
// lodging type exactly.
type EqualityRule struct {
	column string
}

// NewEqualityRule creates an equality rule on column.
func NewEqualityRule(column string) *EqualityRule {
	return &EqualityRule{column: column}
}

// Evaluate returns zeros when no lodging type is requested or the column is
// absent.
func (r *EqualityRule) Evaluate(q score.Query, c *catalog.Catalog) score.Vector {
	if !q.HasLodging() {
		return score.Zeros(c.Len())
	}

	values, found := c.Text(r.column)
	if !found {
		slog.Debug("equality rule column not found", "column", r.column)
		return score.Zeros(c.Len())
	}

	result := score.Zeros(len(values))
	for i, v := range values {
		if v == q.Lodging {
			result[i] = 1.0
		}
	}
	return result
}

// Name returns the configuration type of the rule.
func (r *EqualityRule) Name() string {
	return TypeEquality
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}
