package score

import (
	"tripmatch/internal/catalog"
)

// Vector holds one value per catalog row, in catalog order.
type Vector []float64

// Zeros returns a vector of n zeros.
func Zeros(n int) Vector {
	return make(Vector, n)
}

// Fill returns a vector of n copies of v.
func Fill(n int, v float64) Vector {
	result := make(Vector, n)
	for i := range result {
		result[i] = v
	}
	return result
}

// Rule is a scoring policy evaluated against a query and the catalog.
// Implementations always return a vector of length c.Len(); a rule that
// cannot apply returns zeros rather than an error.
type Rule interface {
	Evaluate(q Query, c *catalog.Catalog) Vector
	Name() string
}

// Scorer combines rules into one aggregate score per catalog row.
type Scorer interface {
	Score(q Query, c *catalog.Catalog) Vector
}
