package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

func rankerCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Destination{
		{Name: "A", AccommodationCost: 500, TransportationCost: 100, Duration: 3, Month: 6, AccommodationType: "Hotel"},
		{Name: "B", AccommodationCost: 800, TransportationCost: 200, Duration: 4, Month: 6, AccommodationType: "Resort"},
		{Name: "C", AccommodationCost: 900, TransportationCost: 300, Duration: 5, Month: 6, AccommodationType: "Hotel"},
		{Name: "D", AccommodationCost: 300, TransportationCost: 100, Duration: 2, Month: 1, AccommodationType: "Hotel"},
		{Name: "E", AccommodationCost: 200, TransportationCost: 100, Duration: 7, Month: 2},
	})
}

func names(results []Recommendation) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Destination
	}
	return out
}

func TestRanker_BudgetFilterIsInclusive(t *testing.T) {
	c := rankerCatalog()
	q := score.Query{Budget: 1000, MinDuration: 1, MaxDuration: 1, Month: 1}

	got := NewRanker(6).Rank(q, c, score.Vector{0.1, 0.2, 0.9, 0.3, 0.4})

	assert.Equal(t, []string{"E", "D", "B", "A"}, names(got))
	for _, r := range got {
		assert.LessOrEqual(t, r.TotalCost, q.Budget)
	}
}

func TestRanker_LodgingFilter(t *testing.T) {
	c := rankerCatalog()
	q := score.Query{Budget: 5000, MinDuration: 1, MaxDuration: 1, Month: 1, Lodging: "Hotel"}

	got := NewRanker(6).Rank(q, c, score.Vector{0.5, 0.9, 0.4, 0.6, 1})

	assert.Equal(t, []string{"D", "A", "C"}, names(got))
	for _, r := range got {
		assert.Equal(t, "Hotel", r.AccommodationType)
	}
}

func TestRanker_StableTies(t *testing.T) {
	c := rankerCatalog()
	q := score.Query{Budget: 5000, MinDuration: 1, MaxDuration: 1, Month: 1}

	got := NewRanker(6).Rank(q, c, score.Vector{0.5, 0.7, 0.5, 0.5, 0.7})

	assert.Equal(t, []string{"B", "E", "A", "C", "D"}, names(got))
}

func TestRanker_TopK(t *testing.T) {
	c := rankerCatalog()
	q := score.Query{Budget: 5000, MinDuration: 1, MaxDuration: 1, Month: 1}

	got := NewRanker(2).Rank(q, c, score.Vector{0.1, 0.2, 0.3, 0.4, 0.5})

	assert.Equal(t, []string{"E", "D"}, names(got))
}

func TestRanker_Empty(t *testing.T) {
	c := rankerCatalog()
	q := score.Query{Budget: 10, MinDuration: 1, MaxDuration: 1, Month: 1}

	got := NewRanker(6).Rank(q, c, score.Zeros(c.Len()))

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRanker_Projection(t *testing.T) {
	c := rankerCatalog()
	q := score.Query{Budget: 600, MinDuration: 1, MaxDuration: 1, Month: 1, Lodging: "Hotel"}

	got := NewRanker(6).Rank(q, c, score.Vector{0.25, 0, 0, 0.75, 0})

	require.Len(t, got, 2)
	assert.Equal(t, Recommendation{
		Destination:       "D",
		TotalCost:         400,
		Duration:          2,
		AccommodationType: "Hotel",
		Similarity:        0.75,
	}, got[0])
}

func TestRanker_DoesNotMutateCatalog(t *testing.T) {
	c := rankerCatalog()
	before := c.Destinations()

	NewRanker(6).Rank(score.Query{Budget: 5000, Month: 1}, c, score.Vector{1, 2, 3, 4, 5})

	assert.Equal(t, before, c.Destinations())
}

func TestNewRanker_Default(t *testing.T) {
	assert.Equal(t, DefaultTopK, NewRanker(0).TopK())
}
