package recommend

import (
	"sort"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

// DefaultTopK is the size of the short-list returned to the user.
const DefaultTopK = 6

// Recommendation is one ranked destination.
type Recommendation struct {
	Destination       string  `json:"destination"`
	TotalCost         float64 `json:"total_cost"`
	Duration          float64 `json:"duration_days"`
	AccommodationType string  `json:"accommodation_type"`
	Similarity        float64 `json:"similarity"`
}

// Ranker applies the hard constraints and orders the survivors by score.
type Ranker struct {
	topK int
}

// NewRanker creates a ranker returning at most topK rows.
// A non-positive topK falls back to DefaultTopK.
func NewRanker(topK int) *Ranker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Ranker{topK: topK}
}

// TopK returns the result size limit.
func (r *Ranker) TopK() int {
	return r.topK
}

// Rank keeps rows with TotalCost <= budget and, when a lodging type is set,
// with exactly that accommodation type; then sorts by score descending,
// keeping catalog order among equal scores, and returns the first topK rows.
// The catalog is not modified. No survivors gives an empty, non-nil slice.
func (r *Ranker) Rank(q score.Query, c *catalog.Catalog, scores score.Vector) []Recommendation {
	type candidate struct {
		destination catalog.Destination
		score       float64
	}

	candidates := make([]candidate, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		d := c.At(i)
		if d.TotalCost > q.Budget {
			continue
		}
		if q.HasLodging() && d.AccommodationType != q.Lodging {
			continue
		}
		var s float64
		if i < len(scores) {
			s = scores[i]
		}
		candidates = append(candidates, candidate{destination: d, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > r.topK {
		candidates = candidates[:r.topK]
	}

	result := make([]Recommendation, len(candidates))
	for i, cand := range candidates {
		result[i] = Recommendation{
			Destination:       cand.destination.Name,
			TotalCost:         cand.destination.TotalCost,
			Duration:          cand.destination.Duration,
			AccommodationType: cand.destination.AccommodationType,
			Similarity:        cand.score,
		}
	}
	return result
}
