package score

// MinMaxScaler maps each feature to (x - min) / (max - min) using bounds
// observed at fit time. Values outside the fitted range fall outside [0, 1];
// nothing is clamped. A feature with zero variance maps to 0.
//
// The scaler is immutable after FitMinMax and safe for concurrent use.
type MinMaxScaler struct {
	min [3]float64
	max [3]float64
}

// FitMinMax computes per-feature bounds over rows.
// With no rows every feature is degenerate and transforms to 0.
func FitMinMax(rows [][3]float64) *MinMaxScaler {
	s := &MinMaxScaler{}
	for i, row := range rows {
		for f, v := range row {
			if i == 0 || v < s.min[f] {
				s.min[f] = v
			}
			if i == 0 || v > s.max[f] {
				s.max[f] = v
			}
		}
	}
	return s
}

// Transform scales one feature row.
func (s *MinMaxScaler) Transform(x [3]float64) [3]float64 {
	var result [3]float64
	for f := range x {
		span := s.max[f] - s.min[f]
		if span == 0 {
			continue
		}
		result[f] = (x[f] - s.min[f]) / span
	}
	return result
}

// TransformAll scales every row.
func (s *MinMaxScaler) TransformAll(rows [][3]float64) [][3]float64 {
	result := make([][3]float64, len(rows))
	for i, row := range rows {
		result[i] = s.Transform(row)
	}
	return result
}

// Bounds returns the fitted per-feature minimum and maximum.
func (s *MinMaxScaler) Bounds() (lo, hi [3]float64) {
	return s.min, s.max
}
