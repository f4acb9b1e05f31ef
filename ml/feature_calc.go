package ml

import "math"

// StandardScale centres value on mean and divides by scale. A zero scale is
// treated as 1 so constant training columns pass through centred.
func StandardScale(value, mean, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	return (value - mean) / scale
}

// MinMaxScale maps [min, max] onto [lo, hi]. Values outside the training
// range are extrapolated, not clipped.
func MinMaxScale(value, min, max, lo, hi float64) float64 {
	span := max - min
	if span == 0 {
		span = 1
	}
	scale := (hi - lo) / span
	return value*scale + lo - min*scale
}

// OneHot returns a vector with a 1 at the position of category, or all zeros
// when the category is not present.
func OneHot(category string, categories []string) ([]float64, bool) {
	vector := make([]float64, len(categories))
	for i, c := range categories {
		if c == category {
			vector[i] = 1
			return vector, true
		}
	}
	return vector, false
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func hasInf(values []float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
