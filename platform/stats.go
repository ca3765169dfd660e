package platform

import "math"

type frameStats struct {
	min    int
	max    int
	mean   float64
	stdDev float64
}

func calculateStats(data []int) frameStats {
	if len(data) == 0 {
		return frameStats{}
	}

	// Min, Max, Sum
	var sum int
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	// Mean
	mean := float64(sum) / float64(len(data))

	// Standard Deviation
	var sumOfSquares float64
	for _, v := range data {
		sumOfSquares += (float64(v) - mean) * (float64(v) - mean)
	}
	stdDev := math.Sqrt(sumOfSquares / float64(len(data)))

	return frameStats{
		min:    min,
		max:    max,
		mean:   mean,
		stdDev: stdDev,
	}
}
