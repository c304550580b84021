package session

// Results accumulates one hold duration per completed round.
// Max always equals the largest entry in Durations, or 0 when empty.
type Results struct {
	Durations []float64
	Max       float64
}

// Append returns a copy of results with duration recorded.
func (results Results) Append(duration float64) Results {
	durations := make([]float64, len(results.Durations), len(results.Durations)+1)
	copy(durations, results.Durations)
	durations = append(durations, duration)

	best := results.Max
	if len(results.Durations) == 0 || duration > best {
		best = duration
	}
	return Results{Durations: durations, Max: best}
}

// Len returns the number of recorded rounds.
func (results Results) Len() int {
	return len(results.Durations)
}

// Average returns the mean hold duration, or 0 when empty.
func (results Results) Average() float64 {
	if len(results.Durations) == 0 {
		return 0
	}
	var total float64
	for _, duration := range results.Durations {
		total += duration
	}
	return total / float64(len(results.Durations))
}
