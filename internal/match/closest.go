package match

// Closest returns the option with the highest normalized similarity to name
// and its score. Options scoring below minScore are never returned; ties keep
// the earliest option so results are deterministic.
func Closest(name string, options []string, minScore float64) (string, float64) {
	best, bestScore := "", 0.0

	for _, opt := range options {
		score := Score(name, opt)
		if score > bestScore {
			best, bestScore = opt, score
		}
	}

	if bestScore < minScore {
		return "", bestScore
	}

	return best, bestScore
}
