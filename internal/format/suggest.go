package format

import "github.com/hbollon/go-edlib"

// suggestThreshold is the minimum Jaro-Winkler similarity for a
// "did you mean" hint. Below it the hint is more confusing than helpful.
const suggestThreshold = 0.70

// Suggest returns the closest valid format name for a mistyped input,
// or "" when nothing is similar enough. Jaro-Winkler favors prefix
// matches, which suits short format names ("opsu" -> "opus").
func Suggest(name string, valid []Format) string {
	best := ""
	bestScore := float32(0)
	for _, f := range valid {
		score := edlib.JaroWinklerSimilarity(name, string(f))
		if score > bestScore {
			best = string(f)
			bestScore = score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
