package titles

import (
	"github.com/hbollon/go-edlib"
)

// Confidence buckets a similarity score.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // Score < 0.70
	ConfidenceLow                      // Score >= 0.70
	ConfidenceMedium                   // Score >= 0.85
	ConfidenceHigh                     // Score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Similarity returns the Jaro-Winkler similarity of two cleaned titles (0.0-1.0).
func Similarity(a, b string) float64 {
	ca, cb := Clean(a), Clean(b)
	if ca == "" || cb == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(ca, cb))
}

// ConfidenceOf maps a similarity score to a confidence bucket.
func ConfidenceOf(score float64) Confidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Compare scores candidate against want and buckets the result.
func Compare(want, candidate string) (float64, Confidence) {
	score := Similarity(want, candidate)
	return score, ConfidenceOf(score)
}
