// Package scoring assigns a confidence score to query answers.
package scoring

import (
	"math"
	"strings"
)

// reliableThreshold is the minimum score for an answer to be presented
// without a low-confidence warning.
const reliableThreshold = 0.5

// Confidence is the scored assessment of one answer.
type Confidence struct {
	Score    float64
	Reliable bool
}

// Score rates how trustworthy an answer looks given the question asked and
// the columns that were available. It is a deterministic heuristic, not a
// model judgment:
//
//   - start at 0.5
//   - when the result is non-empty: +0.2 for each available column mentioned
//     in the question (up to two), +0.2 for the data itself, and +0.1 more
//     when it looks structured
//   - when the result is empty: -0.3, with no column-mention credit; a
//     question that names the right columns but finds nothing is still an
//     unreliable answer
//
// The result is clamped to [0, 1] and rounded to two decimals.
func Score(question string, availableColumns []string, resultText string) Confidence {
	score := 0.5

	if isEmptyResult(resultText) {
		score -= 0.3
	} else {
		lowerQuestion := strings.ToLower(question)
		mentioned := 0
		for _, col := range availableColumns {
			if col == "" {
				continue
			}
			if strings.Contains(lowerQuestion, strings.ToLower(col)) {
				mentioned++
				if mentioned == 2 {
					break
				}
			}
		}
		score += 0.2 * float64(mentioned)

		score += 0.2
		if looksStructured(resultText) {
			score += 0.1
		}
	}

	score = math.Round(clamp(score)*100) / 100

	return Confidence{Score: score, Reliable: score >= reliableThreshold}
}

// isEmptyResult reports whether the result text carries no data, including
// the literal empty-list marker.
func isEmptyResult(resultText string) bool {
	trimmed := strings.TrimSpace(resultText)
	return trimmed == "" || trimmed == "[]"
}

// looksStructured is a cheap proxy for "this is tabular data, not prose":
// digits, brackets, or parentheses.
func looksStructured(resultText string) bool {
	return strings.ContainsAny(resultText, "0123456789[]()")
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
