package metrics

import (
	"github.com/imyousuf/srcmetrics/internal/lang"
)

// ScoreComplexity estimates McCabe cyclomatic complexity for a function body:
// a baseline of 1 plus one per decision token. Each pattern in the profile is
// counted independently, so an `else if` contributes to both the `else if`
// and `if` counts. The body is normalized again before counting, which lets
// callers pass raw body text.
//
// This is decision-point density, not control-flow-graph edge/node counting,
// and is reported as an estimate.
func ScoreComplexity(body string, p *lang.Profile) int {
	clean := Normalize(body, p)
	score := 1
	for _, re := range p.Decisions {
		score += len(re.FindAllStringIndex(clean, -1))
	}
	return score
}
