package metrics

import (
	"regexp"
	"strings"

	"github.com/imyousuf/srcmetrics/internal/lang"
)

var returnPattern = regexp.MustCompile(`\breturn\b`)

// MeasureSource computes the metrics record for one source file. It is a
// pure function of the content and profile: no state survives the call, so
// files can be measured concurrently.
func MeasureSource(src string, p *lang.Profile) Record {
	lines := splitLines(src)
	total, blank, comment := physicalLOC(lines, p)

	normalized := Normalize(src, p)

	names := ExtractFunctionNames(normalized, p)
	funcs := LocateFunctions(normalized, p)
	scores := make([]int, 0, len(funcs))
	for _, fn := range funcs {
		scores = append(scores, ScoreComplexity(fn.Body, p))
	}

	return Record{
		PhysicalLOC:  [3]int{total, blank, comment},
		LogicalLOC:   logicalLOC(normalized, p),
		NumFunctions: len(names),
		Complexity:   scores,
		FanOut:       len(ExtractCalls(normalized)),
		FanIn:        len(names),
	}
}

// splitLines splits on newlines, dropping the empty tail a trailing newline
// produces so counts match line-oriented expectations.
func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// physicalLOC classifies raw lines into total, blank, and comment counts.
func physicalLOC(lines []string, p *lang.Profile) (total, blank, comment int) {
	total = len(lines)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			blank++
		case isCommentLine(trimmed, p):
			comment++
		}
	}
	return total, blank, comment
}

// isCommentLine classifies a trimmed line by prefix. For brace languages,
// block-comment interiors (leading *) and trailers (ending */) count too.
// This is a per-line heuristic, not a comment-span tracker: block comments
// holding code-like lines classify approximately.
func isCommentLine(trimmed string, p *lang.Profile) bool {
	if p.LineComment == "#" {
		return strings.HasPrefix(trimmed, "#")
	}
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasSuffix(trimmed, "*/")
}

// logicalLOC estimates the statement count of normalized source. Python takes
// the larger of assignment-or-colon lines and half the non-blank line count;
// brace languages take int(0.5*semicolons + 0.3*returns + 0.2*nonBlankLines),
// truncated. The weights are crude statement proxies and are kept exactly for
// comparability across runs.
func logicalLOC(normalized string, p *lang.Profile) int {
	nonBlank := 0
	stmtLike := 0
	for _, line := range strings.Split(normalized, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonBlank++
		if strings.HasSuffix(trimmed, ":") || strings.Contains(line, "=") {
			stmtLike++
		}
	}

	if p.IndentBody {
		if half := nonBlank / 2; half > stmtLike {
			return half
		}
		return stmtLike
	}

	semis := strings.Count(normalized, ";")
	returns := len(returnPattern.FindAllStringIndex(normalized, -1))
	return int(0.5*float64(semis) + 0.3*float64(returns) + 0.2*float64(nonBlank))
}
