package metrics

import "regexp"

// callPattern matches an identifier followed, possibly after whitespace, by
// an opening parenthesis.
var callPattern = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`)

// callStoplist holds control-flow keywords and common builtins that look
// like calls but are never counted as fan-out.
var callStoplist = map[string]struct{}{
	"if":       {},
	"for":      {},
	"while":    {},
	"switch":   {},
	"return":   {},
	"catch":    {},
	"function": {},
	"new":      {},
	"typeof":   {},
	"elif":     {},
	"except":   {},
	"print":    {},
	"len":      {},
	"range":    {},
}

// definitionKeywords name a function in a header when they directly precede
// the identifier; such identifiers are definitions, not call sites.
var definitionKeywords = [...]string{"def", "function"}

// ExtractCalls returns every call-like identifier in normalized source, in
// order. Stoplisted names and definition-header names are dropped; duplicates
// and remaining false positives (casts, macro-style invocations) are kept.
// The result is a heuristic call list, not a resolved call graph.
func ExtractCalls(normalized string) []string {
	var calls []string
	for _, m := range callPattern.FindAllStringSubmatchIndex(normalized, -1) {
		name := normalized[m[2]:m[3]]
		if _, stop := callStoplist[name]; stop {
			continue
		}
		if isDefinitionName(normalized, m[2]) {
			continue
		}
		calls = append(calls, name)
	}
	return calls
}

// isDefinitionName reports whether the identifier starting at pos is named by
// a definition keyword on the same line, e.g. `def name(` or `function name(`.
func isDefinitionName(text string, pos int) bool {
	i := pos
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	if i == pos {
		// No separating whitespace, so no preceding keyword.
		return false
	}
	for _, kw := range definitionKeywords {
		j := i - len(kw)
		if j < 0 || text[j:i] != kw {
			continue
		}
		if j == 0 || !isWordByte(text[j-1]) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
