package metrics

import (
	"strings"
	"unicode"

	"github.com/imyousuf/srcmetrics/internal/lang"
)

// Function is one located definition: its name and body text. Names are not
// deduplicated; overloads and shadowed definitions produce separate entries.
type Function struct {
	Name string
	Body string
}

// LocateFunctions finds every function definition in normalized source and
// slices out its body, in source order. Brace-language bodies run from the
// header's opening brace to the matching close; headers whose braces never
// rebalance are skipped, not truncated. Python bodies are the indented suite
// under the def line.
func LocateFunctions(normalized string, p *lang.Profile) []Function {
	if p.FuncDef == nil {
		return nil
	}

	var lines []string
	if p.IndentBody {
		lines = strings.Split(normalized, "\n")
	}

	var funcs []Function
	for _, m := range p.FuncDef.FindAllStringSubmatchIndex(normalized, -1) {
		nameStart, nameEnd := m[2*p.NameGroup], m[2*p.NameGroup+1]
		if nameStart < 0 {
			continue
		}
		name := normalized[nameStart:nameEnd]

		var body string
		if p.IndentBody {
			body = indentBody(normalized, lines, nameStart)
		} else {
			var ok bool
			body, ok = braceBody(normalized, m[1])
			if !ok {
				continue
			}
		}
		funcs = append(funcs, Function{Name: name, Body: body})
	}
	return funcs
}

// ExtractFunctionNames returns the names of all definition headers in source
// order, including headers whose bodies cannot be located. Its length is the
// file's function count and may exceed the located-function count.
func ExtractFunctionNames(normalized string, p *lang.Profile) []string {
	if p.FuncDef == nil {
		return nil
	}
	var names []string
	for _, m := range p.FuncDef.FindAllStringSubmatchIndex(normalized, -1) {
		s, e := m[2*p.NameGroup], m[2*p.NameGroup+1]
		if s < 0 {
			continue
		}
		names = append(names, normalized[s:e])
	}
	return names
}

// braceBody slices the inclusive brace-delimited body whose opening brace
// ends the header match at headerEnd. The scan keeps an explicit depth
// counter over the bytes instead of leaning on regexp, so pathological
// inputs cost at most one pass.
func braceBody(text string, headerEnd int) (string, bool) {
	off := strings.IndexByte(text[headerEnd-1:], '{')
	if off < 0 {
		return "", false
	}
	open := headerEnd - 1 + off
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return text[open : i+1], true
		}
	}
	// Braces never rebalanced.
	return "", false
}

// indentBody collects the suite of the def whose name starts at namePos:
// every following line that is blank or indented strictly deeper than the
// def line. Blank interior lines belong to the suite.
func indentBody(text string, lines []string, namePos int) string {
	defLine := strings.Count(text[:namePos], "\n")
	indent := indentWidth(lines[defLine])

	var body []string
	for _, line := range lines[defLine+1:] {
		if strings.TrimSpace(line) != "" && indentWidth(line) <= indent {
			break
		}
		body = append(body, line)
	}
	return strings.Join(body, "\n")
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}
