package metrics

import (
	"regexp"

	"github.com/imyousuf/srcmetrics/internal/lang"
)

// literalPlaceholder replaces every string/char literal so that delimiters
// and keywords inside literals cannot confuse downstream token counting.
const literalPlaceholder = `""`

var (
	// Triple-quoted alternatives come first so they win over the plain
	// quoted forms at the same position.
	literalPattern = regexp.MustCompile(`(?s)(""".*?"""|'''.*?'''|".*?"|'.*?')`)

	lineCommentPatterns = map[string]*regexp.Regexp{
		"//": regexp.MustCompile(`//.*`),
		"#":  regexp.MustCompile(`#.*`),
	}

	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Normalize strips string/char literals and comments from src per the
// language profile. Literals are replaced first so a comment marker inside a
// string is never misread as a comment, and a quote inside a comment is gone
// before it could open a literal. Normalizing twice equals normalizing once.
//
// This is a single regex pass, not a lexer: escaped quotes, nested block
// comments, and template literals can be mis-stripped.
func Normalize(src string, p *lang.Profile) string {
	out := literalPattern.ReplaceAllString(src, literalPlaceholder)
	if re, ok := lineCommentPatterns[p.LineComment]; ok {
		out = re.ReplaceAllString(out, "")
	}
	if p.BlockComment {
		out = blockCommentPattern.ReplaceAllString(out, "")
	}
	return out
}
