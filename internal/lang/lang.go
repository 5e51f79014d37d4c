// Package lang defines the supported language families and the lexical
// profiles used to measure them.
package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language identifies a supported language family.
type Language string

const (
	C      Language = "c"
	Java   Language = "java"
	TSJS   Language = "tsjs"
	Python Language = "python"
)

// Profile bundles the lexical rules for one language family: which file
// extensions it owns, its comment syntax, the definition-header pattern, and
// the decision-token patterns. Profiles are built once at package init and
// never mutated.
type Profile struct {
	// Language is the canonical tag for this family.
	Language Language
	// Extensions lists the owned file extensions, lowercase with leading dot.
	Extensions []string
	// LineComment is the line-comment marker ("//" or "#").
	LineComment string
	// BlockComment reports whether the family has /* ... */ block comments.
	BlockComment bool
	// FuncDef matches a function definition header.
	FuncDef *regexp.Regexp
	// NameGroup is the FuncDef submatch index holding the function name.
	NameGroup int
	// IndentBody marks families whose bodies are delimited by indentation
	// rather than braces.
	IndentBody bool
	// Decisions are the decision-token patterns counted for complexity.
	Decisions []*regexp.Regexp
}

// Decision tokens for the brace families. `else if` also matches the `if`
// pattern, so an else-if chain counts twice; that double count is part of
// the scoring contract.
var braceDecisions = compileAll(
	`\bif\b`,
	`\bfor\b`,
	`\bwhile\b`,
	`\bcase\b`,
	`\bcatch\b`,
	`\belse if\b`,
	`\?\s*`,
	`&&`,
	`\|\|`,
)

var pythonDecisions = compileAll(
	`\bif\b`,
	`\belif\b`,
	`\bfor\b`,
	`\bwhile\b`,
	`\bexcept\b`,
	`\band\b`,
	`\bor\b`,
)

// profiles holds the four families in canonical order.
var profiles = []*Profile{
	{
		Language:     C,
		Extensions:   []string{".c", ".h"},
		LineComment:  "//",
		BlockComment: true,
		// The parameter scan is non-greedy so the header ends at the first
		// closing paren followed by a brace; a greedy scan would swallow the
		// opening of the body whenever the first statement carries parens.
		FuncDef:   regexp.MustCompile(`(?m)^[\w\s\*]+\b([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^;]*?\)\s*\{`),
		NameGroup: 1,
		Decisions: braceDecisions,
	},
	{
		Language:     Java,
		Extensions:   []string{".java"},
		LineComment:  "//",
		BlockComment: true,
		FuncDef:      regexp.MustCompile(`(?m)(public|protected|private|static|\s)+[<>\w\[\]]+\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^\)]*\)\s*\{`),
		NameGroup:    2,
		Decisions:    braceDecisions,
	},
	{
		Language:     TSJS,
		Extensions:   []string{".ts", ".tsx", ".js", ".jsx"},
		LineComment:  "//",
		BlockComment: true,
		FuncDef:      regexp.MustCompile(`(?m)(^|\s)(function\s+)?([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^\)]*\)\s*\{`),
		NameGroup:    3,
		Decisions:    braceDecisions,
	},
	{
		Language:    Python,
		Extensions:  []string{".py"},
		LineComment: "#",
		FuncDef:     regexp.MustCompile(`(?m)^\s*def\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`),
		NameGroup:   1,
		IndentBody:  true,
		Decisions:   pythonDecisions,
	},
}

// extIndex maps lowercase extensions to their owning profile.
var extIndex = make(map[string]*Profile)

func init() {
	for _, p := range profiles {
		for _, ext := range p.Extensions {
			extIndex[ext] = p
		}
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, pat := range patterns {
		res[i] = regexp.MustCompile(pat)
	}
	return res
}

// All returns the profiles in canonical order. The returned slice is shared;
// callers must not modify it.
func All() []*Profile {
	return profiles
}

// ByTag returns the profile for a language tag.
func ByTag(tag Language) (*Profile, bool) {
	for _, p := range profiles {
		if p.Language == tag {
			return p, true
		}
	}
	return nil, false
}

// ForExtension returns the profile owning the given extension. Matching is
// case-insensitive and tolerates a missing leading dot.
func ForExtension(ext string) (*Profile, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	p, ok := extIndex[ext]
	return p, ok
}

// ForPath returns the profile for a file path based on its extension.
func ForPath(path string) (*Profile, bool) {
	return ForExtension(filepath.Ext(path))
}

// Tags returns the canonical language tags in order.
func Tags() []Language {
	tags := make([]Language, len(profiles))
	for i, p := range profiles {
		tags[i] = p.Language
	}
	return tags
}

// IsTag reports whether s is a known language tag.
func IsTag(s string) bool {
	_, ok := ByTag(Language(s))
	return ok
}
