package ignore

import "strings"

// PatternSet holds the parsed rules of an ignore file, negations kept
// separately so they can override matches.
type PatternSet struct {
	patterns         []*IgnorePattern
	negationPatterns []*IgnorePattern
}

// NewPatternSet returns an empty set.
func NewPatternSet() *PatternSet {
	return &PatternSet{
		patterns:         make([]*IgnorePattern, 0),
		negationPatterns: make([]*IgnorePattern, 0),
	}
}

// Add files a pattern under the right bucket.
func (ps *PatternSet) Add(pattern *IgnorePattern) {
	if pattern.IsNegation {
		ps.negationPatterns = append(ps.negationPatterns, pattern)
	} else {
		ps.patterns = append(ps.patterns, pattern)
	}
}

// AddPatternsFromText parses an ignore file's content line by line.
func (ps *PatternSet) AddPatternsFromText(text, source string) {
	if source == "" {
		source = DefaultSource
	}

	lines := strings.Split(text, "\n")

	for index, line := range lines {
		pattern := FromLine(line, source, index+1)
		if pattern != nil {
			ps.Add(pattern)
		}
	}
}

// IsIgnored reports whether filePath (repo-relative) matches an
// ignore pattern without a negation pattern rescuing it.
func (ps *PatternSet) IsIgnored(filePath string, isDirectory bool, fromDirectory string) bool {
	checkIgnored := func() bool {
		for _, pattern := range ps.patterns {
			if pattern.Matches(filePath, isDirectory, fromDirectory) {
				return true
			}
		}
		return false
	}

	checkNegation := func() bool {
		for _, pattern := range ps.negationPatterns {
			if pattern.Matches(filePath, isDirectory, fromDirectory) {
				return false
			}
		}
		return true
	}

	return checkIgnored() && checkNegation()
}

// Clear drops every pattern.
func (ps *PatternSet) Clear() {
	ps.patterns = make([]*IgnorePattern, 0)
	ps.negationPatterns = make([]*IgnorePattern, 0)
}

// IgnoredPatterns lists the plain (non-negation) patterns.
func (ps *PatternSet) IgnoredPatterns() []*IgnorePattern {
	return ps.patterns
}

// UnignoredPatterns lists the negation patterns.
func (ps *PatternSet) UnignoredPatterns() []*IgnorePattern {
	return ps.negationPatterns
}
