package ignore

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/repository/kcpath"
)

const (
	NegationPrefix  = '!'
	DirectorySuffix = '/'
	RootedPrefix    = '/'
	CommentPrefix   = '#'
	DefaultSource   = ".kitcatignore"
)

// PatternConfig is the decoded form of one pattern line's prefixes
// and suffix.
type PatternConfig struct {
	IsNegation     bool
	IsDirOnly      bool
	IsRooted       bool
	CleanedPattern string
}

// NewPatternConfig strips the !-negation, trailing-slash, and leading-
// slash markers, recording which were present.
func NewPatternConfig(pattern string) PatternConfig {
	var config PatternConfig

	if after, found := strings.CutPrefix(pattern, string(NegationPrefix)); found {
		config.IsNegation = true
		pattern = after
	}

	if before, found := strings.CutSuffix(pattern, string(DirectorySuffix)); found {
		config.IsDirOnly = true
		pattern = before
	}

	if after, found := strings.CutPrefix(pattern, string(RootedPrefix)); found {
		config.IsRooted = true
		pattern = after
	}

	config.CleanedPattern = strings.TrimSpace(pattern)
	return config
}

// IgnorePattern is one parsed .kitcatignore line. The rule grammar:
// blank lines and #-comments are skipped, a ! prefix negates, a
// trailing / restricts to directories, a leading / anchors at the
// repository root, * and ? glob within a path segment, and ** crosses
// segments.
type IgnorePattern struct {
	Pattern         string
	OriginalPattern string
	IsNegation      bool
	IsDirOnly       bool
	IsRooted        bool
	Source          string
	LineNumber      int
}

// NewIgnorePattern parses pattern, recording where it came from for
// diagnostics.
func NewIgnorePattern(pattern, source string, lineNumber int) IgnorePattern {
	if source == "" {
		source = DefaultSource
	}

	config := NewPatternConfig(pattern)
	cleanedPattern := unescapePattern(config.CleanedPattern)

	return IgnorePattern{
		Pattern:         cleanedPattern,
		OriginalPattern: pattern,
		IsNegation:      config.IsNegation,
		IsDirOnly:       config.IsDirOnly,
		IsRooted:        config.IsRooted,
		Source:          source,
		LineNumber:      lineNumber,
	}
}

// FromLine parses one ignore-file line; nil means the line carries no
// pattern (blank or comment).
func FromLine(line, source string, lineNumber int) *IgnorePattern {
	line = trimTrailingWhitespace(line)

	if line == "" || strings.HasPrefix(line, string(CommentPrefix)) {
		return nil
	}

	if source == "" {
		source = DefaultSource
	}

	pattern := NewIgnorePattern(line, source, lineNumber)
	return &pattern
}

// Matches applies the pattern to a repo-relative path, scoped to
// fromDirectory when the pattern came from a nested ignore file.
func (ip *IgnorePattern) Matches(filePath string, isDirectory bool, fromDirectory string) bool {
	normalizedPath := kcpath.RelativePath(filePath).Normalize()
	if !kcpath.IsPathSafe(string(normalizedPath)) {
		return false
	}

	if ip.IsDirOnly && !isDirectory {
		// A file matches only through a directory that contains it.
		normalizedPath = normalizedPath.Dir()
		if normalizedPath == "" {
			return false
		}
	}

	testPath := normalizedPath
	if fromDirectory != "" {
		normalizedFromDir := kcpath.RelativePath(fromDirectory).Normalize()

		if !normalizedPath.IsInSubdir(string(normalizedFromDir)) && string(normalizedPath) != string(normalizedFromDir) {
			return false
		}

		prefix := string(normalizedFromDir) + "/"
		if after, found := strings.CutPrefix(string(normalizedPath), prefix); found {
			testPath = kcpath.RelativePath(after)
		}
	}

	if ip.IsRooted {
		return matchPattern(string(testPath), ip.Pattern, ip.IsDirOnly)
	}

	return matchAnySubpath(string(testPath), ip.Pattern, ip.IsDirOnly)
}

// trimTrailingWhitespace drops trailing spaces and tabs; an odd run
// of backslashes escapes the final space.
func trimTrailingWhitespace(line string) string {
	backslashCount := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		backslashCount++
	}

	if backslashCount%2 == 1 {
		return line
	}

	return strings.TrimRight(line, " \t")
}

// unescapePattern resolves backslash escapes into literal characters.
func unescapePattern(pattern string) string {
	if !strings.ContainsRune(pattern, '\\') {
		return pattern
	}

	var result strings.Builder
	result.Grow(len(pattern))
	escaped := false

	for _, ch := range pattern {
		if escaped {
			result.WriteRune(ch)
			escaped = false
		} else if ch == '\\' {
			escaped = true
		} else {
			result.WriteRune(ch)
		}
	}

	return result.String()
}

// containsWildcard reports whether glob syntax is present.
func containsWildcard(pattern string) bool {
	wildcardChars := []rune{'*', '?', '[', ']', '{', '}'}
	for _, ch := range wildcardChars {
		if strings.ContainsRune(pattern, ch) {
			return true
		}
	}
	return strings.Contains(pattern, "**")
}

// matchPattern matches one path against one pattern: literal patterns
// compare against the whole path (directory patterns also swallow
// their children), globs go through filepath.Match, and ** falls back
// to a regex translation.
func matchPattern(path, pattern string, isDirOnly bool) bool {
	rp := kcpath.RelativePath(path).Normalize()

	if !containsWildcard(pattern) {
		exactMatch := string(rp) == pattern

		if isDirOnly && strings.HasPrefix(string(rp), pattern+"/") {
			return true
		}

		return exactMatch
	}

	matched, err := filepath.Match(pattern, string(rp))
	if err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "**") {
		globPattern := globToRegex(pattern)
		matched, _ := regexp.MatchString(globPattern, string(rp))
		return matched
	}

	return false
}

// matchAnySubpath tries the pattern at every directory depth, the
// unrooted-pattern behavior.
func matchAnySubpath(testPath, pattern string, isDirOnly bool) bool {
	rp := kcpath.RelativePath(testPath).Normalize()
	pathSegments := rp.Components()

	for startIndex := range pathSegments {
		subPath := strings.Join(pathSegments[startIndex:], "/")
		if matchPattern(subPath, pattern, isDirOnly) {
			return true
		}
	}

	return false
}

// globToRegex translates a ** glob into an anchored regex.
func globToRegex(pattern string) string {
	pattern = regexp.QuoteMeta(pattern)

	pattern = strings.ReplaceAll(pattern, `\*\*`, ".*")
	pattern = strings.ReplaceAll(pattern, `\*`, "[^/]*")
	pattern = strings.ReplaceAll(pattern, `\?`, "[^/]")

	return "^" + pattern + "$"
}
