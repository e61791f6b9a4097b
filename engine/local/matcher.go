package local

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
	"github.com/poiesic/seek/engine"
)

// regexTimeout bounds a single regular expression match.
const regexTimeout = 250 * time.Millisecond

// query is the staged search configuration of an Engine.
type query struct {
	pattern        string
	regex          bool
	matchCase      bool
	matchPath      bool
	matchWholeWord bool
}

// matcher decides whether an entry satisfies a compiled query.
type matcher struct {
	q     query
	re    *regexp2.Regexp
	terms []term // all must match
}

// term is one whitespace-separated element of a native pattern. It matches
// when any alternative matches, inverted when negated.
type term struct {
	negate bool
	alts   []alternative
}

type alternative struct {
	text     string
	wildcard bool
	fullPath bool
}

// compile parses q. Malformed patterns are rejected with
// engine.ErrPatternRejected.
func compile(q query) (*matcher, error) {
	m := &matcher{q: q}
	if q.regex {
		expr := q.pattern
		if q.matchWholeWord {
			expr = `\b(?:` + expr + `)\b`
		}
		opts := regexp2.None
		if !q.matchCase {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(expr, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", engine.ErrPatternRejected, err)
		}
		re.MatchTimeout = regexTimeout
		m.re = re
		return m, nil
	}

	fields, err := splitTerms(q.pattern)
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		t, err := parseTerm(field, q)
		if err != nil {
			return nil, err
		}
		m.terms = append(m.terms, t)
	}
	return m, nil
}

// splitTerms splits a native pattern on whitespace outside double quotes.
func splitTerms(pattern string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range pattern {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case unicode.IsSpace(r) && !quoted:
			if pending {
				fields = append(fields, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unbalanced quote in %q", engine.ErrPatternRejected, pattern)
	}
	if pending {
		fields = append(fields, current.String())
	}
	return fields, nil
}

func parseTerm(field string, q query) (term, error) {
	var t term
	if strings.HasPrefix(field, "!") {
		t.negate = true
		field = field[1:]
	}
	for _, text := range strings.Split(field, "|") {
		if text == "" {
			continue
		}
		alt := alternative{
			text:     strings.ReplaceAll(text, `\`, "/"),
			wildcard: strings.ContainsAny(text, "*?["),
			fullPath: q.matchPath || strings.ContainsAny(text, `/\`),
		}
		if !q.matchCase {
			alt.text = strings.ToLower(alt.text)
		}
		if alt.wildcard {
			if alt.fullPath {
				alt.text = anchorPathGlob(alt.text)
			}
			if !doublestar.ValidatePattern(alt.text) {
				return term{}, fmt.Errorf("%w: bad wildcard %q", engine.ErrPatternRejected, text)
			}
		}
		t.alts = append(t.alts, alt)
	}
	if len(t.alts) == 0 {
		return term{}, fmt.Errorf("%w: empty term %q", engine.ErrPatternRejected, field)
	}
	return t, nil
}

// anchorPathGlob prepares a full-path wildcard for matching against a path
// without its leading separator. Absolute patterns stay anchored at the root;
// relative ones may match at any depth.
func anchorPathGlob(glob string) string {
	switch {
	case strings.HasPrefix(glob, "/"):
		return strings.TrimPrefix(glob, "/")
	case len(glob) >= 2 && glob[1] == ':', strings.HasPrefix(glob, "**"):
		return glob
	}
	return "**/" + glob
}

// match reports whether e satisfies the query. A regular expression that
// exceeds its time budget does not match.
func (m *matcher) match(e Entry) (bool, error) {
	if m.re != nil {
		subject := e.Name()
		if m.q.matchPath {
			subject = e.Path
		}
		return m.re.MatchString(subject)
	}

	name, path := e.Name(), filepath.ToSlash(e.Path)
	if !m.q.matchCase {
		name, path = strings.ToLower(name), strings.ToLower(path)
	}
	for _, t := range m.terms {
		if t.matches(name, path, m.q.matchWholeWord) == t.negate {
			return false, nil
		}
	}
	return true, nil
}

func (t term) matches(name, path string, wholeWord bool) bool {
	for _, alt := range t.alts {
		subject := name
		if alt.fullPath {
			subject = path
		}
		if alt.wildcard {
			if alt.fullPath {
				subject = strings.TrimPrefix(subject, "/")
			}
			// Patterns were validated at compile time.
			if ok, _ := doublestar.Match(alt.text, subject); ok {
				return true
			}
			continue
		}
		if wholeWord {
			if containsWord(subject, alt.text) {
				return true
			}
			continue
		}
		if strings.Contains(subject, alt.text) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s bounded on both sides by a
// non-alphanumeric rune or the end of s.
func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for start := 0; start <= len(s)-len(word); {
		i := strings.Index(s[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (i == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		start = i + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
