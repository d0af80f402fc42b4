package parser

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/incidentlog/internal/registry"
)

// pattern pairs a matcher with the function that turns its submatches into
// a field value. An empty value means the pattern did not produce a result.
type pattern struct {
	re     *regexp.Regexp
	result func(m []string) string
}

func (p pattern) apply(text string) string {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(p.result(m))
}

// step is one stage of a field's fallback chain.
type step func(text, lower string) string

// firstOf runs steps in order and returns the first non-empty result.
func firstOf(text, lower string, steps ...step) string {
	for _, s := range steps {
		if v := s(text, lower); v != "" {
			return v
		}
	}
	return ""
}

// knownName returns the first name whose lowercase form occurs anywhere in
// lower. Matching is substring based with no word boundaries.
func knownName(names []string) step {
	return func(_, lower string) string {
		for _, name := range names {
			if name != "" && strings.Contains(lower, strings.ToLower(name)) {
				return name
			}
		}
		return ""
	}
}

func patterns(list []pattern) step {
	return func(text, _ string) string {
		for _, p := range list {
			if v := p.apply(text); v != "" {
				return v
			}
		}
		return ""
	}
}

const nameWords = `[a-zA-Z]+(?:\s+[a-zA-Z]+)*`

var studentPatterns = []pattern{
	{regexp.MustCompile(`(?i)student\s+(` + nameWords + `)`), nameCapture(1)},
	{regexp.MustCompile(`(?i)child\s+(` + nameWords + `)`), nameCapture(1)},
	{regexp.MustCompile(`(?i)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:was|is|had|got|got into|involved in)`), nameCapture(1)},
	{regexp.MustCompile(`(?i)(?:incident with|problem with)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`), nameCapture(1)},
}

var reporterPatterns = []pattern{
	{regexp.MustCompile(`(?i)reported by\s+(` + nameWords + `)`), group(1)},
	{regexp.MustCompile(`(?i)reporter\s+(` + nameWords + `)`), group(1)},
	{regexp.MustCompile(`(?i)(?:mr\.|mrs\.|miss|ms\.|dr\.)\s+([a-zA-Z]+)`), group(1)},
}

var locationPatterns = []pattern{
	{regexp.MustCompile(`(?i)room\s+(\d+)`), func(m []string) string { return "Room " + m[1] }},
	{regexp.MustCompile(`(?i)(?:in|at|location)\s+([^,.]+)`), wholeMatch},
	{regexp.MustCompile(`(?i)(?:classroom|hallway|cafeteria|gym|library|office|bathroom|playground)\s*(\d*)`), wholeMatch},
	{regexp.MustCompile(`(?i)(?:building|floor)\s+([^,.]+)`), wholeMatch},
}

func wholeMatch(m []string) string { return m[0] }

func group(n int) func(m []string) string {
	return func(m []string) string { return m[n] }
}

// stopWords end a student name capture. Patterns like "student <words>"
// are greedy, so "Student Maria Lopez was disruptive" captures the whole
// tail; the name is the run of words before the first of these.
var stopWords = map[string]bool{
	"was": true, "is": true, "were": true, "has": true, "had": true, "got": true,
	"involved": true, "in": true, "at": true, "on": true, "and": true, "or": true,
	"for": true, "during": true, "when": true, "while": true, "with": true,
	"to": true, "the": true, "from": true, "after": true, "before": true,
	"because": true, "again": true, "today": true, "kept": true, "did": true,
	"would": true, "will": true, "refused": true, "said": true, "reported": true,
}

// leadingWords are skipped at the start of a capture, so "Today Maria was
// rude" yields "Maria" rather than nothing.
var leadingWords = map[string]bool{
	"the": true, "a": true, "an": true, "today": true, "yesterday": true,
	"again": true, "then": true, "and": true, "after": true, "before": true,
	"during": true, "when": true, "while": true, "student": true, "child": true,
}

func nameCapture(group int) func(m []string) string {
	return func(m []string) string {
		return trimName(m[group])
	}
}

func trimName(capture string) string {
	words := strings.Fields(capture)
	for len(words) > 0 && leadingWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for i, w := range words {
		if stopWords[strings.ToLower(w)] {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

// ExtractStudent finds the student named in text, preferring names already
// known to the registry.
func ExtractStudent(snap *registry.Snapshot, text string) string {
	return firstOf(text, strings.ToLower(text),
		knownName(snap.Students()),
		patterns(studentPatterns),
	)
}

// ExtractReporter finds the reporter named in text and the email stored for
// them, if any.
func ExtractReporter(snap *registry.Snapshot, text string) (name, email string) {
	name = firstOf(text, strings.ToLower(text),
		knownName(snap.Reporters()),
		patterns(reporterPatterns),
	)
	if name == "" {
		return "", ""
	}
	email, _ = snap.EmailFor(name)
	return name, email
}

// ExtractLocation finds where the incident happened. Room numbers are
// normalized to "Room <n>"; other matches are returned as written.
func ExtractLocation(text string) string {
	return firstOf(text, strings.ToLower(text), patterns(locationPatterns))
}
