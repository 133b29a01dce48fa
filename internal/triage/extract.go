package triage

import (
	"regexp"
	"strings"
)

// OpinionPlaceholder is substituted when a report has no opinion section.
const OpinionPlaceholder = "no opinion section found"

var (
	findingsRe   = regexp.MustCompile(`(?is)hallazgos.*`)
	opinionRe    = regexp.MustCompile(`(?is)opini[oó]n\s*[:\-]?\s*(.*)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize prepares raw report text for extraction: strips a leading
// byte-order marker, converts CRLF line endings, and trims surrounding
// whitespace. It never fails; non-text input is handled upstream by
// coercing to the empty string.
func Normalize(raw string) string {
	s := strings.TrimPrefix(raw, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}

// FindingsExcerpt returns the findings section of a normalized report:
// everything from the "Hallazgos" heading to the end of the text, with
// whitespace runs collapsed to single spaces. Returns "" when the report
// has no findings heading.
func FindingsExcerpt(normalized string) string {
	m := findingsRe.FindString(normalized)
	if m == "" {
		return ""
	}
	return collapse(m)
}

// OpinionExcerpt returns the remainder of the "Opinión" heading of a
// normalized report, or OpinionPlaceholder when the heading is absent.
// It operates on the original normalized text, not on the findings excerpt.
func OpinionExcerpt(normalized string) string {
	m := opinionRe.FindStringSubmatch(normalized)
	if m == nil {
		return OpinionPlaceholder
	}
	if s := collapse(m[1]); s != "" {
		return s
	}
	return OpinionPlaceholder
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
