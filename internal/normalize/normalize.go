// Package normalize turns noisy spoken or keyed caller input into
// canonical tokens: a 6-digit employee id, a leave type code, or a
// calendar date range.
package normalize

import (
	"net/http"
	"regexp"
	"strings"

	"leaveline/internal/shared/apperror"
)

const employeeIDLength = 6

var (
	ErrEmployeeIDInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"employee id must contain at least six digits",
		http.StatusBadRequest,
	)
)

// repairRule is one deterministic substitution applied to a transcript
// before digits are extracted. Rules run in order; no open-ended fuzzy
// correction happens here.
type repairRule struct {
	pattern *regexp.Regexp
	replace string
}

var repairRules = []repairRule{
	// Spoken digit words, including the common "oh" for zero.
	{regexp.MustCompile(`(?i)\bzero\b`), "0"},
	{regexp.MustCompile(`(?i)\boh\b`), "0"},
	{regexp.MustCompile(`(?i)\bone\b`), "1"},
	{regexp.MustCompile(`(?i)\btwo\b`), "2"},
	{regexp.MustCompile(`(?i)\bthree\b`), "3"},
	{regexp.MustCompile(`(?i)\bfour\b`), "4"},
	{regexp.MustCompile(`(?i)\bfive\b`), "5"},
	{regexp.MustCompile(`(?i)\bsix\b`), "6"},
	{regexp.MustCompile(`(?i)\bseven\b`), "7"},
	{regexp.MustCompile(`(?i)\beight\b`), "8"},
	{regexp.MustCompile(`(?i)\bnine\b`), "9"},
	// Drop everything that is neither a digit nor a space.
	{regexp.MustCompile(`[^0-9 ]`), ""},
	// Collapse whitespace runs.
	{regexp.MustCompile(`\s+`), " "},
}

var employeeIDPattern = regexp.MustCompile(`^\d{6}$`)

// repair applies the rule table to a raw transcript.
func repair(input string) string {
	out := input
	for _, rule := range repairRules {
		out = rule.pattern.ReplaceAllString(out, rule.replace)
	}
	return strings.TrimSpace(out)
}

// extractDigits concatenates the digits left after repair and takes
// the first n; empty string when fewer than n were recovered.
func extractDigits(input string, n int) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == n {
				return b.String()
			}
		}
	}
	return ""
}

// EmployeeID produces the canonical 6-digit employee id from a keyed
// digit string or, failing that, a spoken transcript. Repair and the
// final format check are separate stages so each stays testable.
func EmployeeID(digits, speech string) (string, error) {
	if id := extractDigits(digits, employeeIDLength); id != "" {
		return id, nil
	}

	if id := extractDigits(repair(speech), employeeIDLength); id != "" {
		if employeeIDPattern.MatchString(id) {
			return id, nil
		}
	}

	return "", ErrEmployeeIDInvalid
}

// Address synthesizes the canonical employee address from a verified
// id. Composing the address beats parsing a spoken domain, which would
// need open-ended speech-error correction.
func Address(id, domain string) string {
	return id + "@" + domain
}
