package normalize

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"leaveline/internal/ledger"
	"leaveline/internal/shared/apperror"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var ErrDateUnparseable = apperror.New(
	apperror.CodeInvalidInput,
	"could not understand the dates",
	http.StatusBadRequest,
)

// rangeSeparator splits "10 september to 15 september" style phrases
// into at most two date parts.
// A bare hyphen only separates when surrounded by spaces, so ISO
// dates like 2025-09-10 stay intact.
var rangeSeparator = regexp.MustCompile(`(?i)\s+(?:to|until|till|through|-)\s+`)

// ordinalSuffix strips "10th", "1st", "2nd", "3rd" down to the number.
var ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)

// dateLayouts are tried in order before falling back to the
// natural-language parser. Fixed single locale, no timezone handling.
var dateLayouts = []string{
	"2006-01-02",
	"2 January 2006",
	"January 2 2006",
	"2 January",
	"January 2",
	"02/01/2006",
}

// DateParser turns one spoken date phrase into a calendar instant.
// The natural-language engine behind it is a black box; only the
// "phrase in, instant or failure out" contract matters here.
type DateParser interface {
	ParseDate(phrase string, now time.Time) (time.Time, bool)
}

type whenParser struct {
	w *when.Parser
}

// NewDateParser builds the default parser: a deterministic layout list
// first, then the when rule engine for phrases like "next monday".
func NewDateParser() DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &whenParser{w: w}
}

func (p *whenParser) ParseDate(phrase string, now time.Time) (time.Time, bool) {
	cleaned := strings.TrimSpace(ordinalSuffix.ReplaceAllString(phrase, "$1"))
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, cleaned)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t, true
	}

	result, err := p.w.Parse(cleaned, now)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return result.Time, true
}

// Range extracts a date range from one spoken phrase. The first
// parseable instant becomes the start; a second one, if present,
// becomes the end, otherwise the range covers a single day.
func Range(parser DateParser, phrase string, now time.Time) (ledger.DateRange, error) {
	parts := rangeSeparator.Split(phrase, 2)

	start, ok := parser.ParseDate(parts[0], now)
	if !ok {
		// Separators may be missing entirely; give the whole phrase
		// to the parser before failing.
		start, ok = parser.ParseDate(phrase, now)
		if !ok {
			return ledger.DateRange{}, ErrDateUnparseable
		}
		return ledger.NewDateRange(start, start), nil
	}

	if len(parts) == 2 {
		if end, ok := parser.ParseDate(parts[1], now); ok {
			return ledger.NewDateRange(start, end), nil
		}
	}
	return ledger.NewDateRange(start, start), nil
}
