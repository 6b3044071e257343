package ledger

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const StatusApproved = "APPROVED"

// LeaveType is the canonical leave category code.
type LeaveType string

const (
	LeaveCasual    LeaveType = "CASUAL"
	LeavePersonal  LeaveType = "PERSONAL"
	LeaveSick      LeaveType = "SICK"
	LeavePaternity LeaveType = "PATERNITY"
)

// LeaveTypes lists every category in the order balances are reported
// to the caller.
var LeaveTypes = []LeaveType{LeaveCasual, LeavePersonal, LeaveSick, LeavePaternity}

// defaultBalances is the seed for a newly referenced employee. Policy
// constants, not protocol requirements.
var defaultBalances = map[LeaveType]int{
	LeaveCasual:    8,
	LeavePersonal:  10,
	LeaveSick:      9,
	LeavePaternity: 8,
}

var titleCaser = cases.Title(language.English)

// DisplayName renders the code the way it is spoken, e.g. "Casual".
func (t LeaveType) DisplayName() string {
	return titleCaser.String(strings.ToLower(string(t)))
}

// DateRange is an inclusive calendar date pair with End >= Start.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes the pair: a missing or earlier end date is
// substituted with start, and times are truncated to the calendar day.
func NewDateRange(start, end time.Time) DateRange {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		end = start
	}
	return DateRange{Start: start, End: end}
}

// Days is the inclusive day count, minimum 1.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Request is one applied leave request. Immutable once recorded.
type Request struct {
	ID        string    `json:"id"`
	LeaveType LeaveType `json:"leave_type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      int       `json:"days"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// Entry is one employee's ledger record: current balances plus the
// append-only request history.
type Entry struct {
	Balances map[LeaveType]int `json:"balances"`
	Requests []Request         `json:"requests"`
}

// NewEntry seeds a fresh entry with the default balances.
func NewEntry() *Entry {
	balances := make(map[LeaveType]int, len(defaultBalances))
	for code, days := range defaultBalances {
		balances[code] = days
	}
	return &Entry{Balances: balances, Requests: []Request{}}
}

// Document is the whole persisted ledger, keyed by employee address.
type Document map[string]*Entry

const dateLayout = "2006-01-02"

// FormatDate renders a date the way it is stored in the document.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
