package normalize

import (
	"strings"

	"leaveline/internal/ledger"
)

// synonym maps one spoken phrase or abbreviation to a leave type. The
// table is scanned in order and the first hit wins, so longer phrases
// sit before the single words and abbreviations they contain:
// "sick leave" must never be swallowed by a shorter entry.
type synonym struct {
	phrase string
	code   ledger.LeaveType
	word   bool // match as a whole word, used for short abbreviations
}

var leaveTypeSynonyms = []synonym{
	{phrase: "paternity leave", code: ledger.LeavePaternity},
	{phrase: "personal leave", code: ledger.LeavePersonal},
	{phrase: "casual leave", code: ledger.LeaveCasual},
	{phrase: "sick leave", code: ledger.LeaveSick},
	{phrase: "paternity", code: ledger.LeavePaternity},
	{phrase: "personal", code: ledger.LeavePersonal},
	{phrase: "casual", code: ledger.LeaveCasual},
	{phrase: "sick", code: ledger.LeaveSick},
	{phrase: "medical", code: ledger.LeaveSick},
	{phrase: "pat", code: ledger.LeavePaternity, word: true},
	{phrase: "cl", code: ledger.LeaveCasual, word: true},
	{phrase: "pl", code: ledger.LeavePersonal, word: true},
	{phrase: "sl", code: ledger.LeaveSick, word: true},
}

// leaveTypeDigits maps a keypad entry to a leave type, in the order
// the menu prompt reads them out.
var leaveTypeDigits = map[string]ledger.LeaveType{
	"1": ledger.LeaveCasual,
	"2": ledger.LeavePersonal,
	"3": ledger.LeaveSick,
	"4": ledger.LeavePaternity,
}

func containsWord(input, word string) bool {
	for _, field := range strings.Fields(input) {
		if field == word {
			return true
		}
	}
	return false
}

// LeaveType resolves free text or a keypad digit to a leave type code.
// Returns false when nothing in the input is recognizable.
func LeaveType(input string) (ledger.LeaveType, bool) {
	trimmed := strings.TrimSpace(input)
	if code, ok := leaveTypeDigits[trimmed]; ok {
		return code, true
	}

	lowered := strings.ToLower(trimmed)
	for _, s := range leaveTypeSynonyms {
		if s.word {
			if containsWord(lowered, s.phrase) {
				return s.code, true
			}
			continue
		}
		if strings.Contains(lowered, s.phrase) {
			return s.code, true
		}
	}
	return "", false
}
