package normalize_test

import (
	"testing"

	"leaveline/internal/ledger"
	"leaveline/internal/normalize"

	"github.com/stretchr/testify/assert"
)

func TestLeaveType(t *testing.T) {
	t.Run("success full phrases", func(t *testing.T) {
		cases := map[string]ledger.LeaveType{
			"sick leave":                       ledger.LeaveSick,
			"I want to take casual leave":      ledger.LeaveCasual,
			"personal leave please":            ledger.LeavePersonal,
			"Paternity Leave":                  ledger.LeavePaternity,
			"could I have some medical leave?": ledger.LeaveSick,
		}

		for input, want := range cases {
			code, ok := normalize.LeaveType(input)
			assert.True(t, ok, "input %q", input)
			assert.Equal(t, want, code, "input %q", input)
		}
	})

	t.Run("success longer phrase wins over contained word", func(t *testing.T) {
		// "sick leave" must resolve through its own entry, not be
		// swallowed by a shorter key earlier in the table.
		code, ok := normalize.LeaveType("sick leave")

		assert.True(t, ok)
		assert.Equal(t, ledger.LeaveSick, code)
	})

	t.Run("success abbreviations as whole words", func(t *testing.T) {
		code, ok := normalize.LeaveType("sl")
		assert.True(t, ok)
		assert.Equal(t, ledger.LeaveSick, code)

		code, ok = normalize.LeaveType("apply cl tomorrow")
		assert.True(t, ok)
		assert.Equal(t, ledger.LeaveCasual, code)
	})

	t.Run("success keypad digits", func(t *testing.T) {
		for digit, want := range map[string]ledger.LeaveType{
			"1": ledger.LeaveCasual,
			"2": ledger.LeavePersonal,
			"3": ledger.LeaveSick,
			"4": ledger.LeavePaternity,
		} {
			code, ok := normalize.LeaveType(digit)
			assert.True(t, ok)
			assert.Equal(t, want, code)
		}
	})

	t.Run("negative abbreviation inside a word does not match", func(t *testing.T) {
		_, ok := normalize.LeaveType("uncle told me to call")

		assert.False(t, ok)
	})

	t.Run("negative unrecognized input", func(t *testing.T) {
		_, ok := normalize.LeaveType("a fortnight of gardening")

		assert.False(t, ok)
	})

	t.Run("negative empty input", func(t *testing.T) {
		_, ok := normalize.LeaveType("")

		assert.False(t, ok)
	})
}
