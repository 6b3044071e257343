package dialogue_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"leaveline/internal/dialogue"
	"leaveline/internal/ledger"
	"leaveline/internal/normalize"
	"leaveline/internal/session"
	"leaveline/internal/voice"

	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	mu        sync.Mutex
	addresses []string
	bodies    []string
}

func (f *fakeNotifier) Notify(_ context.Context, address, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addresses = append(f.addresses, address)
	f.bodies = append(f.bodies, body)
}

func (f *fakeNotifier) sent() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addresses, f.bodies
}

type testHarness struct {
	service  dialogue.Service
	ledger   ledger.Service
	notifier *fakeNotifier
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	repo := ledger.NewFileRepository(filepath.Join(t.TempDir(), "ledger.json"))
	ledgerService := ledger.NewService(repo)
	notifier := &fakeNotifier{}

	svc := dialogue.NewService(
		session.NewMemoryStore(time.Minute),
		ledgerService,
		notifier,
		normalize.NewDateParser(),
		"acme.example",
	)

	return &testHarness{service: svc, ledger: ledgerService, notifier: notifier}
}

func render(t *testing.T, m *voice.Markup) string {
	t.Helper()
	body, err := m.Render()
	assert.NoError(t, err)
	return string(body)
}

func TestDialogue_ApplyFlow(t *testing.T) {
	ctx := context.Background()
	callID := "CA100"

	t.Run("success full application dialogue", func(t *testing.T) {
		h := newTestHarness(t)

		m, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "employee number")
		assert.Contains(t, out, `action="/voice/employee-id"`)

		m, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)
		out = render(t, m)
		assert.Contains(t, out, `action="/voice/menu"`)

		m, err = h.service.Menu(ctx, callID, voice.Input{Speech: "I want to apply for leave"})
		assert.NoError(t, err)
		out = render(t, m)
		assert.Contains(t, out, `action="/voice/leave-type"`)

		m, err = h.service.LeaveType(ctx, callID, voice.Input{Speech: "sick leave please"})
		assert.NoError(t, err)
		out = render(t, m)
		assert.Contains(t, out, `action="/voice/date-range"`)

		m, err = h.service.DateRange(ctx, callID, voice.Input{Speech: "2030-09-10 to 2030-09-12"})
		assert.NoError(t, err)
		out = render(t, m)
		assert.Contains(t, out, "sick leave from 10 September 2030 to 12 September 2030")
		assert.Contains(t, out, "3 days")
		assert.Contains(t, out, "approved")
		assert.Contains(t, out, "<Hangup>")

		addresses, bodies := h.notifier.sent()
		assert.Equal(t, []string{"246433@acme.example"}, addresses)
		assert.Len(t, bodies, 1)
		assert.Contains(t, bodies[0], "approved")

		entry, err := h.ledger.Status(ctx, "246433@acme.example")
		assert.NoError(t, err)
		assert.Len(t, entry.Requests, 1)
		assert.Equal(t, 6, entry.Balances[ledger.LeaveSick])
	})

	t.Run("success spoken digits identify the employee", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)

		m, err := h.service.EmployeeID(ctx, callID, voice.Input{
			Speech: "two four six four three three",
		})
		assert.NoError(t, err)
		assert.Contains(t, render(t, m), `action="/voice/menu"`)
	})

	t.Run("negative unverifiable employee id ends the call", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)

		m, err := h.service.EmployeeID(ctx, callID, voice.Input{Speech: "twelve"})
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "could not verify")
		assert.Contains(t, out, "<Hangup>")
	})

	t.Run("negative unknown menu choice ends the call", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)

		m, err := h.service.Menu(ctx, callID, voice.Input{Speech: "mumble"})
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "did not understand")
		assert.Contains(t, out, "<Hangup>")
	})

	t.Run("negative unrecognized leave type re-asks", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)

		m, err := h.service.LeaveType(ctx, callID, voice.Input{Speech: "vacation to the moon"})
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "did not catch the leave type")
		assert.Contains(t, out, `action="/voice/leave-type"`)

		m, err = h.service.LeaveType(ctx, callID, voice.Input{Digits: "1"})
		assert.NoError(t, err)
		assert.Contains(t, render(t, m), `action="/voice/date-range"`)
	})

	t.Run("negative unparseable dates re-ask", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)
		_, err = h.service.LeaveType(ctx, callID, voice.Input{Digits: "3"})
		assert.NoError(t, err)

		m, err := h.service.DateRange(ctx, callID, voice.Input{Speech: "absolutely nothing useful"})
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "could not understand those dates")
		assert.Contains(t, out, `action="/voice/date-range"`)
	})

	t.Run("negative duplicate application is refused", func(t *testing.T) {
		h := newTestHarness(t)
		speech := voice.Input{Speech: "2030-09-10 to 2030-09-12"}

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)
		_, err = h.service.LeaveType(ctx, callID, voice.Input{Digits: "1"})
		assert.NoError(t, err)
		_, err = h.service.DateRange(ctx, callID, speech)
		assert.NoError(t, err)

		_, err = h.service.LeaveType(ctx, callID, voice.Input{Digits: "1"})
		assert.NoError(t, err)
		m, err := h.service.DateRange(ctx, callID, speech)
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "already applied")
		assert.Contains(t, out, "<Hangup>")
	})

	t.Run("negative insufficient balance is refused", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)
		_, err = h.service.LeaveType(ctx, callID, voice.Input{Speech: "casual"})
		assert.NoError(t, err)

		// Casual starts at 8 days; a 10 day range must be refused.
		m, err := h.service.DateRange(ctx, callID, voice.Input{
			Speech: "2030-09-01 to 2030-09-10",
		})
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "not have enough leave balance")
		assert.Contains(t, out, "<Hangup>")

		addresses, _ := h.notifier.sent()
		assert.Empty(t, addresses)
	})

	t.Run("negative dates before identification start over", func(t *testing.T) {
		h := newTestHarness(t)

		m, err := h.service.DateRange(ctx, callID, voice.Input{Speech: "2030-09-10 to 2030-09-12"})
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "start over")
		assert.Contains(t, out, "<Hangup>")
	})
}

func TestDialogue_Status(t *testing.T) {
	ctx := context.Background()
	callID := "CA200"

	t.Run("success status with no requests reads balances", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)

		m, err := h.service.Menu(ctx, callID, voice.Input{Digits: "2"})
		assert.NoError(t, err)
		assert.Contains(t, render(t, m), "<Redirect method=\"POST\">/voice/status</Redirect>")

		m, err = h.service.Status(ctx, callID)
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "no leave requests on record")
		assert.Contains(t, out, "casual 8 days")
		assert.Contains(t, out, "personal 10 days")
		assert.Contains(t, out, "sick 9 days")
		assert.Contains(t, out, "paternity 8 days")
	})

	t.Run("success status reads the most recent request", func(t *testing.T) {
		h := newTestHarness(t)

		_, err := h.service.Welcome(ctx, callID)
		assert.NoError(t, err)
		_, err = h.service.EmployeeID(ctx, callID, voice.Input{Digits: "246433"})
		assert.NoError(t, err)
		_, err = h.service.LeaveType(ctx, callID, voice.Input{Digits: "2"})
		assert.NoError(t, err)
		_, err = h.service.DateRange(ctx, callID, voice.Input{Speech: "2030-09-10 to 2030-09-12"})
		assert.NoError(t, err)

		m, err := h.service.Status(ctx, callID)
		assert.NoError(t, err)
		out := render(t, m)
		assert.Contains(t, out, "most recent request is personal leave")
		assert.Contains(t, out, "status approved")
		assert.Contains(t, out, "personal 7 days")
	})

	t.Run("negative status before identification starts over", func(t *testing.T) {
		h := newTestHarness(t)

		m, err := h.service.Status(ctx, callID)
		assert.NoError(t, err)
		assert.Contains(t, render(t, m), "start over")
	})
}
