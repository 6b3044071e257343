package session

import (
	"time"

	"leaveline/internal/ledger"
)

// Session is the per-call scratch state the dialogue carries between
// webhook turns. It lives only as long as the call (plus the idle
// window the store allows).
type Session struct {
	CallID           string           `json:"call_id"`
	EmployeeAddress  string           `json:"employee_address,omitempty"`
	PendingLeaveType ledger.LeaveType `json:"pending_leave_type,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
