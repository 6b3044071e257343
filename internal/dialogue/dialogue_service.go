package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leaveline/internal/ledger"
	ledgererrors "leaveline/internal/ledger/errors"
	"leaveline/internal/normalize"
	"leaveline/internal/notify"
	"leaveline/internal/session"
	"leaveline/internal/voice"

	"go.uber.org/zap"
)

// Step action routes. The provider posts the gathered input of one
// step to the route of the next.
const (
	RouteWelcome    = "/voice/welcome"
	RouteEmployeeID = "/voice/employee-id"
	RouteMenu       = "/voice/menu"
	RouteLeaveType  = "/voice/leave-type"
	RouteDateRange  = "/voice/date-range"
	RouteStatus     = "/voice/status"
)

const (
	promptGreeting = "Welcome to the leave assistant. " +
		"Please say or enter your six digit employee number."
	promptMenu = "Say apply, or press one, to apply for leave. " +
		"Say status, or press two, to hear your balances."
	promptLeaveType = "Which type of leave would you like? " +
		"Casual, personal, sick, or paternity."
	promptLeaveTypeRetry = "Sorry, I did not catch the leave type. " +
		"You can say casual, personal, sick, or paternity."
	promptDates = "For which dates? " +
		"For example, say tenth September to fifteenth September."
	promptDatesRetry = "Sorry, I could not understand those dates. " +
		"Please say the start and end date again."
	promptBadEmployeeID = "I could not verify that employee number. " +
		"Please call again. Goodbye."
	promptNotUnderstood = "Sorry, I did not understand that. Goodbye."
	promptStartOver     = "Something went wrong with this call. " +
		"Please call again and start over. Goodbye."
	promptDuplicate = "You have already applied for identical leave " +
		"on those dates. Goodbye."
	promptInsufficient = "You do not have enough leave balance for " +
		"those dates. Goodbye."
)

// spokenDateLayout renders dates the way they are read out.
const spokenDateLayout = "2 January 2006"

type Service interface {
	Welcome(ctx context.Context, callID string) (*voice.Markup, error)
	EmployeeID(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error)
	Menu(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error)
	LeaveType(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error)
	DateRange(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error)
	Status(ctx context.Context, callID string) (*voice.Markup, error)
}

type service struct {
	sessions session.Store
	ledger   ledger.Service
	notifier notify.Notifier
	dates    normalize.DateParser
	domain   string
	logger   *zap.Logger
}

func NewService(
	sessions session.Store,
	ledgerService ledger.Service,
	notifier notify.Notifier,
	dates normalize.DateParser,
	domain string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dialogue.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dialogue.service")
	}
	return &service{
		sessions: sessions,
		ledger:   ledgerService,
		notifier: notifier,
		dates:    dates,
		domain:   domain,
		logger:   l,
	}
}

func (s *service) Welcome(ctx context.Context, callID string) (*voice.Markup, error) {
	sess, err := s.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("call started", zap.String("call_id", callID))
	return voice.Ask(promptGreeting, RouteEmployeeID, 6), nil
}

func (s *service) EmployeeID(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error) {
	sess, err := s.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return nil, err
	}

	id, err := normalize.EmployeeID(in.Digits, in.Speech)
	if err != nil {
		// One attempt only; an unverifiable id ends the call.
		s.logger.Warn("employee id rejected",
			zap.String("call_id", callID),
			zap.String("digits", in.Digits),
			zap.String("speech", in.Speech),
		)
		return voice.Prompt(promptBadEmployeeID), nil
	}

	sess.EmployeeAddress = normalize.Address(id, s.domain)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("employee identified",
		zap.String("call_id", callID),
		zap.String("address", sess.EmployeeAddress),
	)
	return voice.Ask(promptMenu, RouteMenu, 1), nil
}

func (s *service) Menu(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error) {
	sess, err := s.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return nil, err
	}
	if sess.EmployeeAddress == "" {
		return voice.Prompt(promptStartOver), nil
	}

	switch menuChoice(in) {
	case "apply":
		return voice.Ask(promptLeaveType, RouteLeaveType, 1), nil
	case "status":
		return voice.Jump(RouteStatus), nil
	default:
		s.logger.Warn("menu choice not understood",
			zap.String("call_id", callID),
			zap.String("digits", in.Digits),
			zap.String("speech", in.Speech),
		)
		return voice.Prompt(promptNotUnderstood), nil
	}
}

func menuChoice(in voice.Input) string {
	switch strings.TrimSpace(in.Digits) {
	case "1":
		return "apply"
	case "2":
		return "status"
	}

	speech := strings.ToLower(in.Speech)
	switch {
	case strings.Contains(speech, "apply"), strings.Contains(speech, "leave request"):
		return "apply"
	case strings.Contains(speech, "status"), strings.Contains(speech, "balance"):
		return "status"
	}
	return ""
}

func (s *service) LeaveType(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error) {
	sess, err := s.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return nil, err
	}
	if sess.EmployeeAddress == "" {
		return voice.Prompt(promptStartOver), nil
	}

	input := in.Speech
	if strings.TrimSpace(in.Digits) != "" {
		input = in.Digits
	}

	code, ok := normalize.LeaveType(input)
	if !ok {
		// Unbounded re-prompt; the caller can take as many tries as
		// they need.
		return voice.Ask(promptLeaveTypeRetry, RouteLeaveType, 1), nil
	}

	sess.PendingLeaveType = code
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("leave type captured",
		zap.String("call_id", callID),
		zap.String("leave_type", string(code)),
	)
	return voice.Ask(promptDates, RouteDateRange, 0), nil
}

func (s *service) DateRange(ctx context.Context, callID string, in voice.Input) (*voice.Markup, error) {
	sess, err := s.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return nil, err
	}
	if sess.EmployeeAddress == "" || sess.PendingLeaveType == "" {
		return voice.Prompt(promptStartOver), nil
	}

	rng, err := normalize.Range(s.dates, in.Speech, time.Now().UTC())
	if err != nil {
		return voice.Ask(promptDatesRetry, RouteDateRange, 0), nil
	}

	req, err := s.ledger.Apply(ctx, sess.EmployeeAddress, sess.PendingLeaveType, rng)
	if err != nil {
		switch {
		case errors.Is(err, ledgererrors.ErrDuplicateRequest):
			return voice.Prompt(promptDuplicate), nil
		case errors.Is(err, ledgererrors.ErrInsufficientBalance):
			return voice.Prompt(promptInsufficient), nil
		default:
			return nil, err
		}
	}

	confirmation := confirmationText(req)
	// Fire-and-forget: the spoken confirmation never waits on, or
	// learns about, delivery.
	s.notifier.Notify(ctx, sess.EmployeeAddress, confirmation)

	sess.PendingLeaveType = ""
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Warn("session save after apply failed",
			zap.String("call_id", callID),
			zap.Error(err),
		)
	}

	return voice.SayThen(confirmation, voice.Prompt("Goodbye.")), nil
}

func confirmationText(req ledger.Request) string {
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	return fmt.Sprintf(
		"Your %s leave from %s to %s, %d days, has been approved.",
		strings.ToLower(req.LeaveType.DisplayName()),
		start.Format(spokenDateLayout),
		end.Format(spokenDateLayout),
		req.Days,
	)
}

func (s *service) Status(ctx context.Context, callID string) (*voice.Markup, error) {
	sess, err := s.sessions.GetOrCreate(ctx, callID)
	if err != nil {
		return nil, err
	}
	if sess.EmployeeAddress == "" {
		return voice.Prompt(promptStartOver), nil
	}

	entry, err := s.ledger.Status(ctx, sess.EmployeeAddress)
	if err != nil {
		return nil, err
	}

	return voice.SayThen(statusText(entry), voice.Prompt("Goodbye.")), nil
}

func statusText(entry *ledger.Entry) string {
	var b strings.Builder

	if len(entry.Requests) == 0 {
		b.WriteString("You have no leave requests on record. ")
	} else {
		latest := entry.Requests[len(entry.Requests)-1]
		start, _ := time.Parse("2006-01-02", latest.StartDate)
		end, _ := time.Parse("2006-01-02", latest.EndDate)
		fmt.Fprintf(&b,
			"Your most recent request is %s leave from %s to %s, status %s. ",
			strings.ToLower(latest.LeaveType.DisplayName()),
			start.Format(spokenDateLayout),
			end.Format(spokenDateLayout),
			strings.ToLower(latest.Status),
		)
	}

	b.WriteString("Your balances are: ")
	for i, code := range ledger.LeaveTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %d days", strings.ToLower(code.DisplayName()), entry.Balances[code])
	}
	b.WriteString(".")
	return b.String()
}
