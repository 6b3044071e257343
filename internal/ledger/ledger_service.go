package ledger

import (
	"context"
	"sync"
	"time"

	ledgererrors "leaveline/internal/ledger/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	GetOrCreate(ctx context.Context, address string) (*Entry, error)
	Apply(ctx context.Context, address string, code LeaveType, rng DateRange) (Request, error)
	Status(ctx context.Context, address string) (*Entry, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger

	// mu serializes every read-modify-write cycle over the whole
	// document. Saves replace the full snapshot, so two interleaved
	// cycles would have the later one persist a copy that never saw
	// the earlier one's request, even for different employees.
	mu sync.Mutex
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{
		repo:   repo,
		logger: l,
	}
}

func (s *service) GetOrCreate(ctx context.Context, address string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("ledger load failed", zap.Error(err))
		return nil, err
	}

	entry, ok := doc[address]
	if ok {
		return entry, nil
	}

	entry = NewEntry()
	doc[address] = entry
	if err := s.repo.Save(ctx, doc); err != nil {
		s.logger.Error("ledger seed entry persist failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("ledger entry created",
		zap.String("address", address),
	)
	return entry, nil
}

func findDuplicate(entry *Entry, code LeaveType, rng DateRange) *Request {
	start := FormatDate(rng.Start)
	end := FormatDate(rng.End)
	for i := range entry.Requests {
		req := &entry.Requests[i]
		if req.LeaveType == code && req.StartDate == start && req.EndDate == end {
			return req
		}
	}
	return nil
}

// Apply runs the whole business transaction under the document lock:
// duplicate check, balance check, deduction, append, persist. The
// balance is checked before any mutation so a rejected request leaves
// the entry untouched.
func (s *service) Apply(ctx context.Context, address string, code LeaveType, rng DateRange) (Request, error) {
	if _, ok := defaultBalances[code]; !ok {
		return Request{}, ledgererrors.ErrUnknownLeaveType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("ledger load failed", zap.Error(err))
		return Request{}, err
	}

	entry, ok := doc[address]
	if !ok {
		entry = NewEntry()
		doc[address] = entry
	}

	days := rng.Days()
	if dup := findDuplicate(entry, code, rng); dup != nil {
		s.logger.Warn("duplicate leave request rejected",
			zap.String("address", address),
			zap.String("leave_type", string(code)),
			zap.String("start_date", FormatDate(rng.Start)),
			zap.String("end_date", FormatDate(rng.End)),
		)
		return Request{}, ledgererrors.ErrDuplicateRequest
	}

	if entry.Balances[code] < days {
		s.logger.Warn("insufficient leave balance",
			zap.String("address", address),
			zap.String("leave_type", string(code)),
			zap.Int("requested_days", days),
			zap.Int("balance", entry.Balances[code]),
		)
		return Request{}, ledgererrors.ErrInsufficientBalance
	}

	req := Request{
		ID:        uuid.New().String(),
		LeaveType: code,
		StartDate: FormatDate(rng.Start),
		EndDate:   FormatDate(rng.End),
		Days:      days,
		Status:    StatusApproved,
		AppliedAt: time.Now().UTC(),
	}

	entry.Balances[code] -= days
	entry.Requests = append(entry.Requests, req)

	if err := s.repo.Save(ctx, doc); err != nil {
		// Roll the in-memory entry back so a retry starts clean.
		entry.Balances[code] += days
		entry.Requests = entry.Requests[:len(entry.Requests)-1]
		s.logger.Error("ledger apply persist failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return Request{}, err
	}

	s.logger.Info("leave request applied",
		zap.String("request_id", req.ID),
		zap.String("address", address),
		zap.String("leave_type", string(code)),
		zap.Int("days", days),
		zap.Int("remaining_balance", entry.Balances[code]),
	)
	return req, nil
}

func (s *service) Status(ctx context.Context, address string) (*Entry, error) {
	return s.GetOrCreate(ctx, address)
}
