package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leaveline/internal/ledger"
	"leaveline/internal/session"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("success get or create is idempotent", func(t *testing.T) {
		store := session.NewMemoryStore(time.Minute)

		first, err := store.GetOrCreate(ctx, "CA123")
		assert.NoError(t, err)
		assert.Equal(t, "CA123", first.CallID)

		first.EmployeeAddress = "246433@acme.example"
		assert.NoError(t, store.Save(ctx, first))

		again, err := store.GetOrCreate(ctx, "CA123")
		assert.NoError(t, err)
		assert.Equal(t, "246433@acme.example", again.EmployeeAddress)
	})

	t.Run("success remove forgets the session", func(t *testing.T) {
		store := session.NewMemoryStore(time.Minute)

		s, err := store.GetOrCreate(ctx, "CA123")
		assert.NoError(t, err)
		s.PendingLeaveType = ledger.LeaveCasual
		assert.NoError(t, store.Save(ctx, s))

		assert.NoError(t, store.Remove(ctx, "CA123"))

		fresh, err := store.GetOrCreate(ctx, "CA123")
		assert.NoError(t, err)
		assert.Empty(t, fresh.PendingLeaveType)
	})

	t.Run("success sweeper evicts idle sessions", func(t *testing.T) {
		store := session.NewMemoryStore(10 * time.Millisecond)

		s, err := store.GetOrCreate(ctx, "CA123")
		assert.NoError(t, err)
		s.EmployeeAddress = "246433@acme.example"
		assert.NoError(t, store.Save(ctx, s))

		sweepCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go store.StartSweeper(sweepCtx, 10*time.Millisecond)

		assert.Eventually(t, func() bool {
			fresh, err := store.GetOrCreate(ctx, "CA123")
			return err == nil && fresh.EmployeeAddress == ""
		}, time.Second, 20*time.Millisecond)
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	ttl := 30 * time.Minute

	t.Run("success missing key yields a fresh session", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb, ttl)

		mock.ExpectGet("call_session:CA123").RedisNil()

		s, err := store.GetOrCreate(ctx, "CA123")

		assert.NoError(t, err)
		assert.Equal(t, "CA123", s.CallID)
		assert.Empty(t, s.EmployeeAddress)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success existing session round trips", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb, ttl)

		stored := session.Session{
			CallID:           "CA123",
			EmployeeAddress:  "246433@acme.example",
			PendingLeaveType: ledger.LeaveSick,
			UpdatedAt:        time.Now().UTC(),
		}
		raw, err := json.Marshal(stored)
		assert.NoError(t, err)

		mock.ExpectGet("call_session:CA123").SetVal(string(raw))

		s, err := store.GetOrCreate(ctx, "CA123")

		assert.NoError(t, err)
		assert.Equal(t, "246433@acme.example", s.EmployeeAddress)
		assert.Equal(t, ledger.LeaveSick, s.PendingLeaveType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success save sets the value with ttl", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb, ttl)

		mock.Regexp().ExpectSet("call_session:CA123", `.*246433@acme\.example.*`, ttl).SetVal("OK")

		err := store.Save(ctx, &session.Session{
			CallID:          "CA123",
			EmployeeAddress: "246433@acme.example",
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success corrupt value starts fresh", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb, ttl)

		mock.ExpectGet("call_session:CA123").SetVal("{not json")

		s, err := store.GetOrCreate(ctx, "CA123")

		assert.NoError(t, err)
		assert.Equal(t, "CA123", s.CallID)
		assert.Empty(t, s.EmployeeAddress)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success remove deletes the key", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb, ttl)

		mock.ExpectDel("call_session:CA123").SetVal(1)

		assert.NoError(t, store.Remove(ctx, "CA123"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
