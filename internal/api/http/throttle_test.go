package http

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/config"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

func newMockThrottler(t *testing.T, limit int) (*Throttler, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	th := NewThrottler(db, config.ThrottleConfig{Enabled: true, Limit: limit, WindowSeconds: 60}, zap.NewNop())
	th.now = func() time.Time { return time.Unix(1_746_000_000, 0) }
	return th, mock
}

func TestThrottlerRejectsAfterLimit(t *testing.T) {
	th, mock := newMockThrottler(t, 2)
	s := newTestServer(t, th)

	key := th.key("manager-tickets", "mgr-1")
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	for i := 0; i < 2; i++ {
		status, body := s.call(t, "mgr-1", fiber.MethodGet, "/manager/tickets", nil)
		require.Equal(t, fiber.StatusOK, status, body)
	}
	status, body := s.call(t, "mgr-1", fiber.MethodGet, "/manager/tickets", nil)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, apperrors.CodeRateLimited, errorBody(t, body)["code"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestThrottlerFailsOpen(t *testing.T) {
	th, mock := newMockThrottler(t, 1)
	s := newTestServer(t, th)

	key := th.key("manager-tickets", "mgr-1")
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	status, body := s.call(t, "mgr-1", fiber.MethodGet, "/manager/tickets", nil)
	assert.Equal(t, fiber.StatusOK, status, body)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestThrottlerDisabledWithoutClient(t *testing.T) {
	th := NewThrottler(nil, config.ThrottleConfig{Enabled: true, Limit: 1, WindowSeconds: 60}, nil)
	s := newTestServer(t, th)

	for i := 0; i < 3; i++ {
		status, _ := s.call(t, "mgr-1", fiber.MethodGet, "/manager/tickets", nil)
		assert.Equal(t, fiber.StatusOK, status)
	}
}

func TestThrottlerKeysByWindow(t *testing.T) {
	th, _ := newMockThrottler(t, 1)
	first := th.key("hr-status", "hr-1")
	th.now = func() time.Time { return time.Unix(1_746_000_000+60, 0) }
	assert.NotEqual(t, first, th.key("hr-status", "hr-1"))
	assert.Contains(t, first, "throttle:hr-status:hr-1:")
}
