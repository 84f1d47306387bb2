package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireHeldReturnsErrHeld(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSetNX("hrms:payroll:2025-01-01:2025-01-31", `[0-9a-f]{32}`, time.Minute).SetVal(false)

	locker := NewRedis(client, "hrms:")
	_, err := locker.Acquire(context.Background(), "payroll:2025-01-01:2025-01-31", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireFree(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSetNX("hrms:k", `[0-9a-f]{32}`, time.Minute).SetVal(true)

	locker := NewRedis(client, "hrms:")
	release, err := locker.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, release)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireRedisDown(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSetNX("k", `.+`, time.Second).SetErr(errors.New("connection refused"))

	_, err := NewRedis(client, "").Acquire(context.Background(), "k", time.Second)
	assert.EqualError(t, err, "connection refused")
}

func TestNoopAlwaysAcquires(t *testing.T) {
	release, err := Noop{}.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
