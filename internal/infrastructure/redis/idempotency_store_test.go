package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.err)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			delete(m.ttls, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestKey_IncluyeEmpresa(t *testing.T) {
	assert.Equal(t, "estoque:idempotency:c1:abc", Key("c1", "abc"))
}

func TestIdempotencyStore_GetSinClave(t *testing.T) {
	s := newWithCmdable(newMockCmdable(), time.Hour)

	got, err := s.Get(context.Background(), "c1", "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyStore_ReservaYCompleta(t *testing.T) {
	mock := newMockCmdable()
	s := newWithCmdable(mock, 24*time.Hour)
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "c1", "k", "h1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, DefaultPendingTTL, mock.ttls[Key("c1", "k")])

	pending, err := s.Get(ctx, "c1", "k")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.True(t, pending.Pending)
	assert.Equal(t, "h1", pending.RequestHash)

	require.NoError(t, s.Complete(ctx, "c1", "k", StoredResponse{
		RequestHash: "h1",
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":"x"}`),
	}))
	assert.Equal(t, 24*time.Hour, mock.ttls[Key("c1", "k")])

	got, err := s.Get(ctx, "c1", "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Pending)
	assert.Equal(t, 201, got.StatusCode)
	assert.JSONEq(t, `{"id":"x"}`, string(got.Body))

	// Otra empresa con la misma clave no colisiona.
	other, err := s.Get(ctx, "c2", "k")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestIdempotencyStore_SegundaReservaFalla(t *testing.T) {
	s := newWithCmdable(newMockCmdable(), time.Hour)
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "c1", "k", "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Reserve(ctx, "c1", "k", "a")
	require.NoError(t, err)
	assert.False(t, ok, "la petición concurrente no obtiene la clave")

	require.NoError(t, s.Release(ctx, "c1", "k"))
	ok, err = s.Reserve(ctx, "c1", "k", "a")
	require.NoError(t, err)
	assert.True(t, ok, "tras liberar se puede reintentar")
}

func TestIdempotencyStore_ErrorRedis(t *testing.T) {
	mock := newMockCmdable()
	mock.err = errors.New("down")
	s := newWithCmdable(mock, time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "c1", "k")
	assert.Error(t, err)
	_, err = s.Reserve(ctx, "c1", "k", "h")
	assert.Error(t, err)
	assert.Error(t, s.Complete(ctx, "c1", "k", StoredResponse{}))
	assert.Error(t, s.Release(ctx, "c1", "k"))
	assert.Error(t, s.Ping(ctx))
}
