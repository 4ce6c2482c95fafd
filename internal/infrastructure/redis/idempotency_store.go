package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "estoque:idempotency"

// DefaultPendingTTL acota cuánto vive la reserva si el proceso muere antes de completar.
const DefaultPendingTTL = time.Minute

// StoredResponse es la respuesta guardada para una Idempotency-Key.
type StoredResponse struct {
	RequestHash string `json:"request_hash"`
	StatusCode  int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	// Pending marca una reserva: la primera petición con la clave aún se está ejecutando.
	Pending bool `json:"pending,omitempty"`
}

type cmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	Ping(context.Context) *redis.StatusCmd
}

// IdempotencyStore persiste respuestas de escrituras en Redis con TTL.
type IdempotencyStore struct {
	store      cmdable
	raw        *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
}

// NewIdempotencyStore conecta con Redis a partir de la URL y verifica la conexión.
func NewIdempotencyStore(ctx context.Context, url string, ttl time.Duration) (*IdempotencyStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &IdempotencyStore{store: raw, raw: raw, ttl: ttl, pendingTTL: DefaultPendingTTL}, nil
}

func newWithCmdable(c cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{store: c, ttl: ttl, pendingTTL: DefaultPendingTTL}
}

// Key arma la clave con el alcance de empresa.
func Key(companyID, key string) string {
	return keyPrefix + ":" + companyID + ":" + key
}

// Get devuelve la respuesta guardada o nil si la clave no existe.
func (s *IdempotencyStore) Get(ctx context.Context, companyID, key string) (*StoredResponse, error) {
	payload, err := s.store.Get(ctx, Key(companyID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency get: %w", err)
	}
	var out StoredResponse
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &out, nil
}

// Reserve toma la clave con una marca pendiente (SetNX). false si otra petición ya la tiene.
func (s *IdempotencyStore) Reserve(ctx context.Context, companyID, key, requestHash string) (bool, error) {
	payload, err := json.Marshal(StoredResponse{RequestHash: requestHash, Pending: true})
	if err != nil {
		return false, err
	}
	ok, err := s.store.SetNX(ctx, Key(companyID, key), string(payload), s.pendingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Complete reemplaza la reserva por la respuesta final con el TTL completo.
func (s *IdempotencyStore) Complete(ctx context.Context, companyID, key string, resp StoredResponse) error {
	resp.Pending = false
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, Key(companyID, key), string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release borra la reserva para que el cliente pueda reintentar (respuesta no 2xx).
func (s *IdempotencyStore) Release(ctx context.Context, companyID, key string) error {
	if err := s.store.Del(ctx, Key(companyID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

// Ping verifica la conexión.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Close cierra el cliente subyacente.
func (s *IdempotencyStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
