package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Estoque-api/internal/application/live"
)

// StockChannel es el canal NOTIFY que emite el trigger de stock_levels.
const StockChannel = "stock_changes"

// ChangeSink recibe los cambios decodificados (live.Feed lo implementa).
type ChangeSink interface {
	Apply(c live.Change)
	Reset()
}

// StockListener mantiene un LISTEN sobre una conexión dedicada del pool y reenvía los cambios.
type StockListener struct {
	pool    *pgxpool.Pool
	sink    ChangeSink
	log     zerolog.Logger
	backoff time.Duration
}

// NewStockListener construye el listener.
func NewStockListener(pool *pgxpool.Pool, sink ChangeSink, log zerolog.Logger) *StockListener {
	return &StockListener{
		pool:    pool,
		sink:    sink,
		log:     log.With().Str("component", "stock_listener").Logger(),
		backoff: 2 * time.Second,
	}
}

// Run escucha hasta que ctx se cancele. Tras perder la conexión reinicia el feed
// (las réplicas pudieron perder notificaciones) y vuelve a conectar.
func (l *StockListener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Warn().Err(err).Dur("retry_in", l.backoff).Msg("listener de estoque desconectado")
		l.sink.Reset()
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.backoff):
		}
	}
}

func (l *StockListener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+StockChannel); err != nil {
		return fmt.Errorf("listen %s: %w", StockChannel, err)
	}
	l.log.Info().Str("channel", StockChannel).Msg("escutando alterações de estoque")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait notification: %w", err)
		}
		change, err := DecodeChange(n.Payload)
		if err != nil {
			l.log.Error().Err(err).Str("payload", n.Payload).Msg("notificação de estoque inválida")
			continue
		}
		l.sink.Apply(change)
	}
}

// DecodeChange interpreta el payload JSON emitido por notify_stock_change().
func DecodeChange(payload string) (live.Change, error) {
	var c live.Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return live.Change{}, fmt.Errorf("decode stock change: %w", err)
	}
	if c.CompanyID == "" || c.ProductID == "" || c.LocationID == "" {
		return live.Change{}, fmt.Errorf("decode stock change: chaves ausentes")
	}
	return c, nil
}
