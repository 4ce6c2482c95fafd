package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 20 * time.Millisecond
)

// RegisterMovementUseCase registra movimentações de estoque (ENTRADA, SAIDA, TRANSFERENCIA)
// en una sola transacción: bloqueo de filas (SELECT FOR UPDATE), niveles + histórico, Commit.
// Ante conflicto de concurrencia reintenta el intento completo un número acotado de veces.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	audit        AuditRecorder
	observer     MovementObserver
	log          zerolog.Logger
	maxAttempts  int
	backoff      time.Duration
	now          func() time.Time
}

// Option configura el caso de uso.
type Option func(*RegisterMovementUseCase)

// WithMaxAttempts fija el número máximo de intentos ante conflicto (mínimo 1).
func WithMaxAttempts(n int) Option {
	return func(uc *RegisterMovementUseCase) {
		if n > 0 {
			uc.maxAttempts = n
		}
	}
}

// WithBackoff fija el retardo base entre reintentos (lineal: base * intento).
func WithBackoff(d time.Duration) Option {
	return func(uc *RegisterMovementUseCase) { uc.backoff = d }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *RegisterMovementUseCase) { uc.now = now }
}

// WithObserver registra métricas del motor.
func WithObserver(o MovementObserver) Option {
	return func(uc *RegisterMovementUseCase) { uc.observer = o }
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	audit AuditRecorder,
	log zerolog.Logger,
	opts ...Option,
) *RegisterMovementUseCase {
	uc := &RegisterMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		audit:        audit,
		log:          log.With().Str("component", "movement_engine").Logger(),
		maxAttempts:  defaultMaxAttempts,
		backoff:      defaultBackoff,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// MovementInput entrada del motor.
type MovementInput struct {
	CompanyID             string
	UserID                string
	UserEmail             string
	ProductID             string
	Kind                  entity.MovementKind
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
}

// MovementResult entrada del histórico confirmada y filas de stock resultantes.
type MovementResult struct {
	Entry  entity.LedgerEntry
	Levels []entity.StockLevel
}

// RegisterMovement valida, aplica y confirma una movimentação.
// Si devuelve error, ni los niveles ni el histórico cambiaron.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	mov := inventory.Movement{
		Kind:                  in.Kind,
		Quantity:              in.Quantity,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
	}
	if err := mov.Validate(); err != nil {
		uc.observe(in.Kind, err)
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.CompanyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		uc.observe(in.Kind, domain.ErrNotFound)
		return nil, domain.ErrNotFound
	}
	for _, locID := range mov.LockOrder() {
		loc, err := uc.locationRepo.GetByID(ctx, in.CompanyID, locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			uc.observe(in.Kind, domain.ErrNotFound)
			return nil, domain.ErrNotFound
		}
	}

	var result *MovementResult
	for attempt := 1; ; attempt++ {
		result, err = uc.apply(ctx, in, mov)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= uc.maxAttempts {
			uc.observe(in.Kind, err)
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				uc.log.Warn().Str("product_id", in.ProductID).Int("attempts", attempt).Msg("movimentação abortada por conflito")
			}
			return nil, err
		}
		if uc.observer != nil {
			uc.observer.IncConflictRetry("movement")
		}
		uc.log.Debug().Str("product_id", in.ProductID).Int("attempt", attempt).Msg("conflito de concorrência, reintentando")
		if err := sleepCtx(ctx, uc.backoff*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}

	uc.observe(in.Kind, nil)
	if uc.audit != nil {
		uc.audit.Record(ctx, entity.AuditEvent{
			CompanyID: in.CompanyID,
			Action:    entity.AuditStockMovement,
			Details:   describeMovement(product, result.Entry),
			UserID:    in.UserID,
			UserEmail: in.UserEmail,
			CreatedAt: result.Entry.CreatedAt,
		})
	}
	return result, nil
}

// apply ejecuta un único intento dentro de una transacción.
func (uc *RegisterMovementUseCase) apply(ctx context.Context, in MovementInput, mov inventory.Movement) (*MovementResult, error) {
	var out *MovementResult
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		// Bloqueo compartido: un borrado concurrente espera al Commit o nos deja sin producto.
		product, err := productRepo.GetForShare(ctx, in.CompanyID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		current := make(map[string]*entity.StockLevel, 2)
		for _, locID := range mov.LockOrder() {
			lvl, err := levelRepo.GetForUpdate(ctx, in.CompanyID, in.ProductID, locID)
			if err != nil {
				return err
			}
			current[locID] = lvl
		}
		changed, err := mov.Apply(in.CompanyID, in.ProductID, current)
		if err != nil {
			return err
		}
		now := uc.now()
		levels := make([]entity.StockLevel, 0, len(changed))
		for _, lvl := range changed {
			lvl.UpdatedAt = now
			if err := levelRepo.Save(ctx, lvl); err != nil {
				return err
			}
			levels = append(levels, *lvl)
		}
		entry := &entity.LedgerEntry{
			ID:                    uuid.New().String(),
			CompanyID:             in.CompanyID,
			ProductID:             in.ProductID,
			Kind:                  mov.Kind,
			Quantity:              mov.Quantity,
			SourceLocationID:      mov.Source(),
			DestinationLocationID: mov.Destination(),
			UserID:                in.UserID,
			UserEmail:             in.UserEmail,
			CreatedAt:             now,
		}
		if err := ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}
		out = &MovementResult{Entry: *entry, Levels: levels}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *RegisterMovementUseCase) observe(kind entity.MovementKind, err error) {
	if uc.observer == nil {
		return
	}
	uc.observer.ObserveMovement(string(kind), outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidMovementKind),
		errors.Is(err, domain.ErrMissingSource),
		errors.Is(err, domain.ErrMissingDestination),
		errors.Is(err, domain.ErrSameSourceAndDestination):
		return "invalid"
	}
	return "error"
}

func describeMovement(p *entity.Product, e entity.LedgerEntry) string {
	switch e.Kind {
	case entity.MovementEntrada:
		return fmt.Sprintf("%s: +%s %s em %s", p.Name, e.Quantity, p.Unit, e.DestinationLocationID)
	case entity.MovementSaida:
		return fmt.Sprintf("%s: -%s %s de %s", p.Name, e.Quantity, p.Unit, e.SourceLocationID)
	}
	return fmt.Sprintf("%s: %s %s de %s para %s", p.Name, e.Quantity, p.Unit, e.SourceLocationID, e.DestinationLocationID)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
