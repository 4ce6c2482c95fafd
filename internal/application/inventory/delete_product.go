package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// DeleteProductUseCase elimina un producto solo si no tiene stock en ninguna localidad.
// Producto, niveles e histórico se borran en la misma transacción.
// La autorización (rol master) es responsabilidad de la capa HTTP.
type DeleteProductUseCase struct {
	txRunner    TxRunner
	audit       AuditRecorder
	observer    MovementObserver
	log         zerolog.Logger
	maxAttempts int
	backoff     time.Duration
}

// NewDeleteProductUseCase construye el caso de uso.
func NewDeleteProductUseCase(
	txRunner TxRunner,
	audit AuditRecorder,
	log zerolog.Logger,
	maxAttempts int,
	observer MovementObserver,
) *DeleteProductUseCase {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &DeleteProductUseCase{
		txRunner:    txRunner,
		audit:       audit,
		observer:    observer,
		log:         log.With().Str("component", "deletion_guard").Logger(),
		maxAttempts: maxAttempts,
		backoff:     defaultBackoff,
	}
}

// DeleteProduct aplica la guarda de stock vacío y la cascada.
// Errores: domain.ErrNotFound, *domain.StockNotEmptyError, domain.ErrPartialDeleteFailure.
func (uc *DeleteProductUseCase) DeleteProduct(ctx context.Context, companyID, productID string, actor Actor) error {
	var (
		product                      *entity.Product
		removedLedger, removedLevels int64
		err                          error
	)
	for attempt := 1; ; attempt++ {
		err = uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			levelRepo repository.StockLevelRepository,
			ledgerRepo repository.LedgerRepository,
		) error {
			// El producto se bloquea primero: ninguna movimentação puede crear filas nuevas
			// entre la suma y los DELETE.
			p, err := productRepo.GetForUpdate(ctx, companyID, productID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
			product = p
			levels, err := levelRepo.LockByProduct(ctx, companyID, productID)
			if err != nil {
				return err
			}
			total := decimal.Zero
			for _, l := range levels {
				total = total.Add(l.Quantity)
			}
			if total.IsPositive() {
				return &domain.StockNotEmptyError{Quantity: total, Unit: product.Unit}
			}
			if removedLedger, err = ledgerRepo.DeleteByProduct(ctx, companyID, productID); err != nil {
				return err
			}
			if removedLevels, err = levelRepo.DeleteByProduct(ctx, companyID, productID); err != nil {
				return err
			}
			return productRepo.Delete(ctx, companyID, productID)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		if attempt >= uc.maxAttempts {
			uc.log.Error().Err(err).Str("product_id", productID).Int("attempts", attempt).Msg("exclusão de produto não confirmada")
			return fmt.Errorf("%w: %w", domain.ErrPartialDeleteFailure, err)
		}
		if uc.observer != nil {
			uc.observer.IncConflictRetry("delete_product")
		}
		if err := sleepCtx(ctx, uc.backoff*time.Duration(attempt)); err != nil {
			return err
		}
	}

	uc.log.Info().Str("product_id", productID).Int64("ledger_rows", removedLedger).Int64("level_rows", removedLevels).Msg("produto excluído")
	if uc.audit != nil {
		uc.audit.Record(ctx, entity.AuditEvent{
			CompanyID: companyID,
			Action:    entity.AuditProductDelete,
			Details:   fmt.Sprintf("Produto %q (%s) excluído", product.Name, product.ID),
			UserID:    actor.UserID,
			UserEmail: actor.Email,
			CreatedAt: time.Now().UTC(),
		})
	}
	return nil
}
