package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

const stockLevelsTable = "stock_levels"

var stockLevelColumns = []string{
	"company_id::text AS company_id", "product_id::text AS product_id", "location_id::text AS location_id",
	"quantity", "version", "updated_at",
}

type stockLevelRow struct {
	CompanyID  string          `db:"company_id"`
	ProductID  string          `db:"product_id"`
	LocationID string          `db:"location_id"`
	Quantity   decimal.Decimal `db:"quantity"`
	Version    int64           `db:"version"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (row stockLevelRow) toEntity() entity.StockLevel {
	return entity.StockLevel{
		CompanyID:  row.CompanyID,
		ProductID:  row.ProductID,
		LocationID: row.LocationID,
		Quantity:   row.Quantity,
		Version:    row.Version,
		UpdatedAt:  row.UpdatedAt,
	}
}

// StockLevelRepo niveles de stock por (producto, localidad) con versión optimista.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE). nil, nil si no existe.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, companyID, productID, locationID string) (*entity.StockLevel, error) {
	levels, err := r.selectLevels(ctx, squirrel.Eq{
		"company_id":  companyID,
		"product_id":  productID,
		"location_id": locationID,
	}, "FOR UPDATE")
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, nil
	}
	return &levels[0], nil
}

// LockByProduct bloquea todas las filas del producto en orden de localidad.
func (r *StockLevelRepo) LockByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error) {
	return r.selectLevels(ctx, squirrel.Eq{"company_id": companyID, "product_id": productID}, "FOR UPDATE")
}

// Save inserta la fila (Version == 0) o la actualiza si la versión coincide.
// Otra transacción que creó o modificó la fila antes devuelve domain.ErrConcurrencyConflict.
func (r *StockLevelRepo) Save(ctx context.Context, level *entity.StockLevel) error {
	now := time.Now().UTC()
	if level.IsNew() {
		sql, args, err := psql.Insert(stockLevelsTable).
			Columns("company_id", "product_id", "location_id", "quantity", "version", "updated_at").
			Values(level.CompanyID, level.ProductID, level.LocationID, level.Quantity, 1, now).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert stock level: %w", err)
		}
		if _, err := r.q.Exec(ctx, sql, args...); err != nil {
			return mapTxError("insert stock level", fmt.Errorf("insert stock level: %w", err))
		}
		level.Version = 1
		level.UpdatedAt = now
		return nil
	}

	sql, args, err := psql.Update(stockLevelsTable).
		Set("quantity", level.Quantity).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"company_id":  level.CompanyID,
			"product_id":  level.ProductID,
			"location_id": level.LocationID,
			"version":     level.Version,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update stock level: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapTxError("update stock level", fmt.Errorf("update stock level: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: versão %d de %s/%s", domain.ErrConcurrencyConflict, level.Version, level.ProductID, level.LocationID)
	}
	level.Version++
	level.UpdatedAt = now
	return nil
}

func (r *StockLevelRepo) ListByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error) {
	return r.selectLevels(ctx, squirrel.Eq{"company_id": companyID, "product_id": productID}, "")
}

func (r *StockLevelRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.StockLevel, error) {
	return r.selectLevels(ctx, squirrel.Eq{"company_id": companyID}, "")
}

func (r *StockLevelRepo) ListByLocation(ctx context.Context, companyID, locationID string) ([]entity.StockLevel, error) {
	return r.selectLevels(ctx, squirrel.Eq{"company_id": companyID, "location_id": locationID}, "")
}

func (r *StockLevelRepo) DeleteByProduct(ctx context.Context, companyID, productID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_levels WHERE company_id = $1 AND product_id = $2`, companyID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete stock levels: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *StockLevelRepo) selectLevels(ctx context.Context, where squirrel.Eq, suffix string) ([]entity.StockLevel, error) {
	q := psql.Select(stockLevelColumns...).From(stockLevelsTable).
		Where(where).
		OrderBy("product_id", "location_id")
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select stock levels: %w", err)
	}
	var rows []stockLevelRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, mapTxError("select stock levels", fmt.Errorf("select stock levels: %w", err))
	}
	out := make([]entity.StockLevel, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
