package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerTable = "stock_ledger"

type ledgerRow struct {
	ID                    string          `db:"id"`
	CompanyID             string          `db:"company_id"`
	ProductID             string          `db:"product_id"`
	Kind                  string          `db:"kind"`
	Quantity              decimal.Decimal `db:"quantity"`
	SourceLocationID      string          `db:"source_location_id"`
	DestinationLocationID string          `db:"destination_location_id"`
	UserID                string          `db:"user_id"`
	UserEmail             string          `db:"user_email"`
	CreatedAt             time.Time       `db:"created_at"`
}

// LedgerRepo histórico append-only de movimentações.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta una entrada. CreatedAt lo fija el llamador (hora del servidor).
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	sql, args, err := psql.Insert(ledgerTable).
		Columns("id", "company_id", "product_id", "kind", "quantity",
			"source_location_id", "destination_location_id", "user_id", "user_email", "created_at").
		Values(e.ID, e.CompanyID, e.ProductID, string(e.Kind), e.Quantity,
			nullable(e.SourceLocationID), nullable(e.DestinationLocationID), nullable(e.UserID), e.UserEmail, e.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert ledger: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// List devuelve las entradas del filtro, más recientes primero.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]entity.LedgerEntry, error) {
	q := applyLedgerFilter(psql.Select(
		"id::text AS id", "company_id::text AS company_id", "product_id::text AS product_id", "kind", "quantity",
		"COALESCE(source_location_id::text, '') AS source_location_id",
		"COALESCE(destination_location_id::text, '') AS destination_location_id",
		"COALESCE(user_id::text, '') AS user_id", "user_email", "created_at",
	).From(ledgerTable), f).
		OrderBy("created_at DESC", "id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0)))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ledger: %w", err)
	}
	var rows []ledgerRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	out := make([]entity.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.LedgerEntry{
			ID:                    row.ID,
			CompanyID:             row.CompanyID,
			ProductID:             row.ProductID,
			Kind:                  entity.MovementKind(row.Kind),
			Quantity:              row.Quantity,
			SourceLocationID:      row.SourceLocationID,
			DestinationLocationID: row.DestinationLocationID,
			UserID:                row.UserID,
			UserEmail:             row.UserEmail,
			CreatedAt:             row.CreatedAt,
		})
	}
	return out, nil
}

// Count cuenta las entradas del filtro ignorando Limit/Offset.
func (r *LedgerRepo) Count(ctx context.Context, f repository.LedgerFilter) (int64, error) {
	sql, args, err := applyLedgerFilter(psql.Select("count(*)").From(ledgerTable), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count ledger: %w", err)
	}
	var n int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ledger: %w", err)
	}
	return n, nil
}

func (r *LedgerRepo) DeleteByProduct(ctx context.Context, companyID, productID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_ledger WHERE company_id = $1 AND product_id = $2`, companyID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete ledger entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// applyLedgerFilter agrega las condiciones del filtro. From y To son inclusivos.
func applyLedgerFilter(q squirrel.SelectBuilder, f repository.LedgerFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"company_id": f.CompanyID})
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.UserID != "" {
		q = q.Where(squirrel.Eq{"user_id": f.UserID})
	}
	if f.LocationID != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"source_location_id": f.LocationID},
			squirrel.Eq{"destination_location_id": f.LocationID},
		})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	return q
}
