package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo adaptador para las tablas categories, manufacturers y projects (misma forma).
type CatalogRepo struct {
	q     Querier
	table string
}

// NewCatalogRepository construye el adaptador para el catálogo dado (entity.Catalog*).
func NewCatalogRepository(q Querier, catalog string) (*CatalogRepo, error) {
	if !entity.IsValidCatalog(catalog) {
		return nil, fmt.Errorf("catálogo desconhecido: %q", catalog)
	}
	return &CatalogRepo{q: q, table: catalog}, nil
}

func (r *CatalogRepo) Create(ctx context.Context, it *entity.CatalogItem) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, company_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`, r.table)
	if _, err := r.q.Exec(ctx, query, it.ID, it.CompanyID, it.Name, it.CreatedAt, it.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

func (r *CatalogRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT id::text, company_id::text, name, created_at, updated_at FROM %s WHERE company_id = $1 AND id = $2`, r.table)
	it := entity.CatalogItem{Catalog: r.table}
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(&it.ID, &it.CompanyID, &it.Name, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.table, err)
	}
	return &it, nil
}

func (r *CatalogRepo) Update(ctx context.Context, it *entity.CatalogItem) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $3, updated_at = $4 WHERE company_id = $1 AND id = $2`, r.table)
	tag, err := r.q.Exec(ctx, query, it.CompanyID, it.ID, it.Name, it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT id::text, company_id::text, name, created_at, updated_at FROM %s WHERE company_id = $1 ORDER BY name`, r.table)
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()
	var list []*entity.CatalogItem
	for rows.Next() {
		it := entity.CatalogItem{Catalog: r.table}
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.Name, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *CatalogRepo) Delete(ctx context.Context, companyID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE company_id = $1 AND id = $2`, r.table)
	tag, err := r.q.Exec(ctx, query, companyID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
