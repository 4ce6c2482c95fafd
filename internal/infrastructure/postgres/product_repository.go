package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productsTable = "products"

var productColumns = []string{
	"id::text AS id", "company_id::text AS company_id", "name", "description", "photo_url",
	"serial_number", "unit", "model",
	"COALESCE(category_id::text, '') AS category_id",
	"COALESCE(manufacturer_id::text, '') AS manufacturer_id",
	"COALESCE(supplier_id::text, '') AS supplier_id",
	"internal_notes", "documents", "minimum_stock", "created_at", "updated_at",
}

type productRow struct {
	ID             string          `db:"id"`
	CompanyID      string          `db:"company_id"`
	Name           string          `db:"name"`
	Description    string          `db:"description"`
	PhotoURL       string          `db:"photo_url"`
	SerialNumber   string          `db:"serial_number"`
	Unit           string          `db:"unit"`
	Model          string          `db:"model"`
	CategoryID     string          `db:"category_id"`
	ManufacturerID string          `db:"manufacturer_id"`
	SupplierID     string          `db:"supplier_id"`
	InternalNotes  string          `db:"internal_notes"`
	Documents      []byte          `db:"documents"`
	MinimumStock   decimal.Decimal `db:"minimum_stock"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (row productRow) toEntity() (*entity.Product, error) {
	docs, err := decodeDocuments(row.Documents)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", row.ID, err)
	}
	return &entity.Product{
		ID:             row.ID,
		CompanyID:      row.CompanyID,
		Name:           row.Name,
		Description:    row.Description,
		PhotoURL:       row.PhotoURL,
		SerialNumber:   row.SerialNumber,
		Unit:           row.Unit,
		Model:          row.Model,
		CategoryID:     row.CategoryID,
		ManufacturerID: row.ManufacturerID,
		SupplierID:     row.SupplierID,
		InternalNotes:  row.InternalNotes,
		Documents:      docs,
		MinimumStock:   row.MinimumStock,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	docs, err := encodeDocuments(p.Documents)
	if err != nil {
		return err
	}
	sql, args, err := psql.Insert(productsTable).
		Columns("id", "company_id", "name", "description", "photo_url", "serial_number", "unit", "model",
			"category_id", "manufacturer_id", "supplier_id", "internal_notes", "documents", "minimum_stock",
			"created_at", "updated_at").
		Values(p.ID, p.CompanyID, p.Name, p.Description, p.PhotoURL, p.SerialNumber, p.Unit, p.Model,
			nullable(p.CategoryID), nullable(p.ManufacturerID), nullable(p.SupplierID), p.InternalNotes, docs,
			p.MinimumStock, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referência inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la empresa. nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, companyID, id, "")
}

// GetForUpdate bloquea la fila del producto (FOR UPDATE) hasta el fin de la tx.
// Las movimentações concurrentes esperan en GetForShare.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, companyID, id, "FOR UPDATE")
}

// GetForShare toma FOR KEY SHARE: impide borrar el producto, no editarlo.
func (r *ProductRepo) GetForShare(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, companyID, id, "FOR KEY SHARE")
}

func (r *ProductRepo) getOne(ctx context.Context, companyID, id, lock string) (*entity.Product, error) {
	q := psql.Select(productColumns...).From(productsTable).
		Where("company_id = ? AND id = ?", companyID, id)
	if lock != "" {
		q = q.Suffix(lock)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		if lock != "" {
			return nil, mapTxError("lock product", fmt.Errorf("get product: %w", err))
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity()
}

// Update actualiza los datos de cadastro. El stock nunca se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	docs, err := encodeDocuments(p.Documents)
	if err != nil {
		return err
	}
	sql, args, err := psql.Update(productsTable).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("photo_url", p.PhotoURL).
		Set("serial_number", p.SerialNumber).
		Set("unit", p.Unit).
		Set("model", p.Model).
		Set("category_id", nullable(p.CategoryID)).
		Set("manufacturer_id", nullable(p.ManufacturerID)).
		Set("supplier_id", nullable(p.SupplierID)).
		Set("internal_notes", p.InternalNotes).
		Set("documents", docs).
		Set("minimum_stock", p.MinimumStock).
		Set("updated_at", p.UpdatedAt).
		Where("company_id = ? AND id = ?", p.CompanyID, p.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referência inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista productos ordenados por nombre. limit <= 0 devuelve todos.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	q := psql.Select(productColumns...).From(productsTable).
		Where("company_id = ?", companyID).
		OrderBy("name", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE company_id = $1`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete elimina solo la fila del producto.
func (r *ProductRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// encodeDocuments valida y serializa la lista de documentos a JSONB.
func encodeDocuments(docs []entity.ProductDocument) ([]byte, error) {
	if docs == nil {
		docs = []entity.ProductDocument{}
	}
	for i, d := range docs {
		if d.Link == "" {
			return nil, fmt.Errorf("%w: documento %d sem link", domain.ErrInvalidInput, i)
		}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode documents: %w", err)
	}
	return b, nil
}

// decodeDocuments lee la columna JSONB. Entradas sin link se descartan.
func decodeDocuments(raw []byte) ([]entity.ProductDocument, error) {
	if len(raw) == 0 {
		return []entity.ProductDocument{}, nil
	}
	var docs []entity.ProductDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	out := docs[:0]
	for _, d := range docs {
		if d.Link != "" {
			out = append(out, d)
		}
	}
	if out == nil {
		out = []entity.ProductDocument{}
	}
	return out, nil
}
