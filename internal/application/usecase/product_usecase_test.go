package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

var actor = inventory.Actor{UserID: "u1", Email: "ana@obra.com"}

func newProductUC() (*usecase.ProductUseCase, *memProducts, *memCatalog, *auditSpy) {
	products := newMemProducts()
	categories := newMemCatalog()
	spy := &auditSpy{}
	stock := stubStock{resp: &dto.ProductStockResponse{Total: decimal.NewFromInt(7), Health: "healthy"}}
	uc := usecase.NewProductUseCase(products, usecase.ProductRefs{Categories: categories}, stock, spy)
	return uc, products, categories, spy
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestProductCreate_ConDocumentosYUnidadPorDefecto(t *testing.T) {
	uc, _, _, spy := newProductUC()

	res, err := uc.Create(context.Background(), "c1", actor, dto.CreateProductRequest{
		Name:         "  Cabo PP 2x1,5 ",
		MinimumStock: decimal.NewFromInt(10),
		Documents: []dto.ProductDocumentDTO{
			{Name: "Manual", Link: "https://ex.com/manual.pdf"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cabo PP 2x1,5", res.Name)
	assert.Equal(t, "unidade", res.Unit)
	assert.True(t, res.MinimumStock.Equal(decimal.NewFromInt(10)))
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "https://ex.com/manual.pdf", res.Documents[0].Link)
	assert.Equal(t, []string{entity.AuditProductCreate}, spy.actions())
}

func TestProductCreate_MinimoNegativo(t *testing.T) {
	uc, _, _, _ := newProductUC()
	_, err := uc.Create(context.Background(), "c1", actor, dto.CreateProductRequest{
		Name:         "X",
		MinimumStock: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductCreate_CategoriaDeOtraEmpresa(t *testing.T) {
	uc, _, categories, _ := newProductUC()
	categories.items["cat1"] = &entity.CatalogItem{ID: "cat1", CompanyID: "c2", Name: "Elétrica"}

	_, err := uc.Create(context.Background(), "c1", actor, dto.CreateProductRequest{Name: "X", CategoryID: "cat1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Get / Update / List ──────────────────────────────────────────────────────

func TestProductGet_IncluyeStock(t *testing.T) {
	uc, _, _, _ := newProductUC()
	created, err := uc.Create(context.Background(), "c1", actor, dto.CreateProductRequest{Name: "X"})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), "c1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.Stock.ProductID)
	assert.True(t, got.Stock.Total.Equal(decimal.NewFromInt(7)))

	_, err = uc.Get(context.Background(), "c2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_ReemplazaDocumentosSoloSiPresentes(t *testing.T) {
	uc, _, _, spy := newProductUC()
	ctx := context.Background()
	created, err := uc.Create(ctx, "c1", actor, dto.CreateProductRequest{
		Name:      "X",
		Documents: []dto.ProductDocumentDTO{{Name: "A", Link: "https://a"}},
	})
	require.NoError(t, err)

	name := "Y"
	res, err := uc.Update(ctx, "c1", created.ID, actor, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Y", res.Name)
	assert.Len(t, res.Documents, 1)

	empty := []dto.ProductDocumentDTO{}
	res, err = uc.Update(ctx, "c1", created.ID, actor, dto.UpdateProductRequest{Documents: &empty})
	require.NoError(t, err)
	assert.Empty(t, res.Documents)

	assert.Equal(t, []string{entity.AuditProductCreate, entity.AuditProductUpdate, entity.AuditProductUpdate}, spy.actions())
}

func TestProductUpdate_Inexistente(t *testing.T) {
	uc, _, _, _ := newProductUC()
	_, err := uc.Update(context.Background(), "c1", "nope", actor, dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_PaginaYTotal(t *testing.T) {
	uc, _, _, _ := newProductUC()
	ctx := context.Background()
	for _, n := range []string{"A", "B", "C"} {
		_, err := uc.Create(ctx, "c1", actor, dto.CreateProductRequest{Name: n})
		require.NoError(t, err)
	}
	res, err := uc.List(ctx, "c1", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(3), res.Page.Total)
	assert.Equal(t, "A", res.Items[0].Name)
}
