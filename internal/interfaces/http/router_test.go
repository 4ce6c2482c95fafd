package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/usecase"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Estoque-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo en memoria para probar el router de punta a punta.
// ──────────────────────────────────────────────────────────────────────────────

type memCatalog struct {
	mu    sync.Mutex
	items map[string]*entity.CatalogItem
}

func newMemCatalog() *memCatalog { return &memCatalog{items: map[string]*entity.CatalogItem{}} }

func (m *memCatalog) Create(_ context.Context, it *entity.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.CompanyID == it.CompanyID && x.Name == it.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memCatalog) GetByID(_ context.Context, companyID, id string) (*entity.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.CompanyID != companyID {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (m *memCatalog) Update(_ context.Context, it *entity.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memCatalog) ListByCompany(_ context.Context, companyID string) ([]*entity.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CatalogItem
	for _, it := range m.items {
		if it.CompanyID == companyID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCatalog) Delete(_ context.Context, companyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func routerApp() *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC: usecase.NewCatalogUseCase(entity.CatalogCategories, newMemCatalog(), nil),
		JWTSecret:  testJWTSecret,
		Log:        zerolog.Nop(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "-" {
		req.Header.Set("Authorization", tokenFor(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, b
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CatalogoCrearYListar(t *testing.T) {
	app := routerApp()

	resp, body := call(t, app, http.MethodPost, "/api/categories", "common", `{"name":"Elétrica"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodGet, "/api/categories", "common", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.CatalogItemResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Elétrica", list[0].Name)
}

func TestRouter_CatalogoDuplicado_409(t *testing.T) {
	app := routerApp()

	call(t, app, http.MethodPost, "/api/categories", "common", `{"name":"Hidráulica"}`)
	resp, body := call(t, app, http.MethodPost, "/api/categories", "common", `{"name":"Hidráulica"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")
}

func TestRouter_ValidacionConDetalles_400(t *testing.T) {
	app := routerApp()

	resp, body := call(t, app, http.MethodPost, "/api/categories", "common", `{"name":""}`)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Details, "name")
}

func TestRouter_RenombrarInexistente_404(t *testing.T) {
	app := routerApp()

	resp, _ := call(t, app, http.MethodPut, "/api/categories/nao-existe", "common", `{"name":"X"}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_SinToken_401(t *testing.T) {
	app := routerApp()

	resp, _ := call(t, app, http.MethodGet, "/api/categories", "-", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_ExcluirProductoComoCommon_403(t *testing.T) {
	app := routerApp()

	resp, body := call(t, app, http.MethodDelete, "/api/products/p1", "common", "")

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRouter_AuditoriaSoloMaster(t *testing.T) {
	app := routerApp()

	resp, _ := call(t, app, http.MethodGet, "/api/audit", "common", "")

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
