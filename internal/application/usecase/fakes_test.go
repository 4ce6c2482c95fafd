package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

type memProducts struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func newMemProducts() *memProducts { return &memProducts{items: map[string]*entity.Product{}} }

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memProducts) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProducts) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memProducts) GetForShare(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memProducts) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memProducts) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.items {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memProducts) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	all, _ := r.ListByCompany(ctx, companyID, 0, 0)
	return int64(len(all)), nil
}

func (r *memProducts) Delete(_ context.Context, _, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type memCatalog struct {
	items map[string]*entity.CatalogItem
}

func newMemCatalog() *memCatalog { return &memCatalog{items: map[string]*entity.CatalogItem{}} }

func (r *memCatalog) Create(_ context.Context, it *entity.CatalogItem) error {
	for _, existing := range r.items {
		if existing.CompanyID == it.CompanyID && existing.Name == it.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *memCatalog) GetByID(_ context.Context, companyID, id string) (*entity.CatalogItem, error) {
	it, ok := r.items[id]
	if !ok || it.CompanyID != companyID {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memCatalog) Update(_ context.Context, it *entity.CatalogItem) error {
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *memCatalog) ListByCompany(_ context.Context, companyID string) ([]*entity.CatalogItem, error) {
	var out []*entity.CatalogItem
	for _, it := range r.items {
		if it.CompanyID == companyID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memCatalog) Delete(_ context.Context, _, id string) error {
	delete(r.items, id)
	return nil
}

type memLocations struct {
	items map[string]*entity.Location
}

func (r *memLocations) Create(_ context.Context, l *entity.Location) error {
	cp := *l
	r.items[l.ID] = &cp
	return nil
}

func (r *memLocations) GetByID(_ context.Context, companyID, id string) (*entity.Location, error) {
	l, ok := r.items[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *memLocations) Update(_ context.Context, l *entity.Location) error {
	cp := *l
	r.items[l.ID] = &cp
	return nil
}

func (r *memLocations) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.items {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLocations) Delete(_ context.Context, _, id string) error {
	delete(r.items, id)
	return nil
}

// memLevels implementa solo las lecturas que usan los casos de uso de cadastro.
type memLevels struct {
	repository.StockLevelRepository
	levels []entity.StockLevel
}

func (r *memLevels) ListByLocation(_ context.Context, companyID, locationID string) ([]entity.StockLevel, error) {
	var out []entity.StockLevel
	for _, l := range r.levels {
		if l.CompanyID == companyID && l.LocationID == locationID {
			out = append(out, l)
		}
	}
	return out, nil
}

type stubStock struct {
	resp *dto.ProductStockResponse
}

func (s stubStock) ProductStock(_ context.Context, _, productID string) (*dto.ProductStockResponse, error) {
	out := *s.resp
	out.ProductID = productID
	return &out, nil
}

type auditSpy struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func (a *auditSpy) Record(_ context.Context, e entity.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *auditSpy) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}
