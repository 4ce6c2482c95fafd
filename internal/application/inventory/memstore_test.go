package inventory_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional: cada Run trabaja sobre una
// copia y solo la publica si fn no devuelve error. Las transacciones se
// serializan con un mutex, lo que equivale a bloquear todas las filas.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	levels    map[string]entity.StockLevel
	ledger    []entity.LedgerEntry
}

func levelKey(productID, locationID string) string { return productID + "|" + locationID }

func (s *memState) clone() *memState {
	c := &memState{
		products:  make(map[string]*entity.Product, len(s.products)),
		locations: s.locations,
		levels:    make(map[string]entity.StockLevel, len(s.levels)),
		ledger:    append([]entity.LedgerEntry(nil), s.ledger...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	return c
}

type memStore struct {
	mu sync.Mutex
	st *memState
	// conflictsLeft hace fallar las próximas escrituras/bloqueos con ErrConcurrencyConflict.
	conflictsLeft int
}

func newMemStore() *memStore {
	return &memStore{st: &memState{
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
		levels:    map[string]entity.StockLevel{},
	}}
}

func (s *memStore) addProduct(p *entity.Product)   { s.st.products[p.ID] = p }
func (s *memStore) addLocation(l *entity.Location) { s.st.locations[l.ID] = l }

func (s *memStore) setLevel(companyID, productID, locationID string, q int64) {
	s.st.levels[levelKey(productID, locationID)] = entity.StockLevel{
		CompanyID: companyID, ProductID: productID, LocationID: locationID, Quantity: qty(q), Version: 1,
	}
}

func (s *memStore) level(productID, locationID string) (entity.StockLevel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.st.levels[levelKey(productID, locationID)]
	return l, ok
}

func (s *memStore) ledgerEntries() []entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.LedgerEntry(nil), s.st.ledger...)
}

func (s *memStore) Run(ctx context.Context, fn func(
	repository.ProductRepository,
	repository.StockLevelRepository,
	repository.LedgerRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.clone()
	if err := fn(&memProducts{st: tx}, &memLevels{st: tx, store: s}, &memLedger{st: tx}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func (s *memStore) clone() *memState { return s.st.clone() }

// Repos fuera de transacción.
func (s *memStore) products() repository.ProductRepository   { return &lockedProducts{s: s} }
func (s *memStore) locations() repository.LocationRepository { return &lockedLocations{s: s} }
func (s *memStore) levels() repository.StockLevelRepository  { return &lockedLevels{s: s} }

// ── products ─────────────────────────────────────────────────────────────────

type memProducts struct{ st *memState }

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	r.st.products[p.ID] = p
	return nil
}

func (r *memProducts) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return p, nil
}

// Dentro de Run las transacciones ya están serializadas: los bloqueos de fila son lecturas.
func (r *memProducts) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memProducts) GetForShare(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memProducts) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.products[p.ID] = p
	return nil
}

func (r *memProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.st.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProducts) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	list, _ := r.ListByCompany(ctx, companyID, 0, 0)
	return int64(len(list)), nil
}

func (r *memProducts) Delete(_ context.Context, companyID, id string) error {
	p, ok := r.st.products[id]
	if !ok || p.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.st.products, id)
	return nil
}

type lockedProducts struct{ s *memStore }

func (r *lockedProducts) repo() *memProducts { return &memProducts{st: r.s.st} }

func (r *lockedProducts) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().Create(ctx, p)
}

func (r *lockedProducts) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().GetByID(ctx, companyID, id)
}

func (r *lockedProducts) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *lockedProducts) GetForShare(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *lockedProducts) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().Update(ctx, p)
}

func (r *lockedProducts) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().ListByCompany(ctx, companyID, limit, offset)
}

func (r *lockedProducts) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().CountByCompany(ctx, companyID)
}

func (r *lockedProducts) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().Delete(ctx, companyID, id)
}

// ── locations ────────────────────────────────────────────────────────────────

type lockedLocations struct{ s *memStore }

func (r *lockedLocations) Create(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.locations[l.ID] = l
	return nil
}

func (r *lockedLocations) GetByID(_ context.Context, companyID, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.st.locations[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	return l, nil
}

func (r *lockedLocations) Update(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.locations[l.ID] = l
	return nil
}

func (r *lockedLocations) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.s.st.locations {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *lockedLocations) Delete(_ context.Context, _, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.locations, id)
	return nil
}

// ── stock levels ─────────────────────────────────────────────────────────────

type memLevels struct {
	st    *memState
	store *memStore // nil fuera de transacción
}

func (r *memLevels) takeConflict() bool {
	if r.store != nil && r.store.conflictsLeft > 0 {
		r.store.conflictsLeft--
		return true
	}
	return false
}

func (r *memLevels) GetForUpdate(_ context.Context, companyID, productID, locationID string) (*entity.StockLevel, error) {
	l, ok := r.st.levels[levelKey(productID, locationID)]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	return &l, nil
}

func (r *memLevels) LockByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error) {
	if r.takeConflict() {
		return nil, domain.ErrConcurrencyConflict
	}
	return r.ListByProduct(ctx, companyID, productID)
}

func (r *memLevels) Save(_ context.Context, l *entity.StockLevel) error {
	if r.takeConflict() {
		return domain.ErrConcurrencyConflict
	}
	key := levelKey(l.ProductID, l.LocationID)
	cur, exists := r.st.levels[key]
	if (l.Version == 0 && exists) || (l.Version != 0 && (!exists || cur.Version != l.Version)) {
		return domain.ErrConcurrencyConflict
	}
	l.Version++
	r.st.levels[key] = *l
	return nil
}

func (r *memLevels) filter(keep func(entity.StockLevel) bool) []entity.StockLevel {
	var out []entity.StockLevel
	for _, l := range r.st.levels {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return levelKey(out[i].ProductID, out[i].LocationID) < levelKey(out[j].ProductID, out[j].LocationID) })
	return out
}

func (r *memLevels) ListByProduct(_ context.Context, companyID, productID string) ([]entity.StockLevel, error) {
	return r.filter(func(l entity.StockLevel) bool { return l.CompanyID == companyID && l.ProductID == productID }), nil
}

func (r *memLevels) ListByCompany(_ context.Context, companyID string) ([]entity.StockLevel, error) {
	return r.filter(func(l entity.StockLevel) bool { return l.CompanyID == companyID }), nil
}

func (r *memLevels) ListByLocation(_ context.Context, companyID, locationID string) ([]entity.StockLevel, error) {
	return r.filter(func(l entity.StockLevel) bool { return l.CompanyID == companyID && l.LocationID == locationID }), nil
}

func (r *memLevels) DeleteByProduct(_ context.Context, companyID, productID string) (int64, error) {
	var n int64
	for k, l := range r.st.levels {
		if l.CompanyID == companyID && l.ProductID == productID {
			delete(r.st.levels, k)
			n++
		}
	}
	return n, nil
}

type lockedLevels struct{ s *memStore }

func (r *lockedLevels) repo() *memLevels { return &memLevels{st: r.s.st} }

func (r *lockedLevels) GetForUpdate(ctx context.Context, companyID, productID, locationID string) (*entity.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().GetForUpdate(ctx, companyID, productID, locationID)
}

func (r *lockedLevels) LockByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().LockByProduct(ctx, companyID, productID)
}

func (r *lockedLevels) Save(ctx context.Context, l *entity.StockLevel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().Save(ctx, l)
}

func (r *lockedLevels) ListByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().ListByProduct(ctx, companyID, productID)
}

func (r *lockedLevels) ListByCompany(ctx context.Context, companyID string) ([]entity.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().ListByCompany(ctx, companyID)
}

func (r *lockedLevels) ListByLocation(ctx context.Context, companyID, locationID string) ([]entity.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().ListByLocation(ctx, companyID, locationID)
}

func (r *lockedLevels) DeleteByProduct(ctx context.Context, companyID, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.repo().DeleteByProduct(ctx, companyID, productID)
}

// ── ledger ───────────────────────────────────────────────────────────────────

type memLedger struct{ st *memState }

func (r *memLedger) Append(_ context.Context, e *entity.LedgerEntry) error {
	r.st.ledger = append(r.st.ledger, *e)
	return nil
}

func (r *memLedger) List(_ context.Context, f repository.LedgerFilter) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for i := len(r.st.ledger) - 1; i >= 0; i-- {
		e := r.st.ledger[i]
		if e.CompanyID == f.CompanyID && (f.ProductID == "" || e.ProductID == f.ProductID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedger) Count(ctx context.Context, f repository.LedgerFilter) (int64, error) {
	list, _ := r.List(ctx, f)
	return int64(len(list)), nil
}

func (r *memLedger) DeleteByProduct(_ context.Context, companyID, productID string) (int64, error) {
	kept := r.st.ledger[:0:0]
	var n int64
	for _, e := range r.st.ledger {
		if e.CompanyID == companyID && e.ProductID == productID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.st.ledger = kept
	return n, nil
}

// ── auditoría y métricas ─────────────────────────────────────────────────────

type recordingAudit struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, e entity.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) all() []entity.AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.AuditEvent(nil), a.events...)
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
	retries  int
}

func (o *countingObserver) ObserveMovement(kind, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[kind+":"+outcome]++
}

func (o *countingObserver) IncConflictRetry(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries++
}
