package live

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

const (
	defaultBuffer = 64
	loadTimeout   = 10 * time.Second
)

// ErrFeedClosed se devuelve al suscribirse tras Close.
var ErrFeedClosed = errors.New("feed de estoque encerrado")

// Change es una modificación de una fila de stock notificada por la base de datos.
// Version es la de la fila tras el cambio (o la última conocida si Deleted).
type Change struct {
	CompanyID  string          `json:"company_id"`
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Version    int64           `json:"version"`
	Deleted    bool            `json:"deleted"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// SnapshotLoader lee el estado autoritativo de una empresa (StockLevelRepository lo satisface).
type SnapshotLoader interface {
	ListByCompany(ctx context.Context, companyID string) ([]entity.StockLevel, error)
}

// Subscription es el resultado de Subscribe: foto completa más cambios posteriores.
// Changes se cierra al cancelar el contexto, al descartar un suscriptor lento o en Close.
type Subscription struct {
	Snapshot []entity.StockLevel
	Changes  <-chan Change
}

// Feed mantiene una réplica en memoria de los niveles de stock por empresa mientras
// haya suscriptores. Nunca es fuente de verdad: solo alimenta vistas push.
type Feed struct {
	loader SnapshotLoader
	log    zerolog.Logger
	buffer int

	mu        sync.Mutex
	companies map[string]*companyFeed
	nextID    int
	closed    bool
}

type companyFeed struct {
	ready   chan struct{}
	loadErr error
	loaded  bool
	pending []Change
	levels  map[string]entity.StockLevel
	subs    map[int]chan Change
}

// NewFeed crea el feed. buffer es la capacidad del canal de cada suscriptor.
func NewFeed(loader SnapshotLoader, log zerolog.Logger, buffer int) *Feed {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Feed{
		loader:    loader,
		log:       log.With().Str("component", "live_feed").Logger(),
		buffer:    buffer,
		companies: make(map[string]*companyFeed),
	}
}

func key(productID, locationID string) string { return productID + "|" + locationID }

// Subscribe registra un suscriptor para companyID. La réplica de la empresa se carga
// en la primera suscripción y se libera cuando se va el último suscriptor.
func (f *Feed) Subscribe(ctx context.Context, companyID string) (*Subscription, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFeedClosed
	}
	cf, ok := f.companies[companyID]
	if !ok {
		cf = &companyFeed{ready: make(chan struct{}), subs: make(map[int]chan Change)}
		f.companies[companyID] = cf
		f.mu.Unlock()
		f.load(companyID, cf)
	} else {
		f.mu.Unlock()
	}

	select {
	case <-cf.ready:
	case <-ctx.Done():
	}
	if err := ctx.Err(); err != nil {
		f.dropIfIdle(companyID, cf)
		return nil, err
	}
	if cf.loadErr != nil {
		return nil, cf.loadErr
	}

	f.mu.Lock()
	if f.closed || f.companies[companyID] != cf {
		f.mu.Unlock()
		return nil, ErrFeedClosed
	}
	id := f.nextID
	f.nextID++
	ch := make(chan Change, f.buffer)
	cf.subs[id] = ch
	snapshot := cf.snapshot()
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.unsubscribe(companyID, id)
	}()
	return &Subscription{Snapshot: snapshot, Changes: ch}, nil
}

func (f *Feed) load(companyID string, cf *companyFeed) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	levels, err := f.loader.ListByCompany(ctx, companyID)

	f.mu.Lock()
	defer f.mu.Unlock()
	defer close(cf.ready)
	if err != nil {
		f.log.Error().Err(err).Str("company_id", companyID).Msg("falha ao carregar snapshot de estoque")
		cf.loadErr = err
		if f.companies[companyID] == cf {
			delete(f.companies, companyID)
		}
		return
	}
	cf.levels = make(map[string]entity.StockLevel, len(levels))
	for _, l := range levels {
		cf.levels[key(l.ProductID, l.LocationID)] = l
	}
	for _, c := range cf.pending {
		cf.apply(c)
	}
	cf.pending = nil
	cf.loaded = true
}

// Apply incorpora un cambio y lo reenvía a los suscriptores de la empresa.
// Cambios de empresas sin suscriptores se ignoran; cambios más viejos que la réplica también.
func (f *Feed) Apply(c Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cf, ok := f.companies[c.CompanyID]
	if !ok {
		return
	}
	if !cf.loaded {
		cf.pending = append(cf.pending, c)
		return
	}
	if !cf.apply(c) {
		return
	}
	for id, ch := range cf.subs {
		select {
		case ch <- c:
		default:
			f.log.Warn().Str("company_id", c.CompanyID).Int("subscriber", id).Msg("assinante lento descartado")
			close(ch)
			delete(cf.subs, id)
		}
	}
}

func (cf *companyFeed) apply(c Change) bool {
	k := key(c.ProductID, c.LocationID)
	cur, ok := cf.levels[k]
	if ok && c.Version < cur.Version {
		return false
	}
	if c.Deleted {
		delete(cf.levels, k)
		return true
	}
	cf.levels[k] = entity.StockLevel{
		CompanyID:  c.CompanyID,
		ProductID:  c.ProductID,
		LocationID: c.LocationID,
		Quantity:   c.Quantity,
		Version:    c.Version,
		UpdatedAt:  c.UpdatedAt,
	}
	return true
}

func (cf *companyFeed) snapshot() []entity.StockLevel {
	out := make([]entity.StockLevel, 0, len(cf.levels))
	for _, l := range cf.levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return key(out[i].ProductID, out[i].LocationID) < key(out[j].ProductID, out[j].LocationID)
	})
	return out
}

func (f *Feed) unsubscribe(companyID string, id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cf, ok := f.companies[companyID]
	if !ok {
		return
	}
	if ch, ok := cf.subs[id]; ok {
		close(ch)
		delete(cf.subs, id)
	}
	if len(cf.subs) == 0 && cf.loaded {
		delete(f.companies, companyID)
	}
}

// dropIfIdle libera la réplica cargada que se quedó sin suscriptores porque todos
// cancelaron durante la carga. Si la carga sigue, el suscriptor que carga decide.
func (f *Feed) dropIfIdle(companyID string, cf *companyFeed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.companies[companyID] == cf && cf.loaded && len(cf.subs) == 0 {
		delete(f.companies, companyID)
	}
}

// Reset descarta todas las réplicas y cierra los suscriptores (p. ej. tras perder
// la conexión de LISTEN, cuando pueden haberse perdido notificaciones).
func (f *Feed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropAll()
}

// Close cierra el feed definitivamente.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.dropAll()
}

func (f *Feed) dropAll() {
	for cid, cf := range f.companies {
		for id, ch := range cf.subs {
			close(ch)
			delete(cf.subs, id)
		}
		delete(f.companies, cid)
	}
}

// Replicas devuelve cuántas empresas tienen réplica en memoria.
func (f *Feed) Replicas() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.companies)
}

// Subscribers devuelve el número de suscriptores activos de una empresa.
func (f *Feed) Subscribers(companyID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cf, ok := f.companies[companyID]; ok {
		return len(cf.subs)
	}
	return 0
}
