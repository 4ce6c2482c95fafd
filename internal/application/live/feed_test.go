package live_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/live"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

type stubLoader struct {
	levels  map[string][]entity.StockLevel
	err     error
	gate    chan struct{} // si no es nil, ListByCompany espera a que se cierre
	started chan struct{}
	calls   int
}

func (s *stubLoader) ListByCompany(_ context.Context, companyID string) ([]entity.StockLevel, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.levels[companyID], nil
}

func lvl(product, loc string, q int64, version int64) entity.StockLevel {
	return entity.StockLevel{CompanyID: "c1", ProductID: product, LocationID: loc, Quantity: decimal.NewFromInt(q), Version: version}
}

func change(product, loc string, q int64, version int64) live.Change {
	return live.Change{CompanyID: "c1", ProductID: product, LocationID: loc, Quantity: decimal.NewFromInt(q), Version: version}
}

func recv(t *testing.T, ch <-chan live.Change) live.Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "el canal no debería estar cerrado")
		return c
	case <-time.After(time.Second):
		t.Fatal("timeout esperando cambio")
	}
	return live.Change{}
}

func waitClosed(t *testing.T, ch <-chan live.Change) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("el canal debía cerrarse")
		}
	}
}

func TestFeed_SnapshotYCambios(t *testing.T) {
	loader := &stubLoader{levels: map[string][]entity.StockLevel{"c1": {lvl("p1", "a", 10, 3), lvl("p1", "b", 4, 1)}}}
	feed := live.NewFeed(loader, zerolog.Nop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := feed.Subscribe(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, sub.Snapshot, 2)
	assert.Equal(t, "a", sub.Snapshot[0].LocationID)

	feed.Apply(change("p1", "a", 7, 4))
	got := recv(t, sub.Changes)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(7)))

	// Un segundo suscriptor ve la réplica actualizada sin recargar.
	sub2, err := feed.Subscribe(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, sub2.Snapshot[0].Quantity.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, loader.calls)
}

func TestFeed_IgnoraCambiosViejosYOtrasEmpresas(t *testing.T) {
	loader := &stubLoader{levels: map[string][]entity.StockLevel{"c1": {lvl("p1", "a", 10, 5)}}}
	feed := live.NewFeed(loader, zerolog.Nop(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := feed.Subscribe(ctx, "c1")
	require.NoError(t, err)

	feed.Apply(change("p1", "a", 99, 4)) // versión vieja
	other := change("p1", "a", 1, 9)
	other.CompanyID = "c2"
	feed.Apply(other) // empresa sin suscriptores
	feed.Apply(change("p1", "a", 11, 6))

	got := recv(t, sub.Changes)
	assert.Equal(t, int64(6), got.Version, "solo llega el cambio vigente")
}

func TestFeed_CancelarContextoDesuscribe(t *testing.T) {
	loader := &stubLoader{levels: map[string][]entity.StockLevel{}}
	feed := live.NewFeed(loader, zerolog.Nop(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := feed.Subscribe(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Subscribers("c1"))

	cancel()
	waitClosed(t, sub.Changes)
	assert.Eventually(t, func() bool { return feed.Subscribers("c1") == 0 }, time.Second, 10*time.Millisecond)

	// La réplica se libera: una nueva suscripción vuelve a cargar.
	_, err = feed.Subscribe(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestFeed_SuscriptorLentoSeDescarta(t *testing.T) {
	feed := live.NewFeed(&stubLoader{}, zerolog.Nop(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := feed.Subscribe(ctx, "c1")
	require.NoError(t, err)

	feed.Apply(change("p1", "a", 1, 1))
	feed.Apply(change("p1", "a", 2, 2)) // buffer lleno

	first := recv(t, sub.Changes)
	assert.Equal(t, int64(1), first.Version)
	waitClosed(t, sub.Changes)
}

func TestFeed_CambiosDuranteCargaNoSePierden(t *testing.T) {
	loader := &stubLoader{
		levels:  map[string][]entity.StockLevel{"c1": {lvl("p1", "a", 10, 1)}},
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	feed := live.NewFeed(loader, zerolog.Nop(), 8)

	done := make(chan *live.Subscription)
	go func() {
		sub, err := feed.Subscribe(context.Background(), "c1")
		assert.NoError(t, err)
		done <- sub
	}()

	<-loader.started
	feed.Apply(change("p1", "b", 3, 1))
	close(loader.gate)

	sub := <-done
	require.NotNil(t, sub)
	require.Len(t, sub.Snapshot, 2, "el cambio pendiente se aplica sobre la foto cargada")
}

func TestFeed_ErrorDeCargaYCierre(t *testing.T) {
	loader := &stubLoader{err: errors.New("db caída")}
	feed := live.NewFeed(loader, zerolog.Nop(), 8)
	_, err := feed.Subscribe(context.Background(), "c1")
	assert.EqualError(t, err, "db caída")

	loader.err = nil
	sub, err := feed.Subscribe(context.Background(), "c1")
	require.NoError(t, err)

	feed.Close()
	waitClosed(t, sub.Changes)
	_, err = feed.Subscribe(context.Background(), "c1")
	assert.ErrorIs(t, err, live.ErrFeedClosed)
}

func TestFeed_CancelarDuranteLaCargaLiberaLaReplica(t *testing.T) {
	loader := &stubLoader{
		levels:  map[string][]entity.StockLevel{"c1": {lvl("p1", "a", 10, 1)}},
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	feed := live.NewFeed(loader, zerolog.Nop(), 8)

	first, cancelFirst := context.WithCancel(context.Background())
	second, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()

	firstErr := make(chan error, 1)
	go func() {
		_, err := feed.Subscribe(first, "c1")
		firstErr <- err
	}()
	<-loader.started

	secondErr := make(chan error, 1)
	go func() {
		_, err := feed.Subscribe(second, "c1")
		secondErr <- err
	}()
	cancelSecond()
	assert.ErrorIs(t, <-secondErr, context.Canceled)

	cancelFirst()
	close(loader.gate)
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	assert.Equal(t, 0, feed.Replicas(), "sin suscriptores no queda réplica absorbiendo cambios")
	feed.Apply(change("p1", "a", 99, 2))

	loader.started = nil
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := feed.Subscribe(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "la siguiente suscripción recarga del almacén")
	require.Len(t, sub.Snapshot, 1)
	assert.True(t, sub.Snapshot[0].Quantity.Equal(decimal.NewFromInt(10)))
}
