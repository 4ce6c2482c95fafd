package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
	defaultPageSize  = 20
)

// Logger es el sumidero de auditoría: encola eventos y un único worker los persiste.
// Record nunca bloquea ni devuelve error; fallos y cola llena solo se registran en el log.
type Logger struct {
	repo  repository.AuditRepository
	log   zerolog.Logger
	queue chan entity.AuditEvent
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewLogger crea el logger de auditoría y arranca su worker.
func NewLogger(repo repository.AuditRepository, log zerolog.Logger, queueSize int) *Logger {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	l := &Logger{
		repo:  repo,
		log:   log,
		queue: make(chan entity.AuditEvent, queueSize),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Record encola un evento. Completa ID y fecha si vienen vacíos.
func (l *Logger) Record(_ context.Context, event entity.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.log.Warn().Str("action", event.Action).Msg("auditoria descartada: logger fechado")
		return
	}
	select {
	case l.queue <- event:
	default:
		l.log.Warn().Str("action", event.Action).Str("company_id", event.CompanyID).Msg("auditoria descartada: fila cheia")
	}
}

func (l *Logger) run() {
	defer l.wg.Done()
	for event := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := l.repo.Insert(ctx, &event); err != nil {
			l.log.Error().Err(err).Str("action", event.Action).Str("company_id", event.CompanyID).Msg("falha ao gravar auditoria")
		}
		cancel()
	}
}

// Close deja de aceptar eventos y espera a que el worker vacíe la cola.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()
	l.wg.Wait()
}

// List devuelve la página de auditoría de la empresa, más reciente primero.
func (l *Logger) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.AuditListResponse, error) {
	page.DefaultPage(defaultPageSize)
	events, err := l.repo.List(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditListResponse{
		Items: make([]dto.AuditEventResponse, 0, len(events)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, e := range events {
		out.Items = append(out.Items, dto.AuditEventResponse{
			ID:        e.ID,
			Action:    e.Action,
			Details:   e.Details,
			UserID:    e.UserID,
			UserEmail: e.UserEmail,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
