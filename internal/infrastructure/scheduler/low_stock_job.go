package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/inventory"
)

// LowStockJobName identifica el job en logs y métricas.
const LowStockJobName = "low_stock_digest"

// CompanyLister lista las empresas activas.
type CompanyLister interface {
	ListActive(ctx context.Context) ([]*entity.Company, error)
}

// LowStockReader calcula los productos críticos o casi en el mínimo de una empresa.
type LowStockReader interface {
	LowStock(ctx context.Context, companyID string) ([]dto.StockSummaryResponse, error)
}

// LowStockGauge publica los contadores por empresa (pkg/metrics.StockMetrics).
type LowStockGauge interface {
	SetLowStock(companyID string, nearMinimum, critical int)
}

// JobMetrics registra duración y resultado (pkg/metrics.CronJobMetrics).
type JobMetrics interface {
	ObserveDuration(job string, d time.Duration)
	IncSuccess(job string)
	IncFailure(job string)
}

// Scheduler ejecuta los jobs periódicos.
type Scheduler struct {
	cron      *cron.Cron
	companies CompanyLister
	stock     LowStockReader
	gauge     LowStockGauge
	metrics   JobMetrics
	log       zerolog.Logger
	timeout   time.Duration
}

// NewScheduler crea el scheduler con el parser estándar de 5 campos.
func NewScheduler(companies CompanyLister, stock LowStockReader, gauge LowStockGauge, metrics JobMetrics, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		companies: companies,
		stock:     stock,
		gauge:     gauge,
		metrics:   metrics,
		log:       log.With().Str("component", "scheduler").Logger(),
		timeout:   2 * time.Minute,
	}
}

// Start programa el resumen de estoque baixo. Una expresión vacía deja el job deshabilitado.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.log.Info().Msg("job de estoque baixo desabilitado")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, s.runLowStock); err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Msg("scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera al job en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.RunLowStock(ctx); err != nil {
		s.log.Error().Err(err).Msg("falha no job de estoque baixo")
	}
}

// RunLowStock recorre las empresas activas, registra su lista de estoque baixo y actualiza el gauge.
// Un error en una empresa no detiene las demás.
func (s *Scheduler) RunLowStock(ctx context.Context) error {
	start := time.Now()
	companies, err := s.companies.ListActive(ctx)
	if err != nil {
		s.observe(start, err)
		return err
	}
	var firstErr error
	for _, c := range companies {
		items, err := s.stock.LowStock(ctx, c.ID)
		if err != nil {
			s.log.Error().Err(err).Str("company_id", c.ID).Msg("falha ao calcular estoque baixo")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		near, critical := 0, 0
		for _, it := range items {
			if it.Health == string(inventory.HealthCritical) {
				critical++
			} else {
				near++
			}
		}
		if s.gauge != nil {
			s.gauge.SetLowStock(c.ID, near, critical)
		}
		if len(items) == 0 {
			continue
		}
		ev := s.log.Warn().Str("company_id", c.ID).Int("critical", critical).Int("near_minimum", near)
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.ProductName)
		}
		ev.Strs("products", names).Msg("produtos abaixo do estoque mínimo")
	}
	s.observe(start, firstErr)
	return firstErr
}

func (s *Scheduler) observe(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(LowStockJobName, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(LowStockJobName)
		return
	}
	s.metrics.IncSuccess(LowStockJobName)
}
