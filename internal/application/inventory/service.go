package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
	"github.com/jhoicas/Inventario-ledger/pkg/tracing"
)

// Nombres de operación (spans, métricas y logs).
const (
	OpReserve        = "reserve"
	OpRelease        = "release"
	OpIssue          = "issue"
	OpReceive        = "receive"
	OpTotalAvailable = "total_available"
	OpByWarehouse    = "by_warehouse"
	OpPeriodMovement = "period_movement"
)

// Options dependencias opcionales del servicio.
type Options struct {
	Cache   StockCache
	Metrics *metrics.Metrics
	Logger  *logger.Logger
	Clock   func() time.Time
}

// Service motor del libro de stock: reserva, liberación, salida y entrada, más las consultas.
// Cada operación pública abre su propia transacción; las variantes *InTx reutilizan la del caller.
type Service struct {
	tx      TxRunner
	cache   StockCache
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
	tracer  trace.Tracer
}

// NewService construye el servicio.
func NewService(txRunner TxRunner, opts Options) *Service {
	s := &Service{
		tx:      txRunner,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		log:     opts.Logger,
		now:     opts.Clock,
		tracer:  tracing.Tracer(),
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.Component("inventory")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Now hora del reloj del servicio (UTC).
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// TxRunner runner usado por el servicio (los casos de uso de órdenes comparten transacción).
func (s *Service) TxRunner() TxRunner {
	return s.tx
}

// Logger logger del servicio.
func (s *Service) Logger() *logger.Logger {
	return s.log
}

func (s *Service) start(ctx context.Context, op string, item entity.StockItem, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("ledger.item_kind", string(item.Kind)),
		attribute.String("ledger.item_id", item.ID),
	)
	return s.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(attrs...))
}

func (s *Service) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.Insufficient(op)
			s.log.Info().Str("operation", op).Err(err).Msg("stock insuficiente")
		}
	}
	s.metrics.Operation(op, err)
	span.End()
}

// invalidate borra de la caché los ítems tocados por una operación ya confirmada.
func (s *Service) invalidate(ctx context.Context, items ...entity.StockItem) {
	if len(items) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, items...); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar la caché de stock")
	}
}

// InvalidateCache expone la invalidación para casos de uso que corren el motor dentro de su propia tx.
func (s *Service) InvalidateCache(ctx context.Context, items ...entity.StockItem) {
	s.invalidate(ctx, items...)
}

// RequireWarehouse devuelve ErrNotFound si la bodega no existe.
func RequireWarehouse(ctx context.Context, r Repositories, id string) error {
	if id == "" {
		return fmt.Errorf("bodega requerida: %w", domain.ErrInvalidInput)
	}
	wh, err := r.Warehouses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RequireItem devuelve ErrNotFound si el material o producto no existe en el catálogo.
func RequireItem(ctx context.Context, r Repositories, item entity.StockItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	ok, err := r.Items.Exists(ctx, item)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ítem %s: %w", item, domain.ErrNotFound)
	}
	return nil
}
