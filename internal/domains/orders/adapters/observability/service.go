package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/application"
	ordersdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"
	ordersports "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/ports"
)

const tracerName = "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/adapters/observability/service"

// Service decorates the reservation engine with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core reservation service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, lines []ordersdomain.CartLine) (*ordersdomain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.Int("cart.lines", len(lines))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("cart.lines", len(lines)))
	receipt, err := s.inner.PlaceOrder(ctx, lines)
	if err != nil {
		s.metrics.recordRejected(ctx, rejectionReason(err))
		return nil, s.handleError(ctx, span, err, "order rejected", slog.Int("cart.lines", len(lines)))
	}
	span.SetAttributes(attribute.Int("order.lines", receipt.Lines))
	s.metrics.recordPlaced(ctx, receipt.Lines)
	s.logInfo(ctx, "order placed",
		slog.Int("order.lines", receipt.Lines),
		slog.Any("order.product_ids", receipt.ProductIDs))
	return receipt, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

func rejectionReason(err error) string {
	var notFound *ordersapp.ProductNotFoundError
	var shortfall *ordersapp.InsufficientStockError
	switch {
	case errors.Is(err, ordersdomain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return "invalid_input"
	case errors.As(err, &notFound):
		return "product_not_found"
	case errors.As(err, &shortfall):
		return "insufficient_stock"
	default:
		return "infrastructure"
	}
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	linesPlaced    metric.Int64Counter
	ordersRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders committed"))
	linesPlaced, _ := m.Int64Counter("orders.service.lines_placed", metric.WithDescription("Number of order lines committed"))
	ordersRejected, _ := m.Int64Counter("orders.service.orders_rejected", metric.WithDescription("Number of orders rejected"))
	return serviceMetrics{ordersPlaced: ordersPlaced, linesPlaced: linesPlaced, ordersRejected: ordersRejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, lines int) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.linesPlaced != nil {
		m.linesPlaced.Add(ctx, int64(lines))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, reason string) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

var _ ordersports.Service = (*Service)(nil)
