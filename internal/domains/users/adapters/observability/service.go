package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/domain"
	userports "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/ports"
)

const tracerName = "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) Register(ctx context.Context, username, password string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register",
		trace.WithAttributes(attribute.String("user.name", username)))
	defer span.End()

	user, err := s.inner.Register(ctx, username, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "registration failed", slog.String("user.name", username))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.String("user.name", user.Username), slog.Int64("user.id", user.ID))
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*userports.Session, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login",
		trace.WithAttributes(attribute.String("user.name", username)))
	defer span.End()

	session, err := s.inner.Login(ctx, username, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "login failed", slog.String("user.name", username))
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "login succeeded",
		slog.String("user.name", session.Username),
		slog.Bool("user.admin", session.Admin))
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()

	s.inner.Logout(ctx, token)
	s.logInfo(ctx, "logout")
}

func (s *Service) SessionFor(ctx context.Context, token string) (*userports.Session, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.SessionFor")
	defer span.End()

	return s.inner.SessionFor(ctx, token)
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

type serviceMetrics struct {
	registered metric.Int64Counter
	logins     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{registered: registered, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

var _ userports.Service = (*Service)(nil)
