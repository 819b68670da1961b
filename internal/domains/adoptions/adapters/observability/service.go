package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/application/types"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/domain"
	"github.com/pawhaven/adoption-api-server/internal/domains/adoptions/ports"
)

const tracerName = "github.com/pawhaven/adoption-api-server/internal/domains/adoptions/adapters/observability/service"

// Service decorates the adoption coordinator with tracing, logging, and
// metrics. Inconsistency errors are never allowed to pass unlogged: they mark
// a partial multi-write whose repair needs an operator.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core coordinator.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Submit opens an application with instrumentation.
func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*domain.Application, error) {
	ctx, span := s.startSpan(ctx, "Coordinator.Submit",
		attribute.Int64("adoption.pet_id", input.PetID),
		attribute.Int64("adoption.user_id", input.Principal.UserID),
	)
	defer span.End()

	s.logInfo(ctx, "submitting adoption application",
		slog.Int64("pet.id", input.PetID), slog.Int64("user.id", input.Principal.UserID))
	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "adoption submission failed",
			slog.Int64("pet.id", input.PetID), slog.Int64("user.id", input.Principal.UserID))
	}
	s.metrics.recordSubmitted(ctx)
	s.logInfo(ctx, "adoption application submitted",
		slog.String("application.id", result.ID.String()), slog.Int64("pet.id", result.PetID))
	return result, nil
}

// Approve commits an adoption with instrumentation.
func (s *Service) Approve(ctx context.Context, input types.DecisionInput) (*domain.Application, error) {
	ctx, span := s.startSpan(ctx, "Coordinator.Approve",
		attribute.String("adoption.application_id", input.ApplicationID.String()))
	defer span.End()

	s.logInfo(ctx, "approving adoption application", slog.String("application.id", input.ApplicationID.String()))
	result, err := s.inner.Approve(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "adoption approval failed",
			slog.String("application.id", input.ApplicationID.String()))
	}
	s.metrics.recordDecided(ctx, result.Status)
	s.logInfo(ctx, "adoption application approved",
		slog.String("application.id", result.ID.String()), slog.Int64("pet.id", result.PetID))
	return result, nil
}

// Reject records a rejection with instrumentation.
func (s *Service) Reject(ctx context.Context, input types.DecisionInput) (*domain.Application, error) {
	ctx, span := s.startSpan(ctx, "Coordinator.Reject",
		attribute.String("adoption.application_id", input.ApplicationID.String()))
	defer span.End()

	s.logInfo(ctx, "rejecting adoption application", slog.String("application.id", input.ApplicationID.String()))
	result, err := s.inner.Reject(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "adoption rejection failed",
			slog.String("application.id", input.ApplicationID.String()))
	}
	s.metrics.recordDecided(ctx, result.Status)
	s.logInfo(ctx, "adoption application rejected",
		slog.String("application.id", result.ID.String()), slog.Int64("pet.id", result.PetID))
	return result, nil
}

// Withdraw deletes an application with instrumentation.
func (s *Service) Withdraw(ctx context.Context, input types.WithdrawInput) error {
	ctx, span := s.startSpan(ctx, "Coordinator.Withdraw",
		attribute.String("adoption.application_id", input.ApplicationID.String()))
	defer span.End()

	s.logInfo(ctx, "withdrawing adoption application", slog.String("application.id", input.ApplicationID.String()))
	if err := s.inner.Withdraw(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "adoption withdrawal failed",
			slog.String("application.id", input.ApplicationID.String()))
	}
	s.metrics.recordWithdrawn(ctx)
	s.logInfo(ctx, "adoption application withdrawn", slog.String("application.id", input.ApplicationID.String()))
	return nil
}

// Get loads a single application.
func (s *Service) Get(ctx context.Context, input types.GetInput) (*domain.Application, error) {
	ctx, span := s.startSpan(ctx, "Coordinator.Get",
		attribute.String("adoption.application_id", input.ApplicationID.String()))
	defer span.End()

	result, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load application",
			slog.String("application.id", input.ApplicationID.String()))
	}
	return result, nil
}

// ListOwn returns the caller's applications.
func (s *Service) ListOwn(ctx context.Context, input types.ListOwnInput) ([]*domain.Application, error) {
	ctx, span := s.startSpan(ctx, "Coordinator.ListOwn",
		attribute.Int64("adoption.user_id", input.Principal.UserID))
	defer span.End()

	result, err := s.inner.ListOwn(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list own applications")
	}
	span.SetAttributes(attribute.Int("adoption.result.count", len(result)))
	return result, nil
}

// ListAll returns every application.
func (s *Service) ListAll(ctx context.Context, input types.ListAllInput) ([]*domain.Application, error) {
	ctx, span := s.startSpan(ctx, "Coordinator.ListAll")
	defer span.End()

	result, err := s.inner.ListAll(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list applications")
	}
	span.SetAttributes(attribute.Int("adoption.result.count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if errors.Is(err, application.ErrInternalInconsistency) {
		s.metrics.recordInconsistency(ctx)
		attrs = append(attrs, slog.String("error", err.Error()))
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "ADOPTION RECORDS INCONSISTENT, operator remediation required", attrs...)
		}
		return err
	}
	if errors.Is(err, application.ErrConflict) || errors.Is(err, application.ErrDuplicateApplication) {
		s.metrics.recordConflict(ctx)
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	submitted       metric.Int64Counter
	decided         metric.Int64Counter
	withdrawn       metric.Int64Counter
	conflicts       metric.Int64Counter
	inconsistencies metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("adoptions.service.submitted", metric.WithDescription("Number of applications submitted"))
	decided, _ := m.Int64Counter("adoptions.service.decided", metric.WithDescription("Number of applications decided"))
	withdrawn, _ := m.Int64Counter("adoptions.service.withdrawn", metric.WithDescription("Number of applications withdrawn"))
	conflicts, _ := m.Int64Counter("adoptions.service.conflicts", metric.WithDescription("Number of lost decision or duplicate races"))
	inconsistencies, _ := m.Int64Counter("adoptions.service.inconsistencies", metric.WithDescription("Number of partial multi-write failures"))
	return serviceMetrics{
		submitted:       submitted,
		decided:         decided,
		withdrawn:       withdrawn,
		conflicts:       conflicts,
		inconsistencies: inconsistencies,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context) {
	addCounter(ctx, m.submitted, 1)
}

func (m serviceMetrics) recordDecided(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.decided, 1, attribute.String("adoption.status", string(status)))
}

func (m serviceMetrics) recordWithdrawn(ctx context.Context) {
	addCounter(ctx, m.withdrawn, 1)
}

func (m serviceMetrics) recordConflict(ctx context.Context) {
	addCounter(ctx, m.conflicts, 1)
}

func (m serviceMetrics) recordInconsistency(ctx context.Context) {
	addCounter(ctx, m.inconsistencies, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
