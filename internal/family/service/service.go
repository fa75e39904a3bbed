package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"nachlass/internal/audit"
	"nachlass/internal/family/metrics"
	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

// MemberStore is the persistence port for family members.
type MemberStore interface {
	Save(ctx context.Context, member *models.FamilyMember) error
	Update(ctx context.Context, member *models.FamilyMember) error
	FindByID(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error)
	ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]*models.FamilyMember, error)
	Delete(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) error
}

// GroupCache caches the derived grouped view per universe.
type GroupCache interface {
	Get(ctx context.Context, universeID id.UniverseID) ([]rules.Group, error)
	Set(ctx context.Context, universeID id.UniverseID, groups []rules.Group) error
	Invalidate(ctx context.Context, universeID id.UniverseID) error
}

// AuditPublisher records domain actions.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service orchestrates family member management for one universe at a time.
// All derivation (transform, availability, generation, tax class, grouping)
// lives in the rules package; the service sequences it and owns persistence.
type Service struct {
	members        MemberStore
	groupCache     GroupCache
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithGroupCache(cache GroupCache) Option {
	return func(s *Service) {
		s.groupCache = cache
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(members MemberStore, opts ...Option) *Service {
	s := &Service{
		members: members,
		tracer:  otel.Tracer("nachlass/family"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logAudit(ctx context.Context, action string, universeID id.UniverseID, memberID id.MemberID, detail string) {
	attributes := []any{
		"action", action,
		"universe_id", universeID,
		"log_type", "audit",
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, action, attributes...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UniverseID: universeID,
		MemberID:   memberID,
		Actor:      requestcontext.AdminID(ctx).String(),
		Action:     action,
		Detail:     detail,
	})
}

func (s *Service) invalidateGroups(ctx context.Context, universeID id.UniverseID) {
	if s.groupCache == nil {
		return
	}
	if err := s.groupCache.Invalidate(ctx, universeID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "group cache invalidation failed",
			"universe_id", universeID, "error", err)
	}
}
