package service

import (
	"context"
	"log/slog"

	"nachlass/internal/audit"
	familymodels "nachlass/internal/family/models"
	"nachlass/internal/universe/metrics"
	"nachlass/internal/universe/models"
	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

// UniverseStore is the persistence port for universes.
type UniverseStore interface {
	Save(ctx context.Context, universe *models.Universe) error
	Update(ctx context.Context, universe *models.Universe) error
	FindByID(ctx context.Context, universeID id.UniverseID) (*models.Universe, error)
	FindByName(ctx context.Context, name string) (*models.Universe, error)
	FindByAdminEmail(ctx context.Context, email string) (*models.Universe, error)
}

// MemberStore is the slice of the family persistence port the universe
// context needs to create and look up the admin root member.
type MemberStore interface {
	Save(ctx context.Context, member *familymodels.FamilyMember) error
	Delete(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) error
}

// AuditPublisher records domain actions.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service manages universe lifecycle. Creating a universe also creates its
// Admin family member; the two are inseparable, which is how the one-admin
// invariant is enforced.
type Service struct {
	universes      UniverseStore
	members        MemberStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
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
func New(universes UniverseStore, members MemberStore, opts ...Option) *Service {
	s := &Service{
		universes: universes,
		members:   members,
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
