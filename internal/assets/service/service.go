// Package service orchestrates asset management and the inheritance preview.
// The preview delegates classification to the family context: a heir's tax
// class depends on their relationship to the admin and, for assets held by
// another family member, on the indirect inheritance path.
package service

import (
	"context"
	"log/slog"

	"nachlass/internal/assets/models"
	"nachlass/internal/audit"
	"nachlass/internal/family/rules"
	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

// AssetStore is the persistence port for assets.
type AssetStore interface {
	Save(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, asset *models.Asset) error
	FindByID(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) (*models.Asset, error)
	ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]*models.Asset, error)
	Delete(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) error
}

// TaxClassifier answers "which tax class applies if this heir inherits".
// The family service implements it.
type TaxClassifier interface {
	TaxClassFor(ctx context.Context, universeID id.UniverseID, heirID id.MemberID, previousOwner *id.MemberID) (rules.TaxClass, error)
}

// AuditPublisher records domain actions.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service manages the asset records of a universe.
type Service struct {
	assets         AssetStore
	classifier     TaxClassifier
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

// New constructs a Service.
func New(assets AssetStore, classifier TaxClassifier, opts ...Option) *Service {
	s := &Service{
		assets:     assets,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logAudit(ctx context.Context, action string, universeID id.UniverseID, detail string) {
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
		Actor:      requestcontext.AdminID(ctx).String(),
		Action:     action,
		Detail:     detail,
	})
}
