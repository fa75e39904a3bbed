package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"nachlass/internal/audit"
	familymodels "nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	"nachlass/internal/universe/models"
	"nachlass/internal/universe/secrets"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/platform/sentinel"
	"nachlass/pkg/requestcontext"
)

// CreateUniverseRequest carries everything needed to open a family space:
// the universe name plus the personal data of its Admin root member.
type CreateUniverseRequest struct {
	Name string

	AdminEmail    string
	AdminPassword string

	AdminFirstName string
	AdminLastName  string
	AdminGender    familymodels.Gender
	AdminBirthYear string
	AdminBirthday  *time.Time
}

// CreateUniverseResult returns the created pair.
type CreateUniverseResult struct {
	Universe *models.Universe
	Admin    *familymodels.FamilyMember
}

// CreateUniverse opens a new family space and its Admin root member in one
// operation. The admin is the anchor every other member eventually resolves
// against; it is never created through the family AddMember flow.
func (s *Service) CreateUniverse(ctx context.Context, req CreateUniverseRequest) (*CreateUniverseResult, error) {
	now := requestcontext.Now(ctx)

	universe, err := models.NewUniverse(req.Name, now)
	if err != nil {
		return nil, err
	}
	if req.AdminPassword != "" {
		hash, err := secrets.Hash(req.AdminPassword)
		if err != nil {
			return nil, err
		}
		universe.AdminEmail = strings.ToLower(strings.TrimSpace(req.AdminEmail))
		universe.AdminPasswordHash = hash
	}

	admin := familymodels.NewFamilyMember(universe.ID, req.AdminFirstName, req.AdminLastName,
		familymodels.RelAdmin, now, "")
	admin.Gender = req.AdminGender
	admin.BirthYear = req.AdminBirthYear
	admin.ExactBirthday = req.AdminBirthday
	admin.GenerationLevel = rules.GenerationLevel(familymodels.RelAdmin)
	if err := admin.Validate(); err != nil {
		return nil, err
	}
	universe.AdminID = admin.ID

	if err := s.members.Save(ctx, admin); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin member")
	}
	if err := s.universes.Save(ctx, universe); err != nil {
		// Best effort: a fresh universe id can only conflict on name or
		// admin email.
		_ = s.members.Delete(ctx, universe.ID, admin.ID)
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "universe name and admin email must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create universe")
	}

	s.logAudit(ctx, audit.ActionUniverseCreated, universe.ID, admin.ID, universe.Name)
	s.metrics.IncrementUniverseCreated()

	return &CreateUniverseResult{Universe: universe, Admin: admin}, nil
}

// GetUniverse returns one universe by id.
func (s *Service) GetUniverse(ctx context.Context, universeID id.UniverseID) (*models.Universe, error) {
	if universeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "universe id is required")
	}
	universe, err := s.universes.FindByID(ctx, universeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "universe not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load universe")
	}
	return universe, nil
}

// SignIn authenticates a universe admin by email and password. Unknown
// emails and wrong passwords produce the same unauthorized error so the
// response does not reveal which part failed.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Universe, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}
	universe, err := s.universes.FindByAdminEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load universe")
	}
	if err := secrets.Verify(password, universe.AdminPasswordHash); err != nil {
		return nil, err
	}
	return universe, nil
}

// UpdateSettingsRequest carries a partial settings update. Nil fields keep
// their current value; a non-nil empty SectionOrder resets to the default.
type UpdateSettingsRequest struct {
	Currency     *string
	Language     *string
	Timezone     *string
	SectionOrder *[]rules.Section
}

// UpdateSettings applies a partial settings update and bumps the version.
func (s *Service) UpdateSettings(ctx context.Context, universeID id.UniverseID, req UpdateSettingsRequest) (*models.Universe, error) {
	universe, err := s.GetUniverse(ctx, universeID)
	if err != nil {
		return nil, err
	}

	if req.Currency != nil {
		universe.Settings.Currency = *req.Currency
	}
	if req.Language != nil {
		universe.Settings.Language = *req.Language
	}
	if req.Timezone != nil {
		universe.Settings.Timezone = *req.Timezone
	}
	if req.SectionOrder != nil {
		universe.Settings.SectionOrder = *req.SectionOrder
	}
	if err := universe.Settings.Validate(); err != nil {
		return nil, err
	}

	universe.Touch(requestcontext.Now(ctx))
	if err := s.universes.Update(ctx, universe); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "universe not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update universe")
	}

	s.logAudit(ctx, audit.ActionUniverseUpdated, universe.ID, universe.AdminID, "settings")
	s.metrics.IncrementSettingsUpdated()

	return universe, nil
}
