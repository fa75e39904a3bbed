package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nachlass/internal/audit"
	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/platform/sentinel"
	"nachlass/pkg/requestcontext"
)

// AddMemberRequest carries user input for a new family member. Relationship is
// the label the user picked from the anchor's menu; the service resolves it to
// the stored admin-relative label.
type AddMemberRequest struct {
	FirstName     string
	LastName      string
	Relationship  models.Relationship
	RelatedTo     id.MemberID
	Gender        models.Gender
	BirthYear     string
	ExactBirthday *time.Time
	Deceased      bool
	MarriageDate  *time.Time
	IsAdopted     bool
	IsStepChild   bool
	AdoptionDate  *time.Time
}

// AddMember runs the full admission pipeline: anchor lookup, availability
// check, relationship transform, gender prefill, duplicate guard, generation
// and tax class enrichment, marriage linkage, persistence.
func (s *Service) AddMember(ctx context.Context, universeID id.UniverseID, req AddMemberRequest) (*models.FamilyMember, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "family.AddMember", trace.WithAttributes(
		attribute.String("universe_id", universeID.String()),
		attribute.String("relationship", string(req.Relationship)),
	))
	defer span.End()

	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}

	anchor := findMember(members, req.RelatedTo)
	if anchor == nil {
		s.metrics.IncrementMemberRejected("anchor_not_found")
		return nil, dErrors.New(dErrors.CodeNotFound, "related member not found")
	}

	if !offered(rules.AvailableRelationships(members, anchor.ID), req.Relationship) {
		s.metrics.IncrementMemberRejected("unavailable")
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"relationship %q is not available for this member", req.Relationship)
	}

	resolved := rules.ActualRelationship(req.Relationship, anchor.Relationship)

	gender := req.Gender
	if implied, ok := resolved.ImpliedGender(); ok {
		gender = implied
	} else if resolved.RequiresExplicitGender() && gender == models.GenderUnset {
		s.metrics.IncrementMemberRejected("missing_gender")
		return nil, dErrors.New(dErrors.CodeInvalidInput, "gender is required for a spouse")
	}

	now := requestcontext.Now(ctx)
	member := models.NewFamilyMember(universeID, req.FirstName, req.LastName, resolved, now, requestcontext.AdminID(ctx).String())
	anchorID := anchor.ID
	member.RelatedTo = &anchorID
	member.Gender = gender
	member.BirthYear = req.BirthYear
	member.ExactBirthday = req.ExactBirthday
	member.Deceased = req.Deceased
	member.IsAdopted = req.IsAdopted
	member.IsStepChild = req.IsStepChild
	member.AdoptionDate = req.AdoptionDate

	if err := member.Validate(); err != nil {
		s.metrics.IncrementMemberRejected("invalid")
		return nil, err
	}

	if rules.IsDuplicate(member, members) {
		s.metrics.IncrementMemberRejected("duplicate")
		s.logAudit(ctx, audit.ActionDuplicateRejected, universeID, anchor.ID, string(resolved))
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"a %s for this member already exists", resolved)
	}

	member.GenerationLevel = rules.GenerationLevel(resolved)
	member.TaxClass = int(rules.InheritanceTaxClass(resolved, rules.InheritanceRelation{
		FromPerson: anchor.ID,
		ToPerson:   member.ID,
	}))

	partner := s.linkMarriage(member, members, req.MarriageDate, now)

	if err := s.members.Save(ctx, member); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "member already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save member")
	}
	if partner != nil {
		partner.Touch(now, requestcontext.AdminID(ctx).String())
		if err := s.members.Update(ctx, partner); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link marriage")
		}
	}

	s.invalidateGroups(ctx, universeID)
	s.logAudit(ctx, audit.ActionMemberAdded, universeID, member.ID, string(resolved))
	s.metrics.IncrementMemberAdded()
	s.metrics.ObserveAddMember(start)

	return member, nil
}

// linkMarriage wires a shared marriage record for the two cases that create
// one: a new spouse shares with the anchor, and a new parent shares with the
// already-present co-parent at the same anchor. Returns the partner whose
// record was modified, or nil.
func (s *Service) linkMarriage(member *models.FamilyMember, members []*models.FamilyMember, date *time.Time, now time.Time) *models.FamilyMember {
	switch member.Relationship {
	case models.RelSpouse:
		anchor := findMember(members, *member.RelatedTo)
		marriage := models.EnsureMarriageData(anchor.MarriageData, now)
		if anchor.MarriageData == nil && date != nil {
			marriage = models.NewMarriageData(date, now)
		}
		member.MarriageData = marriage
		if anchor.MarriageData == nil || anchor.MarriageData.ID != marriage.ID {
			anchor.MarriageData = marriage
			return anchor
		}
		return nil
	case models.RelFather, models.RelMother:
		coParent := findCoParent(members, member)
		if coParent == nil {
			return nil
		}
		marriage := models.EnsureMarriageData(coParent.MarriageData, now)
		member.MarriageData = marriage
		if coParent.MarriageData == nil || coParent.MarriageData.ID != marriage.ID {
			coParent.MarriageData = marriage
			return coParent
		}
		return nil
	}
	return nil
}

// UpdateMemberRequest updates personal fields. Relationship and anchor are
// immutable once stored; reshaping the tree means delete and re-add.
type UpdateMemberRequest struct {
	FirstName     *string
	LastName      *string
	Gender        *models.Gender
	BirthYear     *string
	ExactBirthday *time.Time
	Deceased      *bool
	IsAdopted     *bool
	IsStepChild   *bool
	AdoptionDate  *time.Time
}

// UpdateMember applies personal-field changes and bumps the record version.
func (s *Service) UpdateMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID, req UpdateMemberRequest) (*models.FamilyMember, error) {
	ctx, span := s.tracer.Start(ctx, "family.UpdateMember")
	defer span.End()

	member, err := s.findMember(ctx, universeID, memberID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Gender != nil {
		if _, implied := member.Relationship.ImpliedGender(); !implied {
			member.Gender = *req.Gender
		}
	}
	if req.BirthYear != nil {
		member.BirthYear = *req.BirthYear
	}
	if req.ExactBirthday != nil {
		member.ExactBirthday = req.ExactBirthday
	}
	if req.Deceased != nil {
		member.Deceased = *req.Deceased
	}
	if req.IsAdopted != nil {
		member.IsAdopted = *req.IsAdopted
	}
	if req.IsStepChild != nil {
		member.IsStepChild = *req.IsStepChild
	}
	if req.AdoptionDate != nil {
		member.AdoptionDate = req.AdoptionDate
	}

	if err := member.Validate(); err != nil {
		return nil, err
	}

	member.Touch(requestcontext.Now(ctx), requestcontext.AdminID(ctx).String())
	if err := s.members.Update(ctx, member); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update member")
	}

	s.invalidateGroups(ctx, universeID)
	s.logAudit(ctx, audit.ActionMemberUpdated, universeID, member.ID, string(member.Relationship))

	return member, nil
}

// DeleteMember removes a member. The admin root cannot be deleted, and a
// member still serving as anchor for others is rejected rather than cascaded.
func (s *Service) DeleteMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) error {
	ctx, span := s.tracer.Start(ctx, "family.DeleteMember")
	defer span.End()

	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}

	member := findMember(members, memberID)
	if member == nil {
		return dErrors.New(dErrors.CodeNotFound, "member not found")
	}
	if member.IsAdminRoot() {
		return dErrors.New(dErrors.CodeConflict, "the admin member cannot be deleted")
	}
	for _, other := range members {
		if other.RelatedTo != nil && *other.RelatedTo == memberID {
			return dErrors.Newf(dErrors.CodeConflict,
				"member is still referenced by %s %s", other.FirstName, other.LastName)
		}
	}

	if err := s.members.Delete(ctx, universeID, memberID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete member")
	}

	s.invalidateGroups(ctx, universeID)
	s.logAudit(ctx, audit.ActionMemberDeleted, universeID, memberID, string(member.Relationship))
	s.metrics.IncrementMemberDeleted()

	return nil
}

// GetMember returns one member by id.
func (s *Service) GetMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error) {
	return s.findMember(ctx, universeID, memberID)
}

// ListMembers returns every member of the universe in insertion order.
func (s *Service) ListMembers(ctx context.Context, universeID id.UniverseID) ([]*models.FamilyMember, error) {
	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}
	return members, nil
}

func (s *Service) findMember(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error) {
	member, err := s.members.FindByID(ctx, universeID, memberID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load member")
	}
	return member, nil
}

func findMember(members []*models.FamilyMember, memberID id.MemberID) *models.FamilyMember {
	for _, m := range members {
		if m.ID == memberID {
			return m
		}
	}
	return nil
}

// findCoParent returns the opposite parent anchored to the same member.
func findCoParent(members []*models.FamilyMember, parent *models.FamilyMember) *models.FamilyMember {
	opposite := models.RelMother
	if parent.Relationship == models.RelMother {
		opposite = models.RelFather
	}
	for _, m := range members {
		if m.Relationship == opposite && m.RelatedTo != nil && parent.RelatedTo != nil &&
			*m.RelatedTo == *parent.RelatedTo {
			return m
		}
	}
	return nil
}

func offered(menu []models.Relationship, rel models.Relationship) bool {
	for _, option := range menu {
		if option == rel {
			return true
		}
	}
	return false
}
