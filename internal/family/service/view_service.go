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

// AvailableRelationships returns the relationship labels that can still be
// added under the given member. An unknown member yields an empty set, which
// the UI renders as "no options" rather than an error.
func (s *Service) AvailableRelationships(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) ([]models.Relationship, error) {
	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}
	return rules.AvailableRelationships(members, memberID), nil
}

// Groups returns the sectioned family view. When no custom section order is
// requested the result is served from and written to the group cache.
func (s *Service) Groups(ctx context.Context, universeID id.UniverseID, order []rules.Section) ([]rules.Group, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "family.Groups", trace.WithAttributes(
		attribute.String("universe_id", universeID.String()),
	))
	defer span.End()

	cacheable := order == nil && s.groupCache != nil
	if cacheable {
		groups, err := s.groupCache.Get(ctx, universeID)
		if err == nil {
			s.metrics.RecordGroupViewCacheHit()
			return groups, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
			s.logger.WarnContext(ctx, "group cache read failed",
				"universe_id", universeID, "error", err)
		}
		s.metrics.RecordGroupViewCacheMiss()
	}

	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}

	groups := rules.GroupFamilyMembers(members, order)
	s.metrics.ObserveGroupView(start)

	if cacheable {
		if err := s.groupCache.Set(ctx, universeID, groups); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "group cache write failed",
				"universe_id", universeID, "error", err)
		}
	}
	return groups, nil
}

// FinalizeSetup completes the initial family wizard: the admin and their
// spouse get one shared marriage record, and the admin's parents get another.
// The operation is idempotent; existing linkage is kept.
func (s *Service) FinalizeSetup(ctx context.Context, universeID id.UniverseID) error {
	ctx, span := s.tracer.Start(ctx, "family.FinalizeSetup", trace.WithAttributes(
		attribute.String("universe_id", universeID.String()),
	))
	defer span.End()

	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}

	var admin *models.FamilyMember
	for _, m := range members {
		if m.IsAdminRoot() {
			admin = m
			break
		}
	}
	if admin == nil {
		return dErrors.New(dErrors.CodeNotFound, "universe has no admin member")
	}

	now := requestcontext.Now(ctx)
	updatedBy := requestcontext.AdminID(ctx).String()
	var dirty []*models.FamilyMember

	if spouse := firstAnchored(members, models.RelSpouse, admin.ID); spouse != nil {
		existing := spouse.MarriageData
		if existing == nil {
			existing = admin.MarriageData
		}
		marriage := models.EnsureMarriageData(existing, now)
		if spouse.MarriageData == nil || spouse.MarriageData.ID != marriage.ID {
			spouse.MarriageData = marriage
			dirty = append(dirty, spouse)
		}
		if admin.MarriageData == nil || admin.MarriageData.ID != marriage.ID {
			admin.MarriageData = marriage
			dirty = append(dirty, admin)
		}
	}

	father := firstAnchored(members, models.RelFather, admin.ID)
	mother := firstAnchored(members, models.RelMother, admin.ID)
	if father != nil && mother != nil {
		existing := father.MarriageData
		if existing == nil {
			existing = mother.MarriageData
		}
		marriage := models.EnsureMarriageData(existing, now)
		if father.MarriageData == nil || father.MarriageData.ID != marriage.ID {
			father.MarriageData = marriage
			dirty = append(dirty, father)
		}
		if mother.MarriageData == nil || mother.MarriageData.ID != marriage.ID {
			mother.MarriageData = marriage
			dirty = append(dirty, mother)
		}
	}

	for _, member := range dirty {
		member.Touch(now, updatedBy)
		if err := s.members.Update(ctx, member); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to finalize setup")
		}
	}

	s.invalidateGroups(ctx, universeID)
	s.logAudit(ctx, audit.ActionFamilyFinalized, universeID, admin.ID, "")

	return nil
}

// TaxClassFor classifies a prospective heir. previousOwner selects the
// indirect path, where an asset reaches the heir through another estate.
func (s *Service) TaxClassFor(ctx context.Context, universeID id.UniverseID, heirID id.MemberID, previousOwner *id.MemberID) (rules.TaxClass, error) {
	members, err := s.members.ListByUniverse(ctx, universeID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family")
	}

	heir := findMember(members, heirID)
	if heir == nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "member not found")
	}

	var admin *models.FamilyMember
	for _, m := range members {
		if m.IsAdminRoot() {
			admin = m
			break
		}
	}
	if admin == nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "universe has no admin member")
	}

	if previousOwner != nil && findMember(members, *previousOwner) == nil {
		return 0, dErrors.New(dErrors.CodeNotFound, "previous owner not found")
	}

	return rules.InheritanceTaxClass(heir.Relationship, rules.InheritanceRelation{
		FromPerson: admin.ID,
		ToPerson:   heir.ID,
		AssetOwner: previousOwner,
	}), nil
}

func firstAnchored(members []*models.FamilyMember, rel models.Relationship, anchorID id.MemberID) *models.FamilyMember {
	for _, m := range members {
		if m.Relationship == rel && m.RelatedTo != nil && *m.RelatedTo == anchorID {
			return m
		}
	}
	return nil
}
