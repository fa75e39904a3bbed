package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nachlass/internal/audit"
	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	"nachlass/internal/family/store"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/requestcontext"
)

type FamilyServiceSuite struct {
	suite.Suite
	store      *store.InMemory
	auditStore *audit.MemoryStore
	service    *Service
	ctx        context.Context
	universeID id.UniverseID
	admin      *models.FamilyMember
}

func TestFamilyServiceSuite(t *testing.T) {
	suite.Run(t, new(FamilyServiceSuite))
}

func (s *FamilyServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.auditStore = audit.NewMemoryStore()
	s.service = New(s.store, WithAuditPublisher(audit.NewPublisher(s.auditStore)))
	s.universeID = id.NewUniverseID()
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	s.admin = models.NewFamilyMember(s.universeID, "Anna", "Beispiel", models.RelAdmin, time.Now(), "")
	s.Require().NoError(s.store.Save(s.ctx, s.admin))
}

func (s *FamilyServiceSuite) addMember(req AddMemberRequest) *models.FamilyMember {
	member, err := s.service.AddMember(s.ctx, s.universeID, req)
	s.Require().NoError(err)
	return member
}

func (s *FamilyServiceSuite) TestAddMember() {
	son := s.addMember(AddMemberRequest{
		FirstName:    "Max",
		LastName:     "Beispiel",
		Relationship: models.RelSon,
		RelatedTo:    s.admin.ID,
		BirthYear:    "1990",
	})

	s.Run("son of admin gets inferred gender and enrichment", func() {
		s.Equal(models.RelSon, son.Relationship)
		s.Equal(models.GenderMale, son.Gender)
		s.Equal("1.0", son.GenerationLevel)
		s.Equal(1, son.TaxClass)
		s.Require().NotNil(son.RelatedTo)
		s.Equal(s.admin.ID, *son.RelatedTo)
	})

	s.Run("child of a child resolves to grandchild", func() {
		granddaughter := s.addMember(AddMemberRequest{
			FirstName: "Lena", LastName: "Beispiel",
			Relationship: models.RelDaughter, RelatedTo: son.ID,
		})

		s.Equal(models.RelGranddaughter, granddaughter.Relationship)
		s.Equal("2", granddaughter.GenerationLevel)
		s.Equal(1, granddaughter.TaxClass)
		s.Require().NotNil(granddaughter.RelatedTo)
		s.Equal(son.ID, *granddaughter.RelatedTo)
	})

	s.Run("spouse without gender is rejected", func() {
		_, err := s.service.AddMember(s.ctx, s.universeID, AddMemberRequest{
			FirstName: "Ben", LastName: "Beispiel",
			Relationship: models.RelSpouse, RelatedTo: s.admin.ID,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	spouse := s.addMember(AddMemberRequest{
		FirstName: "Ben", LastName: "Beispiel",
		Relationship: models.RelSpouse, RelatedTo: s.admin.ID,
		Gender: models.GenderMale,
	})

	s.Run("parents of spouse become in-laws with tax class two", func() {
		inLaw := s.addMember(AddMemberRequest{
			FirstName: "Rolf", LastName: "Muster",
			Relationship: models.RelFather, RelatedTo: spouse.ID,
		})

		s.Equal(models.RelFatherInLaw, inLaw.Relationship)
		s.Equal("-1.1", inLaw.GenerationLevel)
		s.Equal(2, inLaw.TaxClass)
	})

	s.Run("unknown anchor is rejected", func() {
		_, err := s.service.AddMember(s.ctx, s.universeID, AddMemberRequest{
			FirstName: "Max", LastName: "Beispiel",
			Relationship: models.RelSon, RelatedTo: id.NewMemberID(),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("relationship outside the anchor menu is rejected", func() {
		// The spouse menu never offers another spouse.
		_, err := s.service.AddMember(s.ctx, s.universeID, AddMemberRequest{
			FirstName: "Eva", LastName: "Muster",
			Relationship: models.RelSpouse, RelatedTo: spouse.ID,
			Gender: models.GenderFemale,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("second father for the same anchor is rejected", func() {
		s.addMember(AddMemberRequest{
			FirstName: "Karl", LastName: "Beispiel",
			Relationship: models.RelFather, RelatedTo: s.admin.ID,
		})
		_, err := s.service.AddMember(s.ctx, s.universeID, AddMemberRequest{
			FirstName: "Otto", LastName: "Beispiel",
			Relationship: models.RelFather, RelatedTo: s.admin.ID,
		})
		// The availability menu already hides the taken slot.
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("addition emits an audit event", func() {
		member := s.addMember(AddMemberRequest{
			FirstName: "Mia", LastName: "Beispiel",
			Relationship: models.RelDaughter, RelatedTo: s.admin.ID,
		})

		events, err := s.auditStore.ListByUniverse(s.ctx, s.universeID)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(audit.ActionMemberAdded, last.Action)
		s.Equal(member.ID, last.MemberID)
	})
}

func (s *FamilyServiceSuite) TestMarriageLinkage() {
	s.Run("spouse shares one marriage record with the admin", func() {
		spouse := s.addMember(AddMemberRequest{
			FirstName: "Ben", LastName: "Beispiel",
			Relationship: models.RelSpouse, RelatedTo: s.admin.ID,
			Gender: models.GenderMale,
		})

		s.Require().NotNil(spouse.MarriageData)
		admin, err := s.store.FindByID(s.ctx, s.universeID, s.admin.ID)
		s.Require().NoError(err)
		s.Require().NotNil(admin.MarriageData)
		s.Equal(spouse.MarriageData.ID, admin.MarriageData.ID)
		s.Equal(models.MarriageCurrent, spouse.MarriageData.Status)
	})

	father := s.addMember(AddMemberRequest{
		FirstName: "Karl", LastName: "Beispiel",
		Relationship: models.RelFather, RelatedTo: s.admin.ID,
	})

	s.Run("a lone parent carries no marriage record", func() {
		s.Nil(father.MarriageData)
	})

	s.Run("the second parent links both to one marriage record", func() {
		mother := s.addMember(AddMemberRequest{
			FirstName: "Rita", LastName: "Beispiel",
			Relationship: models.RelMother, RelatedTo: s.admin.ID,
		})

		s.Require().NotNil(mother.MarriageData)
		stored, err := s.store.FindByID(s.ctx, s.universeID, father.ID)
		s.Require().NoError(err)
		s.Require().NotNil(stored.MarriageData)
		s.Equal(mother.MarriageData.ID, stored.MarriageData.ID)
	})
}

func (s *FamilyServiceSuite) TestUpdateMember() {
	son := s.addMember(AddMemberRequest{
		FirstName: "Max", LastName: "Beispiel",
		Relationship: models.RelSon, RelatedTo: s.admin.ID,
	})

	s.Run("personal fields update and version bumps", func() {
		newName := "Maximilian"
		deceased := true
		updated, err := s.service.UpdateMember(s.ctx, s.universeID, son.ID, UpdateMemberRequest{
			FirstName: &newName,
			Deceased:  &deceased,
		})
		s.Require().NoError(err)
		s.Equal("Maximilian", updated.FirstName)
		s.True(updated.Deceased)
		s.Equal(2, updated.Version)
	})

	s.Run("implied gender cannot be overridden", func() {
		other := models.GenderFemale
		updated, err := s.service.UpdateMember(s.ctx, s.universeID, son.ID, UpdateMemberRequest{
			Gender: &other,
		})
		s.Require().NoError(err)
		s.Equal(models.GenderMale, updated.Gender)
	})

	s.Run("unknown member returns not found", func() {
		name := "Ghost"
		_, err := s.service.UpdateMember(s.ctx, s.universeID, id.NewMemberID(), UpdateMemberRequest{
			FirstName: &name,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *FamilyServiceSuite) TestDeleteMember() {
	s.Run("leaf member is deleted", func() {
		son := s.addMember(AddMemberRequest{
			FirstName: "Max", LastName: "Beispiel",
			Relationship: models.RelSon, RelatedTo: s.admin.ID,
		})
		s.Require().NoError(s.service.DeleteMember(s.ctx, s.universeID, son.ID))

		_, err := s.service.GetMember(s.ctx, s.universeID, son.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("referenced member is rejected", func() {
		son := s.addMember(AddMemberRequest{
			FirstName: "Max", LastName: "Beispiel",
			Relationship: models.RelSon, RelatedTo: s.admin.ID,
		})
		s.addMember(AddMemberRequest{
			FirstName: "Lena", LastName: "Beispiel",
			Relationship: models.RelDaughter, RelatedTo: son.ID,
		})

		err := s.service.DeleteMember(s.ctx, s.universeID, son.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("the admin cannot be deleted", func() {
		err := s.service.DeleteMember(s.ctx, s.universeID, s.admin.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *FamilyServiceSuite) TestAvailableRelationships() {
	s.Run("admin menu shrinks as slots fill", func() {
		menu, err := s.service.AvailableRelationships(s.ctx, s.universeID, s.admin.ID)
		s.Require().NoError(err)
		s.Contains(menu, models.RelSpouse)
		s.Contains(menu, models.RelFather)

		s.addMember(AddMemberRequest{
			FirstName: "Karl", LastName: "Beispiel",
			Relationship: models.RelFather, RelatedTo: s.admin.ID,
		})

		menu, err = s.service.AvailableRelationships(s.ctx, s.universeID, s.admin.ID)
		s.Require().NoError(err)
		s.NotContains(menu, models.RelFather)
		s.Contains(menu, models.RelMother)
	})

	s.Run("unknown member yields an empty set", func() {
		menu, err := s.service.AvailableRelationships(s.ctx, s.universeID, id.NewMemberID())
		s.Require().NoError(err)
		s.Empty(menu)
	})
}

func (s *FamilyServiceSuite) TestGroups() {
	s.addMember(AddMemberRequest{
		FirstName: "Max", LastName: "Beispiel",
		Relationship: models.RelSon, RelatedTo: s.admin.ID,
	})
	s.addMember(AddMemberRequest{
		FirstName: "Karl", LastName: "Beispiel",
		Relationship: models.RelFather, RelatedTo: s.admin.ID,
	})

	s.Run("default order", func() {
		groups, err := s.service.Groups(s.ctx, s.universeID, nil)
		s.Require().NoError(err)
		s.Require().Len(groups, 3)
		s.Equal(rules.SectionAdmin, groups[0].Section)
		s.Equal(rules.SectionChildren, groups[1].Section)
		s.Equal(rules.SectionParents, groups[2].Section)
	})

	s.Run("caller-supplied order", func() {
		groups, err := s.service.Groups(s.ctx, s.universeID, []rules.Section{
			rules.SectionParents, rules.SectionAdmin,
		})
		s.Require().NoError(err)
		s.Require().Len(groups, 2)
		s.Equal(rules.SectionParents, groups[0].Section)
	})
}

func (s *FamilyServiceSuite) TestFinalizeSetup() {
	// Seed the wizard's raw output: members persisted without marriage linkage.
	seed := func(first string, rel models.Relationship) *models.FamilyMember {
		m := models.NewFamilyMember(s.universeID, first, "Beispiel", rel, time.Now(), "")
		anchorID := s.admin.ID
		m.RelatedTo = &anchorID
		s.Require().NoError(s.store.Save(s.ctx, m))
		return m
	}
	spouse := seed("Ben", models.RelSpouse)
	father := seed("Karl", models.RelFather)
	mother := seed("Rita", models.RelMother)

	s.Require().NoError(s.service.FinalizeSetup(s.ctx, s.universeID))

	members, err := s.service.ListMembers(s.ctx, s.universeID)
	s.Require().NoError(err)
	byID := make(map[id.MemberID]*models.FamilyMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	s.Require().NotNil(byID[s.admin.ID].MarriageData)
	s.Require().NotNil(byID[spouse.ID].MarriageData)
	s.Equal(byID[s.admin.ID].MarriageData.ID, byID[spouse.ID].MarriageData.ID)

	s.Require().NotNil(byID[father.ID].MarriageData)
	s.Require().NotNil(byID[mother.ID].MarriageData)
	s.Equal(byID[father.ID].MarriageData.ID, byID[mother.ID].MarriageData.ID)
	s.NotEqual(byID[s.admin.ID].MarriageData.ID, byID[father.ID].MarriageData.ID)

	s.Run("finalize is idempotent", func() {
		first := byID[s.admin.ID].MarriageData.ID
		s.Require().NoError(s.service.FinalizeSetup(s.ctx, s.universeID))
		admin, err := s.service.GetMember(s.ctx, s.universeID, s.admin.ID)
		s.Require().NoError(err)
		s.Equal(first, admin.MarriageData.ID)
	})

	s.Run("missing admin returns not found", func() {
		err := s.service.FinalizeSetup(s.ctx, id.NewUniverseID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *FamilyServiceSuite) TestTaxClassFor() {
	spouse := s.addMember(AddMemberRequest{
		FirstName: "Ben", LastName: "Beispiel",
		Relationship: models.RelSpouse, RelatedTo: s.admin.ID,
		Gender: models.GenderMale,
	})
	brother := s.addMember(AddMemberRequest{
		FirstName: "Tom", LastName: "Beispiel",
		Relationship: models.RelBrother, RelatedTo: s.admin.ID,
	})

	s.Run("direct inheritance", func() {
		class, err := s.service.TaxClassFor(s.ctx, s.universeID, spouse.ID, nil)
		s.Require().NoError(err)
		s.Equal(rules.TaxClassI, class)

		class, err = s.service.TaxClassFor(s.ctx, s.universeID, brother.ID, nil)
		s.Require().NoError(err)
		s.Equal(rules.TaxClassII, class)
	})

	s.Run("indirect inheritance collapses non-spouse relatives to class three", func() {
		owner := spouse.ID
		class, err := s.service.TaxClassFor(s.ctx, s.universeID, brother.ID, &owner)
		s.Require().NoError(err)
		s.Equal(rules.TaxClassIII, class)

		// A spouse stays in class II on the indirect path.
		class, err = s.service.TaxClassFor(s.ctx, s.universeID, spouse.ID, &owner)
		s.Require().NoError(err)
		s.Equal(rules.TaxClassII, class)
	})

	s.Run("unknown heir returns not found", func() {
		_, err := s.service.TaxClassFor(s.ctx, s.universeID, id.NewMemberID(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
