package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"nachlass/internal/assets/models"
	"nachlass/internal/assets/store"
	"nachlass/internal/audit"
	familymodels "nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	familyservice "nachlass/internal/family/service"
	familystore "nachlass/internal/family/store"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/requestcontext"
)

type AssetServiceSuite struct {
	suite.Suite
	assets     *store.InMemory
	family     *familyservice.Service
	service    *Service
	ctx        context.Context
	universeID id.UniverseID
	admin      *familymodels.FamilyMember
}

func TestAssetServiceSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceSuite))
}

func (s *AssetServiceSuite) SetupTest() {
	s.assets = store.NewInMemory()
	members := familystore.NewInMemory()
	s.family = familyservice.New(members)
	s.service = New(s.assets, s.family, WithAuditPublisher(audit.NewPublisher(audit.NewMemoryStore())))
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	s.universeID = id.NewUniverseID()

	s.admin = familymodels.NewFamilyMember(s.universeID, "Anna", "Beispiel", familymodels.RelAdmin, time.Now(), "")
	s.Require().NoError(members.Save(s.ctx, s.admin))
}

func (s *AssetServiceSuite) addHeir(rel familymodels.Relationship, gender familymodels.Gender) *familymodels.FamilyMember {
	member, err := s.family.AddMember(s.ctx, s.universeID, familyservice.AddMemberRequest{
		FirstName:    "Max",
		LastName:     "Beispiel",
		Relationship: rel,
		RelatedTo:    s.admin.ID,
		Gender:       gender,
	})
	s.Require().NoError(err)
	return member
}

func (s *AssetServiceSuite) TestCreateAsset() {
	s.Run("company asset", func() {
		asset, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
			Kind:        models.KindCompany,
			Name:        "Beispiel GmbH",
			CompanyType: "GmbH",
			Country:     "DE",
			ValueCents:  50_000_00,
		})
		s.Require().NoError(err)
		s.Equal(models.KindCompany, asset.Kind)
		s.Equal(1, asset.Version)
	})

	s.Run("personal asset requires a known category", func() {
		_, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
			Kind:     models.KindPersonal,
			Name:     "Stadthaus",
			Category: "Mansion",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("company asset cannot carry a category", func() {
		_, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
			Kind:     models.KindCompany,
			Name:     "Beispiel AG",
			Category: models.CategoryArt,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *AssetServiceSuite) TestUpdateAndDelete() {
	asset, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
		Kind:     models.KindPersonal,
		Name:     "Stadthaus",
		Category: models.CategoryRealEstate,
	})
	s.Require().NoError(err)

	s.Run("partial update bumps the version", func() {
		value := int64(750_000_00)
		updated, err := s.service.UpdateAsset(s.ctx, s.universeID, asset.ID, UpdateAssetRequest{
			ValueCents: &value,
		})
		s.Require().NoError(err)
		s.Equal(value, updated.ValueCents)
		s.Equal("Stadthaus", updated.Name)
		s.Equal(2, updated.Version)
	})

	s.Run("negative value is rejected", func() {
		value := int64(-1)
		_, err := s.service.UpdateAsset(s.ctx, s.universeID, asset.ID, UpdateAssetRequest{
			ValueCents: &value,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("delete removes the asset", func() {
		s.Require().NoError(s.service.DeleteAsset(s.ctx, s.universeID, asset.ID))
		_, err := s.service.GetAsset(s.ctx, s.universeID, asset.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("delete unknown asset is not found", func() {
		err := s.service.DeleteAsset(s.ctx, s.universeID, id.NewAssetID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AssetServiceSuite) TestPreviewInheritance() {
	son := s.addHeir(familymodels.RelSon, familymodels.GenderUnset)
	brother := s.addHeir(familymodels.RelBrother, familymodels.GenderUnset)

	s.Run("asset held by the admin inherits directly", func() {
		asset, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
			Kind:       models.KindCompany,
			Name:       "Beispiel GmbH",
			ValueCents: 50_000_00,
		})
		s.Require().NoError(err)

		preview, err := s.service.PreviewInheritance(s.ctx, s.universeID, asset.ID, son.ID)
		s.Require().NoError(err)
		s.Equal(rules.TaxClassI, preview.TaxClass)
		s.Equal(int64(50_000_00), preview.ValueCents)
	})

	s.Run("asset held by another member inherits indirectly", func() {
		brotherID := brother.ID
		asset, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
			Kind:     models.KindPersonal,
			Name:     "Segelboot",
			Category: models.CategoryVehicle,
			Owner:    &brotherID,
		})
		s.Require().NoError(err)

		preview, err := s.service.PreviewInheritance(s.ctx, s.universeID, asset.ID, son.ID)
		s.Require().NoError(err)
		s.Equal(rules.TaxClassIII, preview.TaxClass)
	})

	s.Run("unknown heir is not found", func() {
		asset, err := s.service.CreateAsset(s.ctx, s.universeID, CreateAssetRequest{
			Kind:     models.KindPersonal,
			Name:     "Gemälde",
			Category: models.CategoryArt,
		})
		s.Require().NoError(err)

		_, err = s.service.PreviewInheritance(s.ctx, s.universeID, asset.ID, id.NewMemberID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown asset is not found", func() {
		_, err := s.service.PreviewInheritance(s.ctx, s.universeID, id.NewAssetID(), son.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
