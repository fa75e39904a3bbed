//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"
	"nachlass/pkg/testutil/containers"

	"nachlass/internal/family/models"
	"nachlass/internal/family/store"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	store      *store.Postgres
	universeID id.UniverseID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "family_members")
	s.Require().NoError(err)
	s.universeID = id.NewUniverseID()
}

func (s *PostgresStoreSuite) newMember(rel models.Relationship, relatedTo *id.MemberID) *models.FamilyMember {
	m := models.NewFamilyMember(s.universeID, "Anna", "Beispiel", rel, time.Now().UTC().Truncate(time.Millisecond), "test")
	m.RelatedTo = relatedTo
	return m
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	admin := s.newMember(models.RelAdmin, nil)
	admin.Gender = models.GenderFemale
	admin.BirthYear = "1961"
	admin.GenerationLevel = "0.0"
	s.Require().NoError(s.store.Save(ctx, admin))

	anchor := admin.ID
	spouse := s.newMember(models.RelSpouse, &anchor)
	spouse.Gender = models.GenderMale
	spouse.TaxClass = 1
	spouse.MarriageData = models.NewMarriageData(nil, time.Now().UTC().Truncate(time.Millisecond))
	s.Require().NoError(s.store.Save(ctx, spouse))

	found, err := s.store.FindByID(ctx, s.universeID, spouse.ID)
	s.Require().NoError(err)
	s.Equal(models.RelSpouse, found.Relationship)
	s.Require().NotNil(found.RelatedTo)
	s.Equal(admin.ID, *found.RelatedTo)
	s.Equal(1, found.TaxClass)
	s.Require().NotNil(found.MarriageData)
	s.Equal(spouse.MarriageData.ID, found.MarriageData.ID)
	s.Equal(models.MarriageCurrent, found.MarriageData.Status)
}

func (s *PostgresStoreSuite) TestLegacyDeceasedLabelIsNormalized() {
	ctx := context.Background()

	father := s.newMember(models.RelFather, nil)
	s.Require().NoError(s.store.Save(ctx, father))

	// Rows written before the deceased flag existed carry the status inside
	// the relationship label itself.
	_, err := s.postgres.DB.ExecContext(ctx,
		`UPDATE family_members SET relationship = 'Deceased-Father', deceased = FALSE WHERE id = $1`,
		father.ID.String())
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, s.universeID, father.ID)
	s.Require().NoError(err)
	s.Equal(models.RelFather, found.Relationship)
	s.True(found.Deceased)

	listed, err := s.store.ListByUniverse(ctx, s.universeID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(models.RelFather, listed[0].Relationship)
	s.True(listed[0].Deceased)
}

func (s *PostgresStoreSuite) TestListPreservesInsertionOrder() {
	ctx := context.Background()

	admin := s.newMember(models.RelAdmin, nil)
	s.Require().NoError(s.store.Save(ctx, admin))
	anchor := admin.ID
	rels := []models.Relationship{models.RelFather, models.RelMother, models.RelSon, models.RelDaughter}
	var ids []id.MemberID
	for _, rel := range rels {
		m := s.newMember(rel, &anchor)
		s.Require().NoError(s.store.Save(ctx, m))
		ids = append(ids, m.ID)
	}

	members, err := s.store.ListByUniverse(ctx, s.universeID)
	s.Require().NoError(err)
	s.Require().Len(members, len(rels)+1)
	s.Equal(admin.ID, members[0].ID)
	for i, memberID := range ids {
		s.Equal(memberID, members[i+1].ID)
	}
}

func (s *PostgresStoreSuite) TestDuplicateIDConflict() {
	ctx := context.Background()

	admin := s.newMember(models.RelAdmin, nil)
	s.Require().NoError(s.store.Save(ctx, admin))
	s.Require().ErrorIs(s.store.Save(ctx, admin), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()

	admin := s.newMember(models.RelAdmin, nil)
	s.Require().NoError(s.store.Save(ctx, admin))
	anchor := admin.ID
	son := s.newMember(models.RelSon, &anchor)
	s.Require().NoError(s.store.Save(ctx, son))

	son.FirstName = "Max"
	son.Deceased = true
	son.Touch(time.Now().UTC(), "editor")
	s.Require().NoError(s.store.Update(ctx, son))

	found, err := s.store.FindByID(ctx, s.universeID, son.ID)
	s.Require().NoError(err)
	s.Equal("Max", found.FirstName)
	s.True(found.Deceased)
	s.Equal(2, found.Version)
	s.Equal("editor", found.UpdatedBy)

	s.Require().NoError(s.store.Delete(ctx, s.universeID, son.ID))
	_, err = s.store.FindByID(ctx, s.universeID, son.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(ctx, s.universeID, son.ID), sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Update(ctx, son), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniverseIsolation() {
	ctx := context.Background()

	admin := s.newMember(models.RelAdmin, nil)
	s.Require().NoError(s.store.Save(ctx, admin))

	other := id.NewUniverseID()
	_, err := s.store.FindByID(ctx, other, admin.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	members, err := s.store.ListByUniverse(ctx, other)
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *PostgresStoreSuite) TestConcurrentSavesDistinctIDs() {
	ctx := context.Background()

	admin := s.newMember(models.RelAdmin, nil)
	s.Require().NoError(s.store.Save(ctx, admin))
	anchor := admin.ID

	const goroutines = 30
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := s.newMember(models.RelOther, &anchor)
			if err := s.store.Save(ctx, m); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(0), failures.Load())

	members, err := s.store.ListByUniverse(ctx, s.universeID)
	s.Require().NoError(err)
	s.Len(members, goroutines+1)
}
