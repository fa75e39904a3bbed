package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"

	"nachlass/internal/family/models"
)

// Postgres persists family members in PostgreSQL. Marriage linkage data is
// stored as JSONB so spouse pairs sharing a marriage record round-trip with
// the same field names the service layer serializes.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed member store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the family_members table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS family_members (
			id UUID PRIMARY KEY,
			universe_id UUID NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			birth_year TEXT NOT NULL DEFAULT '',
			exact_birthday TIMESTAMPTZ,
			relationship TEXT NOT NULL,
			deceased BOOLEAN NOT NULL DEFAULT FALSE,
			related_to UUID,
			generation_level TEXT NOT NULL DEFAULT '',
			tax_class INT NOT NULL DEFAULT 0,
			marriage_data JSONB,
			is_adopted BOOLEAN NOT NULL DEFAULT FALSE,
			is_step_child BOOLEAN NOT NULL DEFAULT FALSE,
			adoption_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			version INT NOT NULL DEFAULT 1,
			created_by TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL DEFAULT '',
			seq BIGSERIAL
		);
		CREATE INDEX IF NOT EXISTS idx_family_members_universe
			ON family_members (universe_id, seq);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure family schema: %w", err)
	}
	return nil
}

const memberColumns = `
	id, universe_id, first_name, last_name, gender, birth_year, exact_birthday,
	relationship, deceased, related_to, generation_level, tax_class,
	marriage_data, is_adopted, is_step_child, adoption_date,
	created_at, updated_at, version, created_by, updated_by
`

func (s *Postgres) Save(ctx context.Context, member *models.FamilyMember) error {
	if member == nil {
		return fmt.Errorf("family member is required")
	}
	marriage, err := marshalMarriage(member.MarriageData)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO family_members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(member.ID), uuid.UUID(member.UniverseID),
		member.FirstName, member.LastName, string(member.Gender),
		member.BirthYear, member.ExactBirthday,
		string(member.Relationship), member.Deceased, nullMemberID(member.RelatedTo),
		member.GenerationLevel, member.TaxClass, marriage,
		member.IsAdopted, member.IsStepChild, member.AdoptionDate,
		member.CreatedAt, member.UpdatedAt, member.Version,
		member.CreatedBy, member.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save member %s: %w", member.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, member *models.FamilyMember) error {
	if member == nil {
		return fmt.Errorf("family member is required")
	}
	marriage, err := marshalMarriage(member.MarriageData)
	if err != nil {
		return err
	}
	query := `
		UPDATE family_members SET
			first_name = $3, last_name = $4, gender = $5,
			birth_year = $6, exact_birthday = $7,
			relationship = $8, deceased = $9, related_to = $10,
			generation_level = $11, tax_class = $12, marriage_data = $13,
			is_adopted = $14, is_step_child = $15, adoption_date = $16,
			updated_at = $17, version = $18, updated_by = $19
		WHERE id = $1 AND universe_id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(member.ID), uuid.UUID(member.UniverseID),
		member.FirstName, member.LastName, string(member.Gender),
		member.BirthYear, member.ExactBirthday,
		string(member.Relationship), member.Deceased, nullMemberID(member.RelatedTo),
		member.GenerationLevel, member.TaxClass, marriage,
		member.IsAdopted, member.IsStepChild, member.AdoptionDate,
		member.UpdatedAt, member.Version, member.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update member %s: %w", member.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) (*models.FamilyMember, error) {
	query := `SELECT ` + memberColumns + ` FROM family_members WHERE universe_id = $1 AND id = $2`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(universeID), uuid.UUID(memberID))
	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find member %s: %w", memberID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return member, nil
}

func (s *Postgres) ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]*models.FamilyMember, error) {
	query := `SELECT ` + memberColumns + ` FROM family_members WHERE universe_id = $1 ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(universeID))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*models.FamilyMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *Postgres) Delete(ctx context.Context, universeID id.UniverseID, memberID id.MemberID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM family_members WHERE universe_id = $1 AND id = $2`,
		uuid.UUID(universeID), uuid.UUID(memberID))
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete member %s: %w", memberID, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.FamilyMember, error) {
	var (
		member       models.FamilyMember
		memberID     uuid.UUID
		universeID   uuid.UUID
		gender       string
		relationship string
		relatedTo    uuid.NullUUID
		marriage     []byte
	)
	err := row.Scan(
		&memberID, &universeID,
		&member.FirstName, &member.LastName, &gender,
		&member.BirthYear, &member.ExactBirthday,
		&relationship, &member.Deceased, &relatedTo,
		&member.GenerationLevel, &member.TaxClass, &marriage,
		&member.IsAdopted, &member.IsStepChild, &member.AdoptionDate,
		&member.CreatedAt, &member.UpdatedAt, &member.Version,
		&member.CreatedBy, &member.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	member.ID = id.MemberID(memberID)
	member.UniverseID = id.UniverseID(universeID)
	member.Gender = models.Gender(gender)
	// Legacy rows fold deceased status into the stored label; strip the
	// prefix so callers only ever see plain relationships.
	rel, deceased := models.ParseRelationship(relationship)
	member.Relationship = rel
	if deceased {
		member.Deceased = true
	}
	if relatedTo.Valid {
		anchor := id.MemberID(relatedTo.UUID)
		member.RelatedTo = &anchor
	}
	if len(marriage) > 0 {
		var data models.MarriageData
		if err := json.Unmarshal(marriage, &data); err != nil {
			return nil, fmt.Errorf("decode marriage data: %w", err)
		}
		member.MarriageData = &data
	}
	return &member, nil
}

func marshalMarriage(data *models.MarriageData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode marriage data: %w", err)
	}
	return raw, nil
}

func nullMemberID(memberID *id.MemberID) uuid.NullUUID {
	if memberID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*memberID), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
