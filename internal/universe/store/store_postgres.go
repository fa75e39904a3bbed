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

	"nachlass/internal/universe/models"
)

// Postgres persists universes in PostgreSQL. Settings are stored as JSONB so
// new preference fields do not require schema migrations.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed universe store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the universes table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS universes (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			admin_id UUID NOT NULL,
			admin_email TEXT NOT NULL DEFAULT '',
			admin_password_hash TEXT NOT NULL DEFAULT '',
			settings JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			version INT NOT NULL DEFAULT 1
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_universes_name
			ON universes (LOWER(name));
		CREATE UNIQUE INDEX IF NOT EXISTS idx_universes_admin_email
			ON universes (LOWER(admin_email)) WHERE admin_email <> '';
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure universe schema: %w", err)
	}
	return nil
}

const universeColumns = `
	id, name, admin_id, admin_email, admin_password_hash, settings,
	created_at, updated_at, version
`

func (s *Postgres) Save(ctx context.Context, universe *models.Universe) error {
	if universe == nil {
		return fmt.Errorf("universe is required")
	}
	settings, err := json.Marshal(universe.Settings)
	if err != nil {
		return fmt.Errorf("marshal universe settings: %w", err)
	}
	query := `
		INSERT INTO universes (` + universeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(universe.ID), universe.Name, uuid.UUID(universe.AdminID),
		universe.AdminEmail, universe.AdminPasswordHash,
		settings, universe.CreatedAt, universe.UpdatedAt, universe.Version,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("save universe: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, universe *models.Universe) error {
	if universe == nil {
		return fmt.Errorf("universe is required")
	}
	settings, err := json.Marshal(universe.Settings)
	if err != nil {
		return fmt.Errorf("marshal universe settings: %w", err)
	}
	query := `
		UPDATE universes
		SET name = $2, admin_id = $3, admin_email = $4,
			admin_password_hash = $5, settings = $6, updated_at = $7,
			version = $8
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(universe.ID), universe.Name, uuid.UUID(universe.AdminID),
		universe.AdminEmail, universe.AdminPasswordHash,
		settings, universe.UpdatedAt, universe.Version,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update universe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update universe: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, universeID id.UniverseID) (*models.Universe, error) {
	query := `SELECT ` + universeColumns + ` FROM universes WHERE id = $1`
	return s.scanUniverse(s.db.QueryRowContext(ctx, query, uuid.UUID(universeID)))
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Universe, error) {
	query := `SELECT ` + universeColumns + ` FROM universes WHERE LOWER(name) = LOWER($1)`
	return s.scanUniverse(s.db.QueryRowContext(ctx, query, name))
}

func (s *Postgres) FindByAdminEmail(ctx context.Context, email string) (*models.Universe, error) {
	query := `SELECT ` + universeColumns + ` FROM universes WHERE LOWER(admin_email) = LOWER($1)`
	return s.scanUniverse(s.db.QueryRowContext(ctx, query, email))
}

func (s *Postgres) scanUniverse(row *sql.Row) (*models.Universe, error) {
	var (
		universe   models.Universe
		universeID uuid.UUID
		adminID    uuid.UUID
		settings   []byte
	)
	err := row.Scan(
		&universeID, &universe.Name, &adminID,
		&universe.AdminEmail, &universe.AdminPasswordHash, &settings,
		&universe.CreatedAt, &universe.UpdatedAt, &universe.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan universe: %w", err)
	}
	universe.ID = id.UniverseID(universeID)
	universe.AdminID = id.MemberID(adminID)
	if err := json.Unmarshal(settings, &universe.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal universe settings: %w", err)
	}
	return &universe, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
