package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "nachlass/pkg/domain"
	"nachlass/pkg/platform/sentinel"

	"nachlass/internal/assets/models"
)

// Postgres persists assets in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed asset store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the assets table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS assets (
			id UUID PRIMARY KEY,
			universe_id UUID NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			company_type TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			value_cents BIGINT NOT NULL DEFAULT 0,
			owner_id UUID,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			version INT NOT NULL DEFAULT 1,
			seq BIGSERIAL
		);
		CREATE INDEX IF NOT EXISTS idx_assets_universe
			ON assets (universe_id, seq);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure assets schema: %w", err)
	}
	return nil
}

const assetColumns = `
	id, universe_id, kind, name, company_type, country, category,
	location, description, value_cents, owner_id, created_at, updated_at, version
`

func (s *Postgres) Save(ctx context.Context, asset *models.Asset) error {
	if asset == nil {
		return fmt.Errorf("asset is required")
	}
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(asset.ID), uuid.UUID(asset.UniverseID),
		string(asset.Kind), asset.Name, asset.CompanyType, asset.Country,
		string(asset.Category), asset.Location, asset.Description,
		asset.ValueCents, nullOwnerID(asset.Owner),
		asset.CreatedAt, asset.UpdatedAt, asset.Version,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, asset *models.Asset) error {
	if asset == nil {
		return fmt.Errorf("asset is required")
	}
	query := `
		UPDATE assets
		SET kind = $3, name = $4, company_type = $5, country = $6, category = $7,
			location = $8, description = $9, value_cents = $10, owner_id = $11,
			updated_at = $12, version = $13
		WHERE id = $1 AND universe_id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		uuid.UUID(asset.ID), uuid.UUID(asset.UniverseID),
		string(asset.Kind), asset.Name, asset.CompanyType, asset.Country,
		string(asset.Category), asset.Location, asset.Description,
		asset.ValueCents, nullOwnerID(asset.Owner),
		asset.UpdatedAt, asset.Version,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 AND universe_id = $2`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(assetID), uuid.UUID(universeID))
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return asset, err
}

func (s *Postgres) ListByUniverse(ctx context.Context, universeID id.UniverseID) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE universe_id = $1 ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(universeID))
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func (s *Postgres) Delete(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) error {
	query := `DELETE FROM assets WHERE id = $1 AND universe_id = $2`
	result, err := s.db.ExecContext(ctx, query, uuid.UUID(assetID), uuid.UUID(universeID))
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	var (
		asset      models.Asset
		assetID    uuid.UUID
		universeID uuid.UUID
		kind       string
		category   string
		ownerID    uuid.NullUUID
	)
	err := row.Scan(
		&assetID, &universeID, &kind, &asset.Name, &asset.CompanyType,
		&asset.Country, &category, &asset.Location, &asset.Description,
		&asset.ValueCents, &ownerID, &asset.CreatedAt, &asset.UpdatedAt, &asset.Version,
	)
	if err != nil {
		return nil, err
	}
	asset.ID = id.AssetID(assetID)
	asset.UniverseID = id.UniverseID(universeID)
	asset.Kind = models.Kind(kind)
	asset.Category = models.Category(category)
	if ownerID.Valid {
		owner := id.MemberID(ownerID.UUID)
		asset.Owner = &owner
	}
	return &asset, nil
}

func nullOwnerID(owner *id.MemberID) uuid.NullUUID {
	if owner == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*owner), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
