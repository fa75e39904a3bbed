package service

import (
	"context"
	"errors"

	"nachlass/internal/assets/models"
	"nachlass/internal/audit"
	"nachlass/internal/family/rules"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
	"nachlass/pkg/platform/sentinel"
	"nachlass/pkg/requestcontext"
)

// CreateAssetRequest carries a new asset.
type CreateAssetRequest struct {
	Kind        models.Kind
	Name        string
	CompanyType string
	Country     string
	Category    models.Category
	Location    string
	Description string
	ValueCents  int64
	Owner       *id.MemberID
}

// CreateAsset validates and persists a new asset record.
func (s *Service) CreateAsset(ctx context.Context, universeID id.UniverseID, req CreateAssetRequest) (*models.Asset, error) {
	asset := models.NewAsset(universeID, req.Kind, req.Name, requestcontext.Now(ctx))
	asset.CompanyType = req.CompanyType
	asset.Country = req.Country
	asset.Category = req.Category
	asset.Location = req.Location
	asset.Description = req.Description
	asset.ValueCents = req.ValueCents
	asset.Owner = req.Owner

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.assets.Save(ctx, asset); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "asset already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save asset")
	}

	s.logAudit(ctx, audit.ActionAssetCreated, universeID, asset.Name)
	return asset, nil
}

// UpdateAssetRequest carries a partial asset update. Nil fields keep their
// current value.
type UpdateAssetRequest struct {
	Name        *string
	CompanyType *string
	Country     *string
	Category    *models.Category
	Location    *string
	Description *string
	ValueCents  *int64
	Owner       **id.MemberID
}

// UpdateAsset applies a partial update. The kind of an asset is immutable.
func (s *Service) UpdateAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID, req UpdateAssetRequest) (*models.Asset, error) {
	asset, err := s.findAsset(ctx, universeID, assetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.CompanyType != nil {
		asset.CompanyType = *req.CompanyType
	}
	if req.Country != nil {
		asset.Country = *req.Country
	}
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.Description != nil {
		asset.Description = *req.Description
	}
	if req.ValueCents != nil {
		asset.ValueCents = *req.ValueCents
	}
	if req.Owner != nil {
		asset.Owner = *req.Owner
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	asset.Touch(requestcontext.Now(ctx))
	if err := s.assets.Update(ctx, asset); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update asset")
	}

	s.logAudit(ctx, audit.ActionAssetUpdated, universeID, asset.Name)
	return asset, nil
}

// DeleteAsset removes an asset record.
func (s *Service) DeleteAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) error {
	asset, err := s.findAsset(ctx, universeID, assetID)
	if err != nil {
		return err
	}
	if err := s.assets.Delete(ctx, universeID, assetID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "asset not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete asset")
	}
	s.logAudit(ctx, audit.ActionAssetDeleted, universeID, asset.Name)
	return nil
}

// GetAsset returns one asset by id.
func (s *Service) GetAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) (*models.Asset, error) {
	return s.findAsset(ctx, universeID, assetID)
}

// ListAssets returns a universe's assets in insertion order.
func (s *Service) ListAssets(ctx context.Context, universeID id.UniverseID) ([]*models.Asset, error) {
	assets, err := s.assets.ListByUniverse(ctx, universeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assets")
	}
	return assets, nil
}

// InheritancePreview estimates the tax class for a prospective heir of one
// asset. An asset held by a family member other than the admin makes the
// inheritance indirect, which caps the heir at the least favorable class
// unless the holder passes it on directly.
type InheritancePreview struct {
	Asset      *models.Asset  `json:"asset"`
	HeirID     id.MemberID    `json:"heirId"`
	TaxClass   rules.TaxClass `json:"taxClass"`
	ValueCents int64          `json:"valueCents"`
}

// PreviewInheritance computes the preview for one heir and one asset.
func (s *Service) PreviewInheritance(ctx context.Context, universeID id.UniverseID, assetID id.AssetID, heirID id.MemberID) (*InheritancePreview, error) {
	asset, err := s.findAsset(ctx, universeID, assetID)
	if err != nil {
		return nil, err
	}

	class, err := s.classifier.TaxClassFor(ctx, universeID, heirID, asset.Owner)
	if err != nil {
		return nil, err
	}

	return &InheritancePreview{
		Asset:      asset,
		HeirID:     heirID,
		TaxClass:   class,
		ValueCents: asset.ValueCents,
	}, nil
}

func (s *Service) findAsset(ctx context.Context, universeID id.UniverseID, assetID id.AssetID) (*models.Asset, error) {
	asset, err := s.assets.FindByID(ctx, universeID, assetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset")
	}
	return asset, nil
}
