package handler

import (
	"strings"

	"nachlass/internal/assets/models"
	"nachlass/internal/assets/service"
	id "nachlass/pkg/domain"
	derrors "nachlass/pkg/domainerrors"
)

// CreateAssetRequest is the wire form for a new asset.
type CreateAssetRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	CompanyType string `json:"companyType,omitempty"`
	Country     string `json:"country,omitempty"`
	AssetType   string `json:"assetType,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	ValueCents  int64  `json:"valueCents,omitempty"`
	OwnerID     string `json:"ownerId,omitempty"`

	parsedOwner *id.MemberID
}

func (r *CreateAssetRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return derrors.New(derrors.CodeBadRequest, "name is required")
	}
	if !models.Kind(r.Type).Known() {
		return derrors.Newf(derrors.CodeBadRequest, "unknown asset type %q", r.Type)
	}
	if r.OwnerID != "" {
		ownerID, err := id.ParseMemberID(r.OwnerID)
		if err != nil {
			return derrors.New(derrors.CodeBadRequest, "ownerId must be a valid member id")
		}
		r.parsedOwner = &ownerID
	}
	return nil
}

func (r *CreateAssetRequest) ToServiceRequest() service.CreateAssetRequest {
	return service.CreateAssetRequest{
		Kind:        models.Kind(r.Type),
		Name:        r.Name,
		CompanyType: r.CompanyType,
		Country:     r.Country,
		Category:    models.Category(r.AssetType),
		Location:    r.Location,
		Description: r.Description,
		ValueCents:  r.ValueCents,
		Owner:       r.parsedOwner,
	}
}

// UpdateAssetRequest is the wire form for a partial asset update. Absent
// fields keep their current value; an explicit empty ownerId clears the
// holder.
type UpdateAssetRequest struct {
	Name        *string `json:"name,omitempty"`
	CompanyType *string `json:"companyType,omitempty"`
	Country     *string `json:"country,omitempty"`
	AssetType   *string `json:"assetType,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	ValueCents  *int64  `json:"valueCents,omitempty"`
	OwnerID     *string `json:"ownerId,omitempty"`

	parsedOwner **id.MemberID
}

func (r *UpdateAssetRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return derrors.New(derrors.CodeBadRequest, "name cannot be blank")
	}
	if r.OwnerID != nil {
		if *r.OwnerID == "" {
			var cleared *id.MemberID
			r.parsedOwner = &cleared
		} else {
			ownerID, err := id.ParseMemberID(*r.OwnerID)
			if err != nil {
				return derrors.New(derrors.CodeBadRequest, "ownerId must be a valid member id")
			}
			owner := &ownerID
			r.parsedOwner = &owner
		}
	}
	return nil
}

func (r *UpdateAssetRequest) ToServiceRequest() service.UpdateAssetRequest {
	req := service.UpdateAssetRequest{
		Name:        r.Name,
		CompanyType: r.CompanyType,
		Country:     r.Country,
		Location:    r.Location,
		Description: r.Description,
		ValueCents:  r.ValueCents,
		Owner:       r.parsedOwner,
	}
	if r.AssetType != nil {
		category := models.Category(*r.AssetType)
		req.Category = &category
	}
	return req
}
