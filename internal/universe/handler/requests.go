package handler

import (
	"strings"
	"time"

	familymodels "nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	"nachlass/internal/universe/service"
	derrors "nachlass/pkg/domainerrors"
	strutil "nachlass/pkg/platform/strings"
)

// CreateUniverseRequest is the wire form for opening a family space.
type CreateUniverseRequest struct {
	Name string `json:"name"`

	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`

	AdminFirstName string     `json:"adminFirstName"`
	AdminLastName  string     `json:"adminLastName"`
	AdminGender    string     `json:"adminGender,omitempty"`
	AdminBirthYear string     `json:"adminBirthYear,omitempty"`
	AdminBirthday  *time.Time `json:"adminBirthday,omitempty"`
}

func (r *CreateUniverseRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.AdminEmail = strings.TrimSpace(r.AdminEmail)
	r.AdminFirstName = strings.TrimSpace(r.AdminFirstName)
	r.AdminLastName = strings.TrimSpace(r.AdminLastName)
	if r.Name == "" {
		return derrors.New(derrors.CodeBadRequest, "name is required")
	}
	if r.AdminEmail == "" || !strings.Contains(r.AdminEmail, "@") {
		return derrors.New(derrors.CodeBadRequest, "adminEmail is required")
	}
	if r.AdminPassword == "" {
		return derrors.New(derrors.CodeBadRequest, "adminPassword is required")
	}
	if r.AdminFirstName == "" {
		return derrors.New(derrors.CodeBadRequest, "adminFirstName is required")
	}
	if r.AdminLastName == "" {
		return derrors.New(derrors.CodeBadRequest, "adminLastName is required")
	}
	return nil
}

func (r *CreateUniverseRequest) ToServiceRequest() service.CreateUniverseRequest {
	return service.CreateUniverseRequest{
		Name:           r.Name,
		AdminEmail:     r.AdminEmail,
		AdminPassword:  r.AdminPassword,
		AdminFirstName: r.AdminFirstName,
		AdminLastName:  r.AdminLastName,
		AdminGender:    familymodels.Gender(r.AdminGender),
		AdminBirthYear: r.AdminBirthYear,
		AdminBirthday:  r.AdminBirthday,
	}
}

// SignInRequest is the wire form for exchanging admin credentials for a
// fresh session token.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return derrors.New(derrors.CodeBadRequest, "email is required")
	}
	if r.Password == "" {
		return derrors.New(derrors.CodeBadRequest, "password is required")
	}
	return nil
}

// UpdateSettingsRequest is the wire form for a partial settings update.
// Absent fields keep their current value.
type UpdateSettingsRequest struct {
	Currency     *string   `json:"currency,omitempty"`
	Language     *string   `json:"language,omitempty"`
	Timezone     *string   `json:"timezone,omitempty"`
	SectionOrder *[]string `json:"sectionOrder,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.Currency == nil && r.Language == nil && r.Timezone == nil && r.SectionOrder == nil {
		return derrors.New(derrors.CodeBadRequest, "at least one settings field is required")
	}
	return nil
}

func (r *UpdateSettingsRequest) ToServiceRequest() service.UpdateSettingsRequest {
	req := service.UpdateSettingsRequest{
		Currency: r.Currency,
		Language: r.Language,
		Timezone: r.Timezone,
	}
	if r.SectionOrder != nil {
		// Section names are case-sensitive camelCase identifiers; only trim
		// and dedupe, never fold case.
		cleaned := strutil.DedupeAndTrim(*r.SectionOrder)
		order := make([]rules.Section, len(cleaned))
		for i, raw := range cleaned {
			order[i] = rules.Section(raw)
		}
		req.SectionOrder = &order
	}
	return req
}
