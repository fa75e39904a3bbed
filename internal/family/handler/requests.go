package handler

import (
	"strings"
	"time"

	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
	"nachlass/internal/family/service"
	id "nachlass/pkg/domain"
	dErrors "nachlass/pkg/domainerrors"
)

// AddMemberRequest is the HTTP request body for POST /family/members.
type AddMemberRequest struct {
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Relationship  string     `json:"relationship"`
	RelatedTo     string     `json:"relatedTo"`
	Gender        string     `json:"gender,omitempty"`
	BirthYear     string     `json:"birthYear,omitempty"`
	ExactBirthday *time.Time `json:"exactBirthday,omitempty"`
	Deceased      bool       `json:"deceased,omitempty"`
	MarriageDate  *time.Time `json:"marriageDate,omitempty"`
	IsAdopted     bool       `json:"isAdopted,omitempty"`
	IsStepChild   bool       `json:"isStepChild,omitempty"`
	AdoptionDate  *time.Time `json:"adoptionDate,omitempty"`

	// Parsed values (populated by Validate)
	parsedRelatedTo id.MemberID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AddMemberRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if r.FirstName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "firstName is required")
	}
	if r.LastName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "lastName is required")
	}

	rel, _ := models.ParseRelationship(r.Relationship)
	if !rel.Known() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown relationship %q", r.Relationship)
	}

	relatedTo, err := id.ParseMemberID(r.RelatedTo)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "relatedTo must be a valid member id")
	}
	r.parsedRelatedTo = relatedTo

	return nil
}

// ToServiceRequest maps the validated body onto the service input.
func (r *AddMemberRequest) ToServiceRequest() service.AddMemberRequest {
	rel, deceased := models.ParseRelationship(r.Relationship)
	return service.AddMemberRequest{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Relationship:  rel,
		RelatedTo:     r.parsedRelatedTo,
		Gender:        models.Gender(r.Gender),
		BirthYear:     r.BirthYear,
		ExactBirthday: r.ExactBirthday,
		Deceased:      r.Deceased || deceased,
		MarriageDate:  r.MarriageDate,
		IsAdopted:     r.IsAdopted,
		IsStepChild:   r.IsStepChild,
		AdoptionDate:  r.AdoptionDate,
	}
}

// UpdateMemberRequest is the HTTP request body for PATCH /family/members/{id}.
// Absent fields stay untouched.
type UpdateMemberRequest struct {
	FirstName     *string    `json:"firstName,omitempty"`
	LastName      *string    `json:"lastName,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	BirthYear     *string    `json:"birthYear,omitempty"`
	ExactBirthday *time.Time `json:"exactBirthday,omitempty"`
	Deceased      *bool      `json:"deceased,omitempty"`
	IsAdopted     *bool      `json:"isAdopted,omitempty"`
	IsStepChild   *bool      `json:"isStepChild,omitempty"`
	AdoptionDate  *time.Time `json:"adoptionDate,omitempty"`
}

// Validate rejects blank names; nil means "leave unchanged", empty means a
// user cleared a required field.
func (r *UpdateMemberRequest) Validate() error {
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "firstName cannot be blank")
	}
	if r.LastName != nil && strings.TrimSpace(*r.LastName) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "lastName cannot be blank")
	}
	return nil
}

// ToServiceRequest maps the body onto the service input.
func (r *UpdateMemberRequest) ToServiceRequest() service.UpdateMemberRequest {
	req := service.UpdateMemberRequest{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		BirthYear:     r.BirthYear,
		ExactBirthday: r.ExactBirthday,
		Deceased:      r.Deceased,
		IsAdopted:     r.IsAdopted,
		IsStepChild:   r.IsStepChild,
		AdoptionDate:  r.AdoptionDate,
	}
	if r.Gender != nil {
		gender := models.Gender(*r.Gender)
		req.Gender = &gender
	}
	return req
}

// parseSectionOrder converts the groups endpoint's order query parameter into
// a section list. Unknown section names are rejected rather than ignored.
func parseSectionOrder(raw string) ([]rules.Section, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	order := make([]rules.Section, 0, len(parts))
	for _, part := range parts {
		section := rules.Section(strings.TrimSpace(part))
		if rules.SectionTitle(section) == "" {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown section %q", part)
		}
		order = append(order, section)
	}
	return order, nil
}
