package handler

import (
	"nachlass/internal/family/models"
	"nachlass/internal/family/rules"
)

// MembersResponse is the body for GET /family/members.
type MembersResponse struct {
	Members []*models.FamilyMember `json:"members"`
}

// RelationshipsResponse is the body for GET /family/members/{id}/relationships.
type RelationshipsResponse struct {
	Relationships []models.Relationship `json:"relationships"`
}

// GroupsResponse is the body for GET /family/groups.
type GroupsResponse struct {
	Groups []rules.Group `json:"groups"`
}

// TaxClassResponse is the body for GET /family/members/{id}/tax-class.
type TaxClassResponse struct {
	TaxClass int `json:"taxClass"`
}
