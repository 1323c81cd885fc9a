package dto

import (
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
)

// CreateOrganizationRequest creates a new organization.
type CreateOrganizationRequest struct {
	Name            string  `json:"name" binding:"required"`
	LegalName       string  `json:"legalName"`
	TaxNumber       string  `json:"taxNumber"`
	BaseCurrency    string  `json:"baseCurrency" binding:"required,len=3"`
	FiscalYearStart *string `json:"fiscalYearStart,omitempty"` // MM-DD
}

// UpdateOrganizationRequest updates organization details.
type UpdateOrganizationRequest struct {
	Name            *string `json:"name,omitempty"`
	LegalName       *string `json:"legalName,omitempty"`
	TaxNumber       *string `json:"taxNumber,omitempty"`
	FiscalYearStart *string `json:"fiscalYearStart,omitempty"`
}

// AddMemberRequest adds a user to an organization.
type AddMemberRequest struct {
	UserID string                  `json:"userID" binding:"required"`
	Role   domain.OrganizationRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// OrganizationResponse is the public view of an organization.
type OrganizationResponse struct {
	OrganizationID  string    `json:"organizationID"`
	Name            string    `json:"name"`
	LegalName       string    `json:"legalName"`
	TaxNumber       string    `json:"taxNumber"`
	BaseCurrency    string    `json:"baseCurrency"`
	FiscalYearStart *string   `json:"fiscalYearStart,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// MemberResponse is one organization membership.
type MemberResponse struct {
	UserID   string                  `json:"userID"`
	Role     domain.OrganizationRole `json:"role"`
	JoinedAt time.Time               `json:"joinedAt"`
}

// ToOrganizationResponse converts a domain.Organization.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:  o.OrganizationID,
		Name:            o.Name,
		LegalName:       o.LegalName,
		TaxNumber:       o.TaxNumber,
		BaseCurrency:    o.BaseCurrency,
		FiscalYearStart: o.FiscalYearStart,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
	}
}

// ToMemberResponses converts memberships.
func ToMemberResponses(members []domain.UserOrganization) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
	}
	return out
}
