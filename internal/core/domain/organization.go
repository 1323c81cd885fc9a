package domain

import "time"

// OrganizationRole defines the access level of a user within an organization.
type OrganizationRole string

const (
	RoleAdmin    OrganizationRole = "ADMIN"
	RoleMember   OrganizationRole = "MEMBER"
	RoleReadOnly OrganizationRole = "READONLY"
)

// roleRank orders roles for comparison; higher covers lower.
var roleRank = map[OrganizationRole]int{
	RoleReadOnly: 1,
	RoleMember:   2,
	RoleAdmin:    3,
}

// Covers reports whether the role grants at least the permissions of required.
func (r OrganizationRole) Covers(required OrganizationRole) bool {
	return roleRank[r] >= roleRank[required]
}

// Organization is the tenancy boundary. Every ledger entity belongs to exactly one.
type Organization struct {
	OrganizationID  string  `json:"organizationID"`
	Name            string  `json:"name"`
	LegalName       string  `json:"legalName"`
	TaxNumber       string  `json:"taxNumber"` // ABN for Australian entities
	BaseCurrency    string  `json:"baseCurrency"`
	FiscalYearStart *string `json:"fiscalYearStart,omitempty"` // MM-DD
	IsActive        bool    `json:"isActive"`
	AuditFields
}

// UserOrganization links a user to an organization with a role.
type UserOrganization struct {
	UserID         string           `json:"userID"`
	OrganizationID string           `json:"organizationID"`
	Role           OrganizationRole `json:"role"`
	JoinedAt       time.Time        `json:"joinedAt"`
}
