package domain

// AccountType classifies an account within the chart of accounts.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// SystemTag marks an account as serving a well-known role so posting logic can
// find it without guessing from names.
type SystemTag string

const (
	TagReceivable       SystemTag = "receivable"
	TagSales            SystemTag = "sales"
	TagCustomerDeposits SystemTag = "customer_deposits"
	TagGSTCollected     SystemTag = "gst_collected"
	TagGSTPaid          SystemTag = "gst_paid"
)

// Account is a single node in the chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	OrganizationID  string      `json:"organizationID"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"`
	Description     string      `json:"description"`
	SystemTag       *SystemTag  `json:"systemTag,omitempty"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}
