package services_test

import (
	"context"
	"time"

	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// decimalEqual matches a decimal.Decimal argument by value rather than by its
// internal representation.
func decimalEqual(n int64) interface{} {
	want := decimal.NewFromInt(n)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// --- Mock OrganizationAuthorizer ---

type MockOrganizationAuthorizer struct {
	mock.Mock
}

var _ portssvc.OrganizationAuthorizer = (*MockOrganizationAuthorizer)(nil)

func (m *MockOrganizationAuthorizer) AuthorizeUserAction(ctx context.Context, userID string, organizationID string, requiredRole domain.OrganizationRole) error {
	args := m.Called(ctx, userID, organizationID, requiredRole)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLineItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalLineItem, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLineItem), args.Error(1)
}

func (m *MockJournalRepository) FindLineItemsByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLineItem, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLineItem), args.Error(1)
}

func (m *MockJournalRepository) FindLineItemByID(ctx context.Context, lineItemID string) (*domain.JournalLineItem, error) {
	args := m.Called(ctx, lineItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalLineItem), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, filter portsrepo.ListEntriesFilter) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), nextToken, args.Error(2)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, organizationID string) (string, error) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) HasReconciliationMatches(ctx context.Context, entryID string) (bool, error) {
	args := m.Called(ctx, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, organizationID string, entryID string) error {
	args := m.Called(ctx, organizationID, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntriesBySource(ctx context.Context, organizationID string, sourceType domain.JournalSourceType, sourceID string) error {
	args := m.Called(ctx, organizationID, sourceType, sourceID)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, organizationID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountBySystemTag(ctx context.Context, organizationID string, tag domain.SystemTag) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CalculateAccountBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, organizationID string, accountID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, accountID, updatedBy, now)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, organizationID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, organizationID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, organizationID string, filter portsrepo.ListInvoicesFilter) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), nextToken, args.Error(2)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, organizationID string) (string, error) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) StatsByStatus(ctx context.Context, organizationID string) ([]portsrepo.InvoiceStats, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.InvoiceStats), args.Error(1)
}

func (m *MockInvoiceRepository) ListPastDueInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListOpenInvoicesByCustomer(ctx context.Context, organizationID string, customerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, organizationID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, organizationID string, invoiceID string, status domain.InvoiceStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, invoiceID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoicePayment(ctx context.Context, organizationID string, invoiceID string, paidAmount, balance decimal.Decimal, status domain.InvoiceStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, invoiceID, paidAmount, balance, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, organizationID string, invoiceID string) error {
	args := m.Called(ctx, organizationID, invoiceID)
	return args.Error(0)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, organizationID string, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, organizationID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, organizationID string, customerID *string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, organizationID, customerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Payment), returnedNextToken, args.Error(2)
}

func (m *MockPaymentRepository) NextPaymentNumber(ctx context.Context, organizationID string) (string, error) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, organizationID string, paymentID string) error {
	args := m.Called(ctx, organizationID, paymentID)
	return args.Error(0)
}

// --- Mock CustomerRepository ---

type MockCustomerRepository struct {
	mock.Mock
}

var _ portsrepo.CustomerRepositoryFacade = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, organizationID string, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, organizationID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, organizationID string, search string, limit int, nextToken *string) ([]domain.Customer, *string, error) {
	args := m.Called(ctx, organizationID, search, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Customer), returnedNextToken, args.Error(2)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeactivateCustomer(ctx context.Context, organizationID string, customerID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, customerID, updatedBy, now)
	return args.Error(0)
}

// --- Mock ItemRepository ---

type MockItemRepository struct {
	mock.Mock
}

var _ portsrepo.ItemRepositoryFacade = (*MockItemRepository)(nil)

func (m *MockItemRepository) FindItemByID(ctx context.Context, organizationID string, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, organizationID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) ListItems(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Item, error) {
	args := m.Called(ctx, organizationID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) UpdateItem(ctx context.Context, item domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) DeactivateItem(ctx context.Context, organizationID string, itemID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, itemID, updatedBy, now)
	return args.Error(0)
}

// --- Mock TaxCodeRepository ---

type MockTaxCodeRepository struct {
	mock.Mock
}

var _ portsrepo.TaxCodeRepositoryFacade = (*MockTaxCodeRepository)(nil)

func (m *MockTaxCodeRepository) FindTaxCodeByID(ctx context.Context, organizationID string, taxCodeID string) (*domain.TaxCode, error) {
	args := m.Called(ctx, organizationID, taxCodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxCode), args.Error(1)
}

func (m *MockTaxCodeRepository) FindTaxCodeByCode(ctx context.Context, organizationID string, code string) (*domain.TaxCode, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxCode), args.Error(1)
}

func (m *MockTaxCodeRepository) ListTaxCodes(ctx context.Context, organizationID string, includeInactive bool) ([]domain.TaxCode, error) {
	args := m.Called(ctx, organizationID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxCode), args.Error(1)
}

func (m *MockTaxCodeRepository) SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	args := m.Called(ctx, taxCode)
	return args.Error(0)
}

func (m *MockTaxCodeRepository) UpdateTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	args := m.Called(ctx, taxCode)
	return args.Error(0)
}

func (m *MockTaxCodeRepository) DeactivateTaxCode(ctx context.Context, organizationID string, taxCodeID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, organizationID, taxCodeID, updatedBy, now)
	return args.Error(0)
}

// --- Mock BankAccountRepository ---

type MockBankAccountRepository struct {
	mock.Mock
}

var _ portsrepo.BankAccountRepositoryFacade = (*MockBankAccountRepository)(nil)

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, organizationID string, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, organizationID, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccounts(ctx context.Context, organizationID string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock BankTransactionRepository ---

type MockBankTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.BankTransactionRepositoryFacade = (*MockBankTransactionRepository)(nil)

func (m *MockBankTransactionRepository) FindBankTransactionByID(ctx context.Context, organizationID string, transactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, organizationID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) ListBankTransactions(ctx context.Context, organizationID string, filter portsrepo.ListBankTransactionsFilter) ([]domain.BankTransaction, *string, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return args.Get(0).([]domain.BankTransaction), nextToken, args.Error(2)
}

func (m *MockBankTransactionRepository) ListUnmatchedTransactions(ctx context.Context, organizationID string, accountID string, asOf time.Time) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, organizationID, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankTransactionRepository) SaveBankTransactions(ctx context.Context, transactions []domain.BankTransaction) (int, error) {
	args := m.Called(ctx, transactions)
	return args.Int(0), args.Error(1)
}

func (m *MockBankTransactionRepository) UpdateBankTransactionStatus(ctx context.Context, transactionID string, status domain.BankTransactionStatus, expectedVersion int64, updatedBy string, now time.Time) error {
	args := m.Called(ctx, transactionID, status, expectedVersion, updatedBy, now)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, organizationID string, reconciliationID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, organizationID, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliations(ctx context.Context, organizationID string, accountID *string, limit int) ([]domain.BankReconciliation, error) {
	args := m.Called(ctx, organizationID, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.BankReconciliation) error {
	args := m.Called(ctx, recon)
	return args.Error(0)
}

func (m *MockReconciliationRepository) UpdateReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus, difference decimal.Decimal, expectedVersion int64, updatedBy string, now time.Time) error {
	args := m.Called(ctx, reconciliationID, status, difference, expectedVersion, updatedBy, now)
	return args.Error(0)
}

func (m *MockReconciliationRepository) SaveMatch(ctx context.Context, match domain.ReconciliationMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteMatch(ctx context.Context, matchID string) error {
	args := m.Called(ctx, matchID)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteMatchesByReconciliation(ctx context.Context, reconciliationID string) error {
	args := m.Called(ctx, reconciliationID)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindMatchesByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.ReconciliationMatch, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) FindMatchByBankTransaction(ctx context.Context, reconciliationID string, bankTransactionID string) (*domain.ReconciliationMatch, error) {
	args := m.Called(ctx, reconciliationID, bankTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) FindCandidateLines(ctx context.Context, organizationID string, accountID string, date time.Time, debit, credit decimal.Decimal) ([]domain.JournalLineItem, error) {
	args := m.Called(ctx, organizationID, accountID, date, debit, credit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLineItem), args.Error(1)
}

func (m *MockReconciliationRepository) SumMatchedAmounts(ctx context.Context, reconciliationID string) (decimal.Decimal, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReconciliationRepository) Summary(ctx context.Context, organizationID string, accountID *string) ([]portsrepo.ReconciliationAccountSummary, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.ReconciliationAccountSummary), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepositoryFacade = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) AccountMovements(ctx context.Context, organizationID string, from *time.Time, to time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) ListOpenInvoices(ctx context.Context, organizationID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockReportingRepository) SalesByTaxType(ctx context.Context, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TaxType]decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) PurchasesByTaxType(ctx context.Context, organizationID string, from, to time.Time) (map[domain.TaxType]decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TaxType]decimal.Decimal), args.Error(1)
}

// --- Mock JournalWriterSvc (as used by invoice, payment and reconciliation services) ---

type MockJournalWriterSvc struct {
	mock.Mock
}

var _ portssvc.JournalWriterSvc = (*MockJournalWriterSvc)(nil)

func (m *MockJournalWriterSvc) CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterSvc) PostEntry(ctx context.Context, organizationID string, input portssvc.PostEntryInput, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, input, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterSvc) DeleteEntry(ctx context.Context, organizationID string, entryID string, requestingUserID string) error {
	args := m.Called(ctx, organizationID, entryID, requestingUserID)
	return args.Error(0)
}

// --- Mock AccountSvc (as used by invoice and payment posting) ---

type MockAccountSvc struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountSvc)(nil)

func (m *MockAccountSvc) GetAccountByID(ctx context.Context, organizationID string, accountID string, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountIDs, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ListAccounts(ctx context.Context, organizationID string, includeInactive bool, requestingUserID string) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, includeInactive, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountBalance(ctx context.Context, organizationID string, accountID string, asOf *time.Time, requestingUserID string) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountID, asOf, requestingUserID)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountSvc) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) DeactivateAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string) error {
	args := m.Called(ctx, organizationID, accountID, requestingUserID)
	return args.Error(0)
}

func (m *MockAccountSvc) ResolveTaggedAccount(ctx context.Context, organizationID string, tag domain.SystemTag, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, tag, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
