package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:            newPgxUserRepository(dbPool),
		OrganizationRepo:    newPgxOrganizationRepository(dbPool),
		AccountRepo:         newPgxAccountRepository(dbPool),
		CustomerRepo:        newPgxCustomerRepository(dbPool),
		VendorRepo:          newPgxVendorRepository(dbPool),
		ItemRepo:            newPgxItemRepository(dbPool),
		TaxCodeRepo:         newPgxTaxCodeRepository(dbPool),
		JournalRepo:         newPgxJournalRepository(dbPool),
		InvoiceRepo:         newPgxInvoiceRepository(dbPool),
		PaymentRepo:         newPgxPaymentRepository(dbPool),
		BankAccountRepo:     newPgxBankAccountRepository(dbPool),
		BankTransactionRepo: newPgxBankTransactionRepository(dbPool),
		ReconciliationRepo:  newPgxReconciliationRepository(dbPool),
		ReportingRepo:       newPgxReportingRepository(dbPool),
	}
}
