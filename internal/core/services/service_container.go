package services

import (
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/pkg/config"
)

// NewServiceContainer wires the services against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	orgSvc := NewOrganizationService(repos.OrganizationRepo, repos.UserRepo)
	accountSvc := NewAccountService(repos.AccountRepo, orgSvc)
	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo, orgSvc)

	return &portssvc.ServiceContainer{
		Auth:         NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
		User:         NewUserService(repos.UserRepo),
		Organization: orgSvc,
		Account:      accountSvc,
		Customer:     NewCustomerService(repos.CustomerRepo, orgSvc),
		Vendor:       NewVendorService(repos.VendorRepo, orgSvc),
		Item:         NewItemService(repos.ItemRepo, repos.AccountRepo, orgSvc),
		TaxCode:      NewTaxCodeService(repos.TaxCodeRepo, orgSvc),
		Journal:      journalSvc,
		Invoice: NewInvoiceService(
			repos.InvoiceRepo, repos.CustomerRepo, repos.ItemRepo, repos.TaxCodeRepo,
			repos.JournalRepo, journalSvc, accountSvc, orgSvc),
		Payment: NewPaymentService(
			repos.PaymentRepo, repos.InvoiceRepo, repos.CustomerRepo, repos.AccountRepo,
			repos.JournalRepo, journalSvc, accountSvc, orgSvc),
		Banking: NewBankingService(repos.BankAccountRepo, repos.BankTransactionRepo, repos.AccountRepo, orgSvc),
		Reconciliation: NewReconciliationService(
			repos.ReconciliationRepo, repos.BankTransactionRepo, repos.AccountRepo,
			repos.JournalRepo, journalSvc, orgSvc),
		Reporting: NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.CustomerRepo, orgSvc),
	}
}
