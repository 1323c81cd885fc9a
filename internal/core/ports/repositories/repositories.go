package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// It's used for dependency injection into the service layer.
type RepositoryProvider struct {
	UserRepo            UserRepositoryFacade
	OrganizationRepo    OrganizationRepositoryFacade
	AccountRepo         AccountRepositoryFacade
	CustomerRepo        CustomerRepositoryFacade
	VendorRepo          VendorRepositoryFacade
	ItemRepo            ItemRepositoryFacade
	TaxCodeRepo         TaxCodeRepositoryFacade
	JournalRepo         JournalRepositoryFacade
	InvoiceRepo         InvoiceRepositoryFacade
	PaymentRepo         PaymentRepositoryFacade
	BankAccountRepo     BankAccountRepositoryFacade
	BankTransactionRepo BankTransactionRepositoryFacade
	ReconciliationRepo  ReconciliationRepositoryFacade
	ReportingRepo       ReportingRepositoryFacade
}
