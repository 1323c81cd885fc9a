package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth           AuthSvcFacade
	User           UserSvcFacade
	Organization   OrganizationSvcFacade
	Account        AccountSvcFacade
	Customer       CustomerSvcFacade
	Vendor         VendorSvcFacade
	Item           ItemSvcFacade
	TaxCode        TaxCodeSvcFacade
	Journal        JournalSvcFacade
	Invoice        InvoiceSvcFacade
	Payment        PaymentSvcFacade
	Banking        BankingSvcFacade
	Reconciliation ReconciliationSvcFacade
	Reporting      ReportingSvcFacade
}
