package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quollbooks/quollbooks/internal/apperrors"
	"github.com/quollbooks/quollbooks/internal/core/domain"
	portsrepo "github.com/quollbooks/quollbooks/internal/core/ports/repositories"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/middleware"
	"github.com/shopspring/decimal"
)

const defaultInvoicePageSize = 50

var percentDivisor = decimal.NewFromInt(100)

// InvoiceService handles the invoice lifecycle and its journal postings.
type InvoiceService struct {
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
	itemRepo     portsrepo.ItemRepositoryFacade
	taxCodeRepo  portsrepo.TaxCodeRepositoryFacade
	journalRepo  portsrepo.JournalRepositoryFacade
	journalSvc   portssvc.JournalWriterSvc
	accountSvc   portssvc.AccountSvcFacade
	orgSvc       portssvc.OrganizationAuthorizer
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	ir portsrepo.InvoiceRepositoryFacade,
	cr portsrepo.CustomerRepositoryFacade,
	itr portsrepo.ItemRepositoryFacade,
	tr portsrepo.TaxCodeRepositoryFacade,
	jr portsrepo.JournalRepositoryFacade,
	journalSvc portssvc.JournalWriterSvc,
	accountSvc portssvc.AccountSvcFacade,
	orgSvc portssvc.OrganizationAuthorizer,
) portssvc.InvoiceSvcFacade {
	return &InvoiceService{
		invoiceRepo:  ir,
		customerRepo: cr,
		itemRepo:     itr,
		taxCodeRepo:  tr,
		journalRepo:  jr,
		journalSvc:   journalSvc,
		accountSvc:   accountSvc,
		orgSvc:       orgSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*InvoiceService)(nil)

// buildInvoiceLines computes amounts and tax per line from quantity, rate and
// the referenced tax code.
func (s *InvoiceService) buildInvoiceLines(ctx context.Context, organizationID string, invoiceID string, reqs []dto.InvoiceLineRequest) ([]domain.InvoiceLineItem, error) {
	lines := make([]domain.InvoiceLineItem, len(reqs))
	for i, req := range reqs {
		if req.Quantity.IsNegative() || req.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: line quantity and rate cannot be negative", apperrors.ErrValidation)
		}
		if req.ItemID != nil {
			if _, err := s.itemRepo.FindItemByID(ctx, organizationID, *req.ItemID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: item %s not found", apperrors.ErrValidation, *req.ItemID)
				}
				return nil, err
			}
		}

		amount := req.Quantity.Mul(req.Rate).Round(2)
		taxRate := decimal.Zero
		taxAmount := decimal.Zero
		if req.TaxCodeID != nil {
			taxCode, err := s.taxCodeRepo.FindTaxCodeByID(ctx, organizationID, *req.TaxCodeID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: tax code %s not found", apperrors.ErrValidation, *req.TaxCodeID)
				}
				return nil, err
			}
			taxRate = taxCode.Rate
			taxAmount = amount.Mul(taxRate).Div(percentDivisor).Round(2)
		}

		lines[i] = domain.InvoiceLineItem{
			LineItemID:  uuid.NewString(),
			InvoiceID:   invoiceID,
			ItemID:      req.ItemID,
			Description: req.Description,
			Quantity:    req.Quantity,
			Rate:        req.Rate,
			Amount:      amount,
			TaxCodeID:   req.TaxCodeID,
			TaxRate:     taxRate,
			TaxAmount:   taxAmount,
		}
	}
	return lines, nil
}

// applyTotals recomputes the invoice header totals from its lines.
func applyTotals(invoice *domain.Invoice, discount decimal.Decimal) error {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, line := range invoice.LineItems {
		subtotal = subtotal.Add(line.Amount)
		taxTotal = taxTotal.Add(line.TaxAmount)
	}
	if discount.IsNegative() {
		return fmt.Errorf("%w: discount amount cannot be negative", apperrors.ErrValidation)
	}
	if discount.GreaterThan(subtotal) {
		return fmt.Errorf("%w: discount %s exceeds subtotal %s", apperrors.ErrValidation, discount, subtotal)
	}
	invoice.Subtotal = subtotal
	invoice.TaxAmount = taxTotal
	invoice.DiscountAmount = discount
	invoice.Total = subtotal.Sub(discount).Add(taxTotal)
	invoice.Balance = invoice.Total.Sub(invoice.PaidAmount)
	return nil
}

// CreateInvoice creates a draft invoice.
func (s *InvoiceService) CreateInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.DueDate.Before(req.InvoiceDate) {
		return nil, fmt.Errorf("%w: due date cannot precede the invoice date", apperrors.ErrValidation)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, organizationID, req.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s not found", apperrors.ErrValidation, req.CustomerID)
		}
		return nil, err
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: customer %s is inactive", apperrors.ErrValidation, customer.DisplayName)
	}

	currency := req.Currency
	if currency == "" {
		currency = customer.Currency
	}
	discount := decimal.Zero
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}

	invoiceNumber, err := s.invoiceRepo.NextInvoiceNumber(ctx, organizationID)
	if err != nil {
		logger.Error("Failed to get next invoice number", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, err
	}

	now := time.Now()
	invoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: organizationID,
		InvoiceNumber:  invoiceNumber,
		Reference:      req.Reference,
		InvoiceDate:    req.InvoiceDate,
		DueDate:        req.DueDate,
		CustomerID:     req.CustomerID,
		PaidAmount:     decimal.Zero,
		Currency:       currency,
		Status:         domain.InvoiceDraft,
		Terms:          req.Terms,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	invoice.LineItems, err = s.buildInvoiceLines(ctx, organizationID, invoice.InvoiceID, req.LineItems)
	if err != nil {
		return nil, err
	}
	if err := applyTotals(&invoice, discount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("invoice_number", invoiceNumber))
		return nil, err
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice with its line items.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.invoiceRepo.FindInvoiceByID(ctx, organizationID, invoiceID)
}

// ListInvoices retrieves a page of invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context, organizationID string, requestingUserID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultInvoicePageSize
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, organizationID, portsrepo.ListInvoicesFilter{
		Status:     params.Status,
		CustomerID: params.CustomerID,
		DateFrom:   params.DateFrom,
		DateTo:     params.DateTo,
		Search:     params.Search,
		Limit:      limit,
		NextToken:  params.NextToken,
	})
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return &dto.ListInvoicesResponse{Invoices: invoices, NextToken: nextToken}, nil
}

// UpdateInvoice rewrites invoice details. Only draft and sent invoices without
// payments may change.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, organizationID string, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: only draft invoices can be edited, invoice %s is %s", apperrors.ErrValidation, invoice.InvoiceNumber, invoice.Status)
	}

	if req.InvoiceDate != nil {
		invoice.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if invoice.DueDate.Before(invoice.InvoiceDate) {
		return nil, fmt.Errorf("%w: due date cannot precede the invoice date", apperrors.ErrValidation)
	}
	if req.Reference != nil {
		invoice.Reference = *req.Reference
	}
	if req.Terms != nil {
		invoice.Terms = *req.Terms
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.LineItems != nil {
		invoice.LineItems, err = s.buildInvoiceLines(ctx, organizationID, invoice.InvoiceID, req.LineItems)
		if err != nil {
			return nil, err
		}
	}
	discount := invoice.DiscountAmount
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}
	if err := applyTotals(invoice, discount); err != nil {
		return nil, err
	}
	invoice.LastUpdatedAt = time.Now()
	invoice.LastUpdatedBy = requestingUserID

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
		logger.Error("Failed to update invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return invoice, nil
}

// DeleteInvoice removes a draft invoice. Posted invoices are cancelled instead.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, organizationID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceDraft {
		return fmt.Errorf("%w: only draft invoices can be deleted, invoice %s is %s", apperrors.ErrValidation, invoice.InvoiceNumber, invoice.Status)
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, organizationID, invoiceID); err != nil {
		logger.Error("Failed to delete invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return err
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return nil
}

// SendInvoice transitions DRAFT to SENT and posts the receivable entry:
// debit accounts receivable for the total, credit sales for the net amount and
// credit GST collected for the tax.
func (s *InvoiceService) SendInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(domain.InvoiceSent) || invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice %s cannot be sent from status %s", apperrors.ErrValidation, invoice.InvoiceNumber, invoice.Status)
	}

	receivable, err := s.accountSvc.ResolveTaggedAccount(ctx, organizationID, domain.TagReceivable, requestingUserID)
	if err != nil {
		return nil, err
	}
	sales, err := s.accountSvc.ResolveTaggedAccount(ctx, organizationID, domain.TagSales, requestingUserID)
	if err != nil {
		return nil, err
	}

	contactType := domain.ContactCustomer
	customerID := invoice.CustomerID
	lines := []domain.JournalLineItem{
		{
			AccountID:   receivable.AccountID,
			Description: fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
			Debit:       invoice.Total,
			ContactType: &contactType,
			ContactID:   &customerID,
		},
		{
			AccountID:   sales.AccountID,
			Description: fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
			Credit:      invoice.Subtotal.Sub(invoice.DiscountAmount),
			ContactType: &contactType,
			ContactID:   &customerID,
		},
	}
	if invoice.TaxAmount.IsPositive() {
		gstCollected, err := s.accountSvc.ResolveTaggedAccount(ctx, organizationID, domain.TagGSTCollected, requestingUserID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalLineItem{
			AccountID:   gstCollected.AccountID,
			Description: fmt.Sprintf("GST on invoice %s", invoice.InvoiceNumber),
			Credit:      invoice.TaxAmount,
			ContactType: &contactType,
			ContactID:   &customerID,
		})
	}

	sourceID := invoice.InvoiceID
	if _, err := s.journalSvc.PostEntry(ctx, organizationID, portssvc.PostEntryInput{
		Date:        invoice.InvoiceDate,
		Reference:   invoice.InvoiceNumber,
		Description: fmt.Sprintf("Invoice %s issued", invoice.InvoiceNumber),
		SourceType:  domain.SourceInvoice,
		SourceID:    &sourceID,
		LineItems:   lines,
	}, requestingUserID); err != nil {
		logger.Error("Failed to post invoice journal entry", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	now := time.Now()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, organizationID, invoiceID, domain.InvoiceSent, requestingUserID, now); err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceSent
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return invoice, nil
}

// CancelInvoice voids an unpaid invoice and removes its journal entries.
func (s *InvoiceService) CancelInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(domain.InvoiceCancelled) {
		return nil, fmt.Errorf("%w: invoice %s cannot be cancelled from status %s", apperrors.ErrValidation, invoice.InvoiceNumber, invoice.Status)
	}
	if invoice.PaidAmount.IsPositive() {
		return nil, fmt.Errorf("%w: invoice %s has payments applied, remove them first", apperrors.ErrConflict, invoice.InvoiceNumber)
	}

	if err := s.journalRepo.DeleteEntriesBySource(ctx, organizationID, domain.SourceInvoice, invoiceID); err != nil {
		logger.Error("Failed to delete invoice journal entries", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	now := time.Now()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, organizationID, invoiceID, domain.InvoiceCancelled, requestingUserID, now); err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceCancelled
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return invoice, nil
}

// GetInvoiceStats aggregates invoice counts and totals by status.
func (s *InvoiceService) GetInvoiceStats(ctx context.Context, organizationID string, requestingUserID string) (*dto.InvoiceStatsResponse, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	stats, err := s.invoiceRepo.StatsByStatus(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InvoiceStatsResponse{
		ByStatus:    make([]dto.InvoiceStatusStat, len(stats)),
		TotalAmount: decimal.Zero,
	}
	for i, stat := range stats {
		resp.ByStatus[i] = dto.InvoiceStatusStat{
			Status: stat.Status,
			Count:  stat.Count,
			Total:  stat.Total,
		}
		resp.TotalCount += stat.Count
		resp.TotalAmount = resp.TotalAmount.Add(stat.Total)
	}
	return resp, nil
}

// MarkOverdueInvoices flips open invoices past their due date to OVERDUE across
// all organizations.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoices, err := s.invoiceRepo.ListPastDueInvoices(ctx, asOf)
	if err != nil {
		logger.Error("Failed to list past due invoices", slog.String("error", err.Error()))
		return 0, err
	}

	updated := 0
	for _, invoice := range invoices {
		if !invoice.Status.CanTransitionTo(domain.InvoiceOverdue) {
			continue
		}
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoice.OrganizationID, invoice.InvoiceID, domain.InvoiceOverdue, "system", asOf); err != nil {
			logger.Error("Failed to mark invoice overdue", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
			continue
		}
		updated++
	}

	if updated > 0 {
		logger.Info("Marked invoices overdue", slog.Int("count", updated))
	}
	return updated, nil
}
