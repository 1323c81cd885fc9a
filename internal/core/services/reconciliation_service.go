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

const defaultReconciliationPageSize = 20

// autoMatchConfidence is the score recorded for exact date+amount matches.
var autoMatchConfidence = decimal.NewFromInt(1)

// ReconciliationService handles bank reconciliation sessions and matching.
type ReconciliationService struct {
	reconRepo   portsrepo.ReconciliationRepositoryFacade
	bankTxnRepo portsrepo.BankTransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	journalSvc  portssvc.JournalWriterSvc
	orgSvc      portssvc.OrganizationAuthorizer
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	rr portsrepo.ReconciliationRepositoryFacade,
	btr portsrepo.BankTransactionRepositoryFacade,
	ar portsrepo.AccountRepositoryFacade,
	jr portsrepo.JournalRepositoryFacade,
	journalSvc portssvc.JournalWriterSvc,
	orgSvc portssvc.OrganizationAuthorizer,
) portssvc.ReconciliationSvcFacade {
	return &ReconciliationService{
		reconRepo:   rr,
		bankTxnRepo: btr,
		accountRepo: ar,
		journalRepo: jr,
		journalSvc:  journalSvc,
		orgSvc:      orgSvc,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)

// findOpenReconciliation loads a reconciliation and checks it is still in progress.
func (s *ReconciliationService) findOpenReconciliation(ctx context.Context, organizationID string, reconciliationID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconInProgress {
		return nil, fmt.Errorf("%w: reconciliation is %s", apperrors.ErrValidation, recon.Status)
	}
	return recon, nil
}

// StartReconciliation opens a session against a statement balance. The book
// balance is the ledger account balance as of the statement date.
func (s *ReconciliationService) StartReconciliation(ctx context.Context, organizationID string, req dto.StartReconciliationRequest, creatorUserID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, organizationID, req.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, req.AccountID)
		}
		return nil, err
	}

	statementDate := req.StatementDate
	bookBalance, err := s.accountRepo.CalculateAccountBalance(ctx, organizationID, req.AccountID, &statementDate)
	if err != nil {
		logger.Error("Failed to calculate book balance", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, err
	}

	now := time.Now()
	recon := domain.BankReconciliation{
		ReconciliationID:       uuid.NewString(),
		OrganizationID:         organizationID,
		AccountID:              req.AccountID,
		ReconciliationDate:     now,
		StatementDate:          req.StatementDate,
		StatementEndingBalance: req.StatementEndingBalance,
		BookEndingBalance:      bookBalance,
		Difference:             req.StatementEndingBalance.Sub(bookBalance),
		Status:                 domain.ReconInProgress,
		Notes:                  req.Notes,
		Version:                1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, recon); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, err
	}

	logger.Info("Reconciliation started",
		slog.String("reconciliation_id", recon.ReconciliationID),
		slog.String("account_id", recon.AccountID),
		slog.String("difference", recon.Difference.String()))
	return &recon, nil
}

// GetReconciliationByID retrieves a reconciliation with its matches.
func (s *ReconciliationService) GetReconciliationByID(ctx context.Context, organizationID string, reconciliationID string, requestingUserID string) (*domain.BankReconciliation, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.reconRepo.FindReconciliationByID(ctx, organizationID, reconciliationID)
}

// ListReconciliations retrieves reconciliations, newest first.
func (s *ReconciliationService) ListReconciliations(ctx context.Context, organizationID string, requestingUserID string, params dto.ListReconciliationsParams) ([]domain.BankReconciliation, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultReconciliationPageSize
	}
	return s.reconRepo.ListReconciliations(ctx, organizationID, params.AccountID, limit)
}

// AutoMatch pairs unmatched bank transactions with journal lines of equal date
// and amount. A line already consumed by any match is never reused; when
// several candidates remain, the first wins.
func (s *ReconciliationService) AutoMatch(ctx context.Context, organizationID string, reconciliationID string, requestingUserID string) (*dto.AutoMatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	recon, err := s.findOpenReconciliation(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.bankTxnRepo.ListUnmatchedTransactions(ctx, organizationID, recon.AccountID, recon.StatementDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	matched := 0
	for _, txn := range transactions {
		debit := decimal.Zero
		credit := decimal.Zero
		if txn.Amount.IsPositive() {
			debit = txn.Amount
		} else {
			credit = txn.Amount.Abs()
		}

		candidates, err := s.reconRepo.FindCandidateLines(ctx, organizationID, recon.AccountID, txn.Date, debit, credit)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}

		match := domain.ReconciliationMatch{
			MatchID:           uuid.NewString(),
			ReconciliationID:  reconciliationID,
			BankTransactionID: txn.TransactionID,
			JournalLineItemID: candidates[0].LineItemID,
			MatchType:         domain.MatchAutomatic,
			ConfidenceScore:   autoMatchConfidence,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		}
		if err := s.reconRepo.SaveMatch(ctx, match); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return nil, err
		}
		if err := s.bankTxnRepo.UpdateBankTransactionStatus(ctx, txn.TransactionID, domain.TxnMatched, txn.Version, requestingUserID, now); err != nil {
			logger.Error("Failed to mark bank transaction matched", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
			return nil, err
		}
		matched++
	}

	logger.Info("Auto match completed", slog.String("reconciliation_id", reconciliationID), slog.Int("matched", matched))
	return &dto.AutoMatchResult{Matched: matched}, nil
}

// ManualMatch pairs one bank transaction with one journal line.
func (s *ReconciliationService) ManualMatch(ctx context.Context, organizationID string, reconciliationID string, req dto.ManualMatchRequest, requestingUserID string) (*domain.ReconciliationMatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	recon, err := s.findOpenReconciliation(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}

	txn, err := s.bankTxnRepo.FindBankTransactionByID(ctx, organizationID, req.BankTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.AccountID != recon.AccountID {
		return nil, fmt.Errorf("%w: bank transaction belongs to a different account", apperrors.ErrValidation)
	}
	if !txn.Status.CanTransitionTo(domain.TxnMatched) {
		return nil, fmt.Errorf("%w: bank transaction is %s", apperrors.ErrValidation, txn.Status)
	}

	line, err := s.journalRepo.FindLineItemByID(ctx, req.JournalLineItemID)
	if err != nil {
		return nil, err
	}
	if line.AccountID != recon.AccountID {
		return nil, fmt.Errorf("%w: journal line is not on the reconciled account", apperrors.ErrValidation)
	}

	now := time.Now()
	match := domain.ReconciliationMatch{
		MatchID:           uuid.NewString(),
		ReconciliationID:  reconciliationID,
		BankTransactionID: req.BankTransactionID,
		JournalLineItemID: req.JournalLineItemID,
		MatchType:         domain.MatchManual,
		ConfidenceScore:   autoMatchConfidence,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.reconRepo.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	version := req.Version
	if version == 0 {
		version = txn.Version
	}
	if err := s.bankTxnRepo.UpdateBankTransactionStatus(ctx, req.BankTransactionID, domain.TxnMatched, version, requestingUserID, now); err != nil {
		logger.Error("Failed to mark bank transaction matched", slog.String("error", err.Error()), slog.String("transaction_id", req.BankTransactionID))
		return nil, err
	}

	logger.Info("Manual match created", slog.String("reconciliation_id", reconciliationID), slog.String("transaction_id", req.BankTransactionID))
	return &match, nil
}

// Unmatch releases a bank transaction back to unmatched and removes its match.
func (s *ReconciliationService) Unmatch(ctx context.Context, organizationID string, reconciliationID string, req dto.UnmatchRequest, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if _, err := s.findOpenReconciliation(ctx, organizationID, reconciliationID); err != nil {
		return err
	}

	txn, err := s.bankTxnRepo.FindBankTransactionByID(ctx, organizationID, req.BankTransactionID)
	if err != nil {
		return err
	}

	match, err := s.reconRepo.FindMatchByBankTransaction(ctx, reconciliationID, req.BankTransactionID)
	if err != nil {
		return err
	}

	if err := s.reconRepo.DeleteMatch(ctx, match.MatchID); err != nil {
		return err
	}

	version := req.Version
	if version == 0 {
		version = txn.Version
	}
	if err := s.bankTxnRepo.UpdateBankTransactionStatus(ctx, req.BankTransactionID, domain.TxnUnmatched, version, requestingUserID, time.Now()); err != nil {
		logger.Error("Failed to release bank transaction", slog.String("error", err.Error()), slog.String("transaction_id", req.BankTransactionID))
		return err
	}

	logger.Info("Bank transaction unmatched", slog.String("reconciliation_id", reconciliationID), slog.String("transaction_id", req.BankTransactionID))
	return nil
}

// CreateEntryFromTransaction posts a balanced two-line journal entry explaining
// an unexplained bank transaction and matches it: a deposit debits the bank
// account and credits the contra account, a withdrawal does the reverse.
func (s *ReconciliationService) CreateEntryFromTransaction(ctx context.Context, organizationID string, reconciliationID string, req dto.CreateEntryFromTransactionRequest, requestingUserID string) (*domain.ReconciliationMatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	recon, err := s.findOpenReconciliation(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}

	txn, err := s.bankTxnRepo.FindBankTransactionByID(ctx, organizationID, req.BankTransactionID)
	if err != nil {
		return nil, err
	}
	if txn.AccountID != recon.AccountID {
		return nil, fmt.Errorf("%w: bank transaction belongs to a different account", apperrors.ErrValidation)
	}
	if !txn.Status.CanTransitionTo(domain.TxnMatched) {
		return nil, fmt.Errorf("%w: bank transaction is %s", apperrors.ErrValidation, txn.Status)
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, organizationID, req.ContraAccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: contra account %s not found", apperrors.ErrValidation, req.ContraAccountID)
		}
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = txn.Description
	}

	amount := txn.Amount.Abs()
	var lines []domain.JournalLineItem
	if txn.Amount.IsPositive() {
		lines = []domain.JournalLineItem{
			{AccountID: recon.AccountID, Description: description, Debit: amount},
			{AccountID: req.ContraAccountID, Description: description, Credit: amount},
		}
	} else {
		lines = []domain.JournalLineItem{
			{AccountID: req.ContraAccountID, Description: description, Debit: amount},
			{AccountID: recon.AccountID, Description: description, Credit: amount},
		}
	}

	sourceID := recon.ReconciliationID
	entry, err := s.journalSvc.PostEntry(ctx, organizationID, portssvc.PostEntryInput{
		Date:        txn.Date,
		Reference:   txn.Reference,
		Description: description,
		SourceType:  domain.SourceReconciliation,
		SourceID:    &sourceID,
		LineItems:   lines,
	}, requestingUserID)
	if err != nil {
		logger.Error("Failed to post entry from bank transaction", slog.String("error", err.Error()), slog.String("transaction_id", req.BankTransactionID))
		return nil, err
	}

	var bankLineID string
	for _, line := range entry.LineItems {
		if line.AccountID == recon.AccountID {
			bankLineID = line.LineItemID
			break
		}
	}

	now := time.Now()
	match := domain.ReconciliationMatch{
		MatchID:           uuid.NewString(),
		ReconciliationID:  reconciliationID,
		BankTransactionID: req.BankTransactionID,
		JournalLineItemID: bankLineID,
		MatchType:         domain.MatchCreated,
		ConfidenceScore:   autoMatchConfidence,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.reconRepo.SaveMatch(ctx, match); err != nil {
		return nil, err
	}

	version := req.Version
	if version == 0 {
		version = txn.Version
	}
	if err := s.bankTxnRepo.UpdateBankTransactionStatus(ctx, req.BankTransactionID, domain.TxnMatched, version, requestingUserID, now); err != nil {
		logger.Error("Failed to mark bank transaction matched", slog.String("error", err.Error()), slog.String("transaction_id", req.BankTransactionID))
		return nil, err
	}

	logger.Info("Entry created from bank transaction",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("transaction_id", req.BankTransactionID),
		slog.String("entry_id", entry.EntryID))
	return &match, nil
}

// Complete closes the reconciliation once the statement balance is explained:
// the final difference is the statement ending balance less the session's book
// balance and the amounts of all matched transactions, and must fall within
// the tolerance. Matched transactions become reconciled.
func (s *ReconciliationService) Complete(ctx context.Context, organizationID string, reconciliationID string, req dto.CompleteReconciliationRequest, requestingUserID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	recon, err := s.findOpenReconciliation(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}

	matchedTotal, err := s.reconRepo.SumMatchedAmounts(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	difference := recon.StatementEndingBalance.Sub(recon.BookEndingBalance.Add(matchedTotal))
	if difference.Abs().GreaterThanOrEqual(domain.ReconciliationTolerance) {
		return nil, fmt.Errorf("%w: reconciliation difference %s exceeds tolerance", apperrors.ErrValidation, difference)
	}

	matches, err := s.reconRepo.FindMatchesByReconciliationID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, match := range matches {
		txn, err := s.bankTxnRepo.FindBankTransactionByID(ctx, organizationID, match.BankTransactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !txn.Status.CanTransitionTo(domain.TxnReconciled) {
			continue
		}
		if err := s.bankTxnRepo.UpdateBankTransactionStatus(ctx, txn.TransactionID, domain.TxnReconciled, txn.Version, requestingUserID, now); err != nil {
			logger.Error("Failed to mark bank transaction reconciled", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
			return nil, err
		}
	}

	version := req.Version
	if version == 0 {
		version = recon.Version
	}
	if err := s.reconRepo.UpdateReconciliationStatus(ctx, reconciliationID, domain.ReconCompleted, difference, version, requestingUserID, now); err != nil {
		return nil, err
	}

	recon.Status = domain.ReconCompleted
	recon.Difference = difference
	recon.Version = version + 1
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = requestingUserID

	logger.Info("Reconciliation completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("difference", difference.String()))
	return recon, nil
}

// Discard abandons the session, deleting its matches and releasing the bank
// transactions they consumed.
func (s *ReconciliationService) Discard(ctx context.Context, organizationID string, reconciliationID string, req dto.DiscardReconciliationRequest, requestingUserID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	recon, err := s.findOpenReconciliation(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}

	matches, err := s.reconRepo.FindMatchesByReconciliationID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, match := range matches {
		txn, err := s.bankTxnRepo.FindBankTransactionByID(ctx, organizationID, match.BankTransactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !txn.Status.CanTransitionTo(domain.TxnUnmatched) {
			continue
		}
		if err := s.bankTxnRepo.UpdateBankTransactionStatus(ctx, txn.TransactionID, domain.TxnUnmatched, txn.Version, requestingUserID, now); err != nil {
			logger.Error("Failed to release bank transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
			return nil, err
		}
	}

	if err := s.reconRepo.DeleteMatchesByReconciliation(ctx, reconciliationID); err != nil {
		return nil, err
	}

	version := req.Version
	if version == 0 {
		version = recon.Version
	}
	if err := s.reconRepo.UpdateReconciliationStatus(ctx, reconciliationID, domain.ReconDiscarded, recon.Difference, version, requestingUserID, now); err != nil {
		return nil, err
	}

	recon.Status = domain.ReconDiscarded
	recon.Version = version + 1
	recon.Matches = nil
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = requestingUserID

	logger.Info("Reconciliation discarded", slog.String("reconciliation_id", reconciliationID), slog.Int("released", len(matches)))
	return recon, nil
}

// Summary aggregates per-account reconciliation progress.
func (s *ReconciliationService) Summary(ctx context.Context, organizationID string, accountID *string, requestingUserID string) ([]dto.ReconciliationAccountSummary, error) {
	if err := s.orgSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	rows, err := s.reconRepo.Summary(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReconciliationAccountSummary, len(rows))
	for i, row := range rows {
		out[i] = dto.ReconciliationAccountSummary{
			AccountID:        row.AccountID,
			TotalCount:       row.TotalCount,
			ReconciledCount:  row.ReconciledCount,
			UnmatchedCount:   row.UnmatchedCount,
			ReconciledAmount: row.ReconciledAmount,
			UnmatchedAmount:  row.UnmatchedAmount,
		}
	}
	return out, nil
}
