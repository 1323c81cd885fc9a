package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quollbooks/quollbooks/internal/apperrors"
	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
	"github.com/quollbooks/quollbooks/internal/importer"
)

// maxStatementSize caps uploaded statement files at 10 MiB.
const maxStatementSize = 10 << 20

// bankingHandler handles bank account and bank transaction routes.
type bankingHandler struct {
	bankingService portssvc.BankingSvcFacade
}

func newBankingHandler(bs portssvc.BankingSvcFacade) *bankingHandler {
	return &bankingHandler{bankingService: bs}
}

func registerBankingRoutes(rg *gin.RouterGroup, bankingService portssvc.BankingSvcFacade) {
	h := newBankingHandler(bankingService)

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:bank_account_id", h.getBankAccount)
		bankAccounts.PUT("/:bank_account_id/feeds", h.setFeedsPaused)
		bankAccounts.POST("/:bank_account_id/import", h.importStatement)
	}

	transactions := rg.Group("/bank-transactions")
	{
		transactions.GET("", h.listBankTransactions)
		transactions.GET("/:transaction_id", h.getBankTransaction)
	}
}

func (h *bankingHandler) createBankAccount(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bankAccount, err := h.bankingService.CreateBankAccount(c.Request.Context(), orgID(c), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(bankAccount, "bank account created"))
}

func (h *bankingHandler) listBankAccounts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	bankAccounts, err := h.bankingService.ListBankAccounts(c.Request.Context(), orgID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(bankAccounts, ""))
}

func (h *bankingHandler) getBankAccount(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	bankAccount, err := h.bankingService.GetBankAccountByID(c.Request.Context(), orgID(c), c.Param("bank_account_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(bankAccount, ""))
}

func (h *bankingHandler) setFeedsPaused(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req struct {
		Paused *bool `json:"paused" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bankAccount, err := h.bankingService.SetFeedsPaused(c.Request.Context(), orgID(c), c.Param("bank_account_id"), *req.Paused, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(bankAccount, "bank feeds updated"))
}

// importStatement accepts a multipart upload under the "file" field, parses it
// as a CSV or XLSX statement and ingests the rows.
func (h *bankingHandler) importStatement(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBindError(c, err)
		return
	}
	if fileHeader.Size > maxStatementSize {
		respondError(c, fmt.Errorf("%w: statement file exceeds %d bytes", apperrors.ErrValidation, maxStatementSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	rows, err := importer.Parse(fileHeader.Filename, file)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.bankingService.ImportStatement(c.Request.Context(), orgID(c), c.Param("bank_account_id"), rows, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result, "statement imported"))
}

func (h *bankingHandler) listBankTransactions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListBankTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.bankingService.ListBankTransactions(c.Request.Context(), orgID(c), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

func (h *bankingHandler) getBankTransaction(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	txn, err := h.bankingService.GetBankTransactionByID(c.Request.Context(), orgID(c), c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(txn, ""))
}
