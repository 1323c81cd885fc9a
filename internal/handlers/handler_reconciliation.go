package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// reconciliationHandler handles bank reconciliation routes.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconService: rs}
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconService)

	recons := rg.Group("/reconciliations")
	{
		recons.POST("", h.startReconciliation)
		recons.GET("", h.listReconciliations)
		recons.GET("/summary", h.summary)
		recons.GET("/:reconciliation_id", h.getReconciliation)
		recons.POST("/:reconciliation_id/auto-match", h.autoMatch)
		recons.POST("/:reconciliation_id/match", h.manualMatch)
		recons.POST("/:reconciliation_id/unmatch", h.unmatch)
		recons.POST("/:reconciliation_id/create-entry", h.createEntryFromTransaction)
		recons.POST("/:reconciliation_id/complete", h.complete)
		recons.POST("/:reconciliation_id/discard", h.discard)
	}
}

func (h *reconciliationHandler) startReconciliation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recon, err := h.reconService.StartReconciliation(c.Request.Context(), orgID(c), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(recon, "reconciliation started"))
}

func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListReconciliationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	recons, err := h.reconService.ListReconciliations(c.Request.Context(), orgID(c), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(recons, ""))
}

func (h *reconciliationHandler) summary(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var accountID *string
	if raw := c.Query("accountID"); raw != "" {
		accountID = &raw
	}

	summaries, err := h.reconService.Summary(c.Request.Context(), orgID(c), accountID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(summaries, ""))
}

func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	recon, err := h.reconService.GetReconciliationByID(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(recon, ""))
}

func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	result, err := h.reconService.AutoMatch(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result, "automatic matching finished"))
}

func (h *reconciliationHandler) manualMatch(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	match, err := h.reconService.ManualMatch(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(match, "transaction matched"))
}

func (h *reconciliationHandler) unmatch(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UnmatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.reconService.Unmatch(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), req, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "transaction unmatched"))
}

func (h *reconciliationHandler) createEntryFromTransaction(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEntryFromTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	match, err := h.reconService.CreateEntryFromTransaction(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(match, "journal entry created and matched"))
}

func (h *reconciliationHandler) complete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recon, err := h.reconService.Complete(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(recon, "reconciliation completed"))
}

func (h *reconciliationHandler) discard(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.DiscardReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recon, err := h.reconService.Discard(c.Request.Context(), orgID(c), c.Param("reconciliation_id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(recon, "reconciliation discarded"))
}
