package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// taxCodeHandler handles tax code routes.
type taxCodeHandler struct {
	taxCodeService portssvc.TaxCodeSvcFacade
}

func newTaxCodeHandler(ts portssvc.TaxCodeSvcFacade) *taxCodeHandler {
	return &taxCodeHandler{taxCodeService: ts}
}

func registerTaxCodeRoutes(rg *gin.RouterGroup, taxCodeService portssvc.TaxCodeSvcFacade) {
	h := newTaxCodeHandler(taxCodeService)

	taxCodes := rg.Group("/tax-codes")
	{
		taxCodes.POST("", h.createTaxCode)
		taxCodes.GET("", h.listTaxCodes)
		taxCodes.POST("/seed-defaults", h.seedDefaults)
		taxCodes.GET("/:tax_code_id", h.getTaxCode)
		taxCodes.PUT("/:tax_code_id", h.updateTaxCode)
		taxCodes.DELETE("/:tax_code_id", h.deactivateTaxCode)
	}
}

func (h *taxCodeHandler) createTaxCode(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTaxCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	taxCode, err := h.taxCodeService.CreateTaxCode(c.Request.Context(), orgID(c), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(taxCode, "tax code created"))
}

func (h *taxCodeHandler) listTaxCodes(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"
	taxCodes, err := h.taxCodeService.ListTaxCodes(c.Request.Context(), orgID(c), includeInactive, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(taxCodes, ""))
}

// seedDefaults creates the standard Australian GST code set for the
// organization, skipping codes that already exist.
func (h *taxCodeHandler) seedDefaults(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	created, err := h.taxCodeService.SeedAustralianDefaults(c.Request.Context(), orgID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "default tax codes seeded"))
}

func (h *taxCodeHandler) getTaxCode(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	taxCode, err := h.taxCodeService.GetTaxCodeByID(c.Request.Context(), orgID(c), c.Param("tax_code_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(taxCode, ""))
}

func (h *taxCodeHandler) updateTaxCode(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaxCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	taxCode, err := h.taxCodeService.UpdateTaxCode(c.Request.Context(), orgID(c), c.Param("tax_code_id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(taxCode, "tax code updated"))
}

func (h *taxCodeHandler) deactivateTaxCode(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.taxCodeService.DeactivateTaxCode(c.Request.Context(), orgID(c), c.Param("tax_code_id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
