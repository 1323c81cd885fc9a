package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// organizationHandler handles organizations and memberships.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationRoutes registers organization routes and delegates the
// org-scoped entity routes to their handlers.
func registerOrganizationRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newOrganizationHandler(services.Organization)

	orgs := rg.Group("/orgs")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
	}

	orgScoped := rg.Group("/orgs/:org_id")
	{
		orgScoped.GET("", h.getOrganization)
		orgScoped.PUT("", h.updateOrganization)
		orgScoped.GET("/members", h.listMembers)
		orgScoped.POST("/members", h.addMember)

		registerAccountRoutes(orgScoped, services.Account)
		registerCustomerRoutes(orgScoped, services.Customer)
		registerVendorRoutes(orgScoped, services.Vendor)
		registerItemRoutes(orgScoped, services.Item)
		registerTaxCodeRoutes(orgScoped, services.TaxCode)
		registerJournalRoutes(orgScoped, services.Journal)
		registerInvoiceRoutes(orgScoped, services.Invoice)
		registerPaymentRoutes(orgScoped, services.Payment)
		registerBankingRoutes(orgScoped, services.Banking)
		registerReconciliationRoutes(orgScoped, services.Reconciliation)
		registerReportingRoutes(orgScoped, services.Reporting)
	}
}

func (h *organizationHandler) createOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ToOrganizationResponse(org), "organization created"))
}

func (h *organizationHandler) listOrganizations(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	orgs, err := h.orgService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.OrganizationResponse, len(orgs))
	for i := range orgs {
		out[i] = dto.ToOrganizationResponse(&orgs[i])
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(out, ""))
}

func (h *organizationHandler) getOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), orgID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToOrganizationResponse(org), ""))
}

func (h *organizationHandler) updateOrganization(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Request.Context(), orgID(c), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToOrganizationResponse(org), "organization updated"))
}

func (h *organizationHandler) listMembers(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	members, err := h.orgService.ListMembers(c.Request.Context(), orgID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToMemberResponses(members), ""))
}

func (h *organizationHandler) addMember(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.orgService.AddMember(c.Request.Context(), orgID(c), req, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(nil, "member added"))
}
