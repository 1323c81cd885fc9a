package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quollbooks/quollbooks/internal/core/ports/services"
	"github.com/quollbooks/quollbooks/internal/dto"
)

// itemHandler handles item routes.
type itemHandler struct {
	itemService portssvc.ItemSvcFacade
}

func newItemHandler(is portssvc.ItemSvcFacade) *itemHandler {
	return &itemHandler{itemService: is}
}

func registerItemRoutes(rg *gin.RouterGroup, itemService portssvc.ItemSvcFacade) {
	h := newItemHandler(itemService)

	items := rg.Group("/items")
	{
		items.POST("", h.createItem)
		items.GET("", h.listItems)
		items.GET("/:item_id", h.getItem)
		items.PUT("/:item_id", h.updateItem)
		items.DELETE("/:item_id", h.deactivateItem)
	}
}

func (h *itemHandler) createItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), orgID(c), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(item, "item created"))
}

func (h *itemHandler) listItems(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"
	items, err := h.itemService.ListItems(c.Request.Context(), orgID(c), includeInactive, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(items, ""))
}

func (h *itemHandler) getItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetItemByID(c.Request.Context(), orgID(c), c.Param("item_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(item, ""))
}

func (h *itemHandler) updateItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), orgID(c), c.Param("item_id"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(item, "item updated"))
}

func (h *itemHandler) deactivateItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.itemService.DeactivateItem(c.Request.Context(), orgID(c), c.Param("item_id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
