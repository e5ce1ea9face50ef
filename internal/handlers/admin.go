package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawlog/pawlog-backend/internal/services"
)

// AdminHandler exposes the catalog CRUD. Role enforcement lives in the
// catalog service, not here.
type AdminHandler struct {
	catalogService services.CatalogService
}

func NewAdminHandler(catalogService services.CatalogService) *AdminHandler {
	return &AdminHandler{catalogService: catalogService}
}

func (ah *AdminHandler) GetPet(c *gin.Context) {
	pet, err := ah.catalogService.GetPet(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": pet})
}

func (ah *AdminHandler) ListItems(c *gin.Context) {
	petID, err := uuid.Parse(c.Query("pet_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pet id"})
		return
	}
	items, err := ah.catalogService.ListItems(c.Request.Context(), petID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (ah *AdminHandler) AddItem(c *gin.Context) {
	var input services.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	itemID, err := ah.catalogService.AddItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID})
}

func itemIDParam(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return uuid.Nil, false
	}
	return itemID, true
}

func (ah *AdminHandler) UpdateItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	var input services.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := ah.catalogService.UpdateItem(c.Request.Context(), itemID, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *AdminHandler) ActivateItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	if err := ah.catalogService.SetItemActive(c.Request.Context(), itemID, true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *AdminHandler) DeactivateItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	if err := ah.catalogService.SetItemActive(c.Request.Context(), itemID, false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *AdminHandler) AddSchedule(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	var input services.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	scheduleID, err := ah.catalogService.AddSchedule(c.Request.Context(), itemID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule_id": scheduleID})
}

func (ah *AdminHandler) RemoveSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("scheduleId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}
	if err := ah.catalogService.RemoveSchedule(c.Request.Context(), scheduleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
