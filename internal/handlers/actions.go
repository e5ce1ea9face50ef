package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawlog/pawlog-backend/internal/services"
	"github.com/pawlog/pawlog-backend/internal/types"
)

// ActionsHandler exposes the lifecycle mutations: confirm, snooze, undo
// and observation logging.
type ActionsHandler struct {
	lifecycleService services.LifecycleService
}

func NewActionsHandler(lifecycleService services.LifecycleService) *ActionsHandler {
	return &ActionsHandler{lifecycleService: lifecycleService}
}

func instanceIDParam(c *gin.Context) (uuid.UUID, bool) {
	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instance id"})
		return uuid.Nil, false
	}
	return instanceID, true
}

func (ah *ActionsHandler) Confirm(c *gin.Context) {
	instanceID, ok := instanceIDParam(c)
	if !ok {
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	// Empty body means no notes.
	_ = c.ShouldBindJSON(&body)

	if err := ah.lifecycleService.Confirm(c.Request.Context(), instanceID, body.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *ActionsHandler) Snooze(c *gin.Context) {
	instanceID, ok := instanceIDParam(c)
	if !ok {
		return
	}
	var body struct {
		DurationMinutes int `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := ah.lifecycleService.Snooze(c.Request.Context(), instanceID, body.DurationMinutes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *ActionsHandler) Undo(c *gin.Context) {
	instanceID, ok := instanceIDParam(c)
	if !ok {
		return
	}
	if err := ah.lifecycleService.Undo(c.Request.Context(), instanceID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (ah *ActionsHandler) AddObservation(c *gin.Context) {
	var body struct {
		PetID    uuid.UUID                 `json:"pet_id"`
		Category types.ObservationCategory `json:"category"`
		Text     string                    `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	instanceID, err := ah.lifecycleService.AddObservation(c.Request.Context(), body.PetID, body.Category, body.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instance_id": instanceID})
}
