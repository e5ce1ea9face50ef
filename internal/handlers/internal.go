package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/services"
)

// InternalHandler serves the operator-only endpoints behind the internal
// key: manual generation (the cron normally does this) and the e2e reset.
type InternalHandler struct {
	generatorService services.GeneratorService
	seedService      services.SeedService
}

func NewInternalHandler(generatorService services.GeneratorService, seedService services.SeedService) *InternalHandler {
	return &InternalHandler{generatorService: generatorService, seedService: seedService}
}

func (ih *InternalHandler) Generate(c *gin.Context) {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	if err := ih.generatorService.GenerateDaily(c.Request.Context(), body.Date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": body.Date})
}

func (ih *InternalHandler) TestSeed(c *gin.Context) {
	date, err := ih.seedService.ResetForTest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": date})
}
