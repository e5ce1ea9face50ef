package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/services"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (hh *HistoryHandler) GetForDate(c *gin.Context) {
	view, err := hh.historyService.GetForDate(c.Request.Context(), c.Query("date"), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
