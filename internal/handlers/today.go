package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/services"
)

type TodayHandler struct {
	todayService services.TodayService
}

func NewTodayHandler(todayService services.TodayService) *TodayHandler {
	return &TodayHandler{todayService: todayService}
}

// GetToday serves the dashboard view. `now` is an optional epoch-ms
// override used by end-to-end tests to pin time-dependent results.
func (th *TodayHandler) GetToday(c *gin.Context) {
	date := c.Query("date")
	var nowMillis *int64
	if nowParam := c.Query("now"); nowParam != "" {
		parsed, err := strconv.ParseInt(nowParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "now must be epoch milliseconds"})
			return
		}
		nowMillis = &parsed
	}

	view, err := th.todayService.GetToday(c.Request.Context(), date, nowMillis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
