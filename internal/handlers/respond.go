package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/apperr"
)

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
