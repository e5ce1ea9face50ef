package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawlog/pawlog-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Sync provisions the caller on first login; the web client calls it once
// per session right after sign-in.
func (uh *UserHandler) Sync(c *gin.Context) {
	user, err := uh.userService.GetOrCreate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (uh *UserHandler) Current(c *gin.Context) {
	user, err := uh.userService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
