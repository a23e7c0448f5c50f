package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetProfile(c *gin.Context) {
	u, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

func (uh *UserHandler) GetPreferences(c *gin.Context) {
	prefs, err := uh.userService.GetPreferences(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

func (uh *UserHandler) SetPreferences(c *gin.Context) {
	var req struct {
		Preferences map[string]any `json:"preferences"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := uh.userService.SetPreferences(c.Request.Context(), req.Preferences); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": req.Preferences})
}
