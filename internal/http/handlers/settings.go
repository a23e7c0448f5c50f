package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/http/middleware"
	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type SettingsHandler struct {
	settingsService services.SettingsService
	admins          middleware.AdminChecker
}

func NewSettingsHandler(settingsService services.SettingsService, admins middleware.AdminChecker) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, admins: admins}
}

// List returns every setting to admins and only the public ones otherwise.
func (h *SettingsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	isAdmin, err := h.admins.IsAdmin(ctx, ctxutil.UserID(ctx))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	all, err := h.settingsService.GetAll(ctx, !isAdmin)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": all, "is_admin": isAdmin})
}

// Update applies a batch of key/value pairs; value types are detected.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req struct {
		Settings map[string]any `json:"settings"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Settings) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_settings", errors.New("no settings given"))
		return
	}
	keys := make([]string, 0, len(req.Settings))
	for k := range req.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx := c.Request.Context()
	for _, k := range keys {
		if err := h.settingsService.Set(ctx, services.SetSettingInput{Key: k, Value: req.Settings[k], IsPublic: true}); err != nil {
			response.RespondErr(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{"updated": keys})
}
