package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
)

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
