package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type PassportHandler struct {
	passportService services.PassportService
}

func NewPassportHandler(passportService services.PassportService) *PassportHandler {
	return &PassportHandler{passportService: passportService}
}

func (h *PassportHandler) Create(c *gin.Context) {
	var req services.CreatePassportInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.passportService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"passport": p})
}

func (h *PassportHandler) List(c *gin.Context) {
	rows, err := h.passportService.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"passports": rows, "count": len(rows)})
}

// Get accepts either a passport id or a printed DPP code.
func (h *PassportHandler) Get(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()
	if id, err := uuid.Parse(raw); err == nil {
		p, err := h.passportService.Get(ctx, id)
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondOK(c, gin.H{"passport": p})
		return
	}
	p, err := h.passportService.GetByCode(ctx, raw)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"passport": p})
}
