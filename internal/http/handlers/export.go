package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func sendFile(c *gin.Context, f *services.ExportFile, attachment bool) {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, f.Filename))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

func (h *ExportHandler) CSV(c *gin.Context) {
	f, err := h.exportService.ExportCSV(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	sendFile(c, f, true)
}

func (h *ExportHandler) Preview(c *gin.Context) {
	var req struct {
		PreviewLimit int `json:"preview_limit"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	preview, err := h.exportService.Preview(c.Request.Context(), req.PreviewLimit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, preview)
}

func (h *ExportHandler) Chart(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_calculation_id", err)
		return
	}
	f, err := h.exportService.Chart(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	sendFile(c, f, false)
}
