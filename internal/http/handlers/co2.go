package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/modules/footprint"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type CO2Handler struct {
	calcService     services.CalculationService
	settingsService services.SettingsService
}

func NewCO2Handler(calcService services.CalculationService, settingsService services.SettingsService) *CO2Handler {
	return &CO2Handler{calcService: calcService, settingsService: settingsService}
}

func (h *CO2Handler) Items(c *gin.Context) {
	catalog, err := h.calcService.AvailableItems(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, catalog)
}

// Calculate answers 500 with the zero breakdown under data when the
// reference store cannot be reached.
func (h *CO2Handler) Calculate(c *gin.Context) {
	var req services.CalculateInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.calcService.Calculate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, footprint.ErrStoreUnreachable) {
			var data any
			if res != nil && res.Breakdown != nil {
				data = res.Breakdown
			}
			_ = c.Error(err)
			response.RespondErrorWithData(c, http.StatusInternalServerError, "store_unreachable", err, data)
			return
		}
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *CO2Handler) Calculations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}
	rows, err := h.calcService.History(c.Request.Context(), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"calculations": rows, "count": len(rows)})
}

func (h *CO2Handler) ThresholdCheck(c *gin.Context) {
	var req struct {
		CO2Value *float64 `json:"co2_value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_co2_value", err)
		return
	}
	value := 0.0
	if req.CO2Value != nil {
		value = *req.CO2Value
	}
	response.RespondOK(c, h.settingsService.CheckThreshold(c.Request.Context(), value))
}
