package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type ReferenceHandler struct {
	refService services.ReferenceService
}

func NewReferenceHandler(refService services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refService: refService}
}

// GET /api/fabric-co2?gender=&category=&product=&fabric_type=
func (h *ReferenceHandler) FabricCO2(c *gin.Context) {
	rows, err := h.refService.FabricCO2(c.Request.Context(), services.FabricFilter{
		Gender:     c.Query("gender"),
		Category:   c.Query("category"),
		Product:    c.Query("product"),
		FabricType: c.Query("fabric_type"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"fabrics": rows, "count": len(rows)})
}

func (h *ReferenceHandler) FabricTypes(c *gin.Context) {
	out, err := h.refService.FabricTypes(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"fabric_types": out})
}

func (h *ReferenceHandler) Compositions(c *gin.Context) {
	out, err := h.refService.Compositions(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"compositions": out})
}

// GET /api/fabric-search?composition=
func (h *ReferenceHandler) FabricSearch(c *gin.Context) {
	rows, err := h.refService.SearchFabrics(c.Request.Context(), c.Query("composition"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": rows, "count": len(rows)})
}

// GET /api/search?q=
func (h *ReferenceHandler) Search(c *gin.Context) {
	res, err := h.refService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}
