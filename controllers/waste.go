package controllers

import (
	"net/http"

	"recircuit-api/services"

	"github.com/gin-gonic/gin"
)

type WasteController struct {
	svc *services.WasteService
}

func NewWasteController(svc *services.WasteService) *WasteController {
	return &WasteController{svc: svc}
}

type analyzeWasteRequest struct {
	WasteName        string `json:"waste_name"`
	WasteDescription string `json:"waste_description"`
	ImageBase64      string `json:"image_base64"`
}

// POST /api/analyze-waste
func (ctl *WasteController) AnalyzeWaste(c *gin.Context) {
	var req analyzeWasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Either image or waste name is required")
		return
	}

	result, err := ctl.svc.Analyze(c.Request.Context(), services.AnalyzeWasteInput{
		ImageBase64:      req.ImageBase64,
		WasteName:        req.WasteName,
		WasteDescription: req.WasteDescription,
	})
	if err != nil {
		respondError(c, err, "Waste not found")
		return
	}

	c.JSON(http.StatusOK, result)
}
