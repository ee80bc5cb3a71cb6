package controllers

import (
	"net/http"

	"recircuit-api/services"

	"github.com/gin-gonic/gin"
)

const innovationNotFound = "Innovation not found"

type InnovationController struct {
	svc *services.InnovationService
}

func NewInnovationController(svc *services.InnovationService) *InnovationController {
	return &InnovationController{svc: svc}
}

type generateInnovationsRequest struct {
	WasteID          string   `json:"waste_id"`
	WasteDescription string   `json:"waste_description" binding:"required"`
	InnovationTypes  []string `json:"innovation_types" binding:"required"`
	Budget           *float64 `json:"budget" binding:"required,gte=0"`
	Currency         string   `json:"currency"`
	SkillLevel       string   `json:"skill_level" binding:"required"`
}

// POST /api/generate-innovations
func (ctl *InnovationController) GenerateInnovations(c *gin.Context) {
	var req generateInnovationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := ctl.svc.Generate(c.Request.Context(), services.GenerateInnovationsInput{
		WasteID:          req.WasteID,
		WasteDescription: req.WasteDescription,
		InnovationTypes:  req.InnovationTypes,
		Budget:           *req.Budget,
		Currency:         req.Currency,
		SkillLevel:       req.SkillLevel,
	})
	if err != nil {
		respondError(c, err, innovationNotFound)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GET /api/innovation/:id
func (ctl *InnovationController) GetInnovation(c *gin.Context) {
	inv, err := ctl.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, innovationNotFound)
		return
	}

	c.JSON(http.StatusOK, inv)
}
