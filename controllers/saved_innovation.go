package controllers

import (
	"net/http"

	"recircuit-api/middleware"
	"recircuit-api/services"

	"github.com/gin-gonic/gin"
)

type SavedInnovationController struct {
	svc *services.SavedInnovationService
}

func NewSavedInnovationController(svc *services.SavedInnovationService) *SavedInnovationController {
	return &SavedInnovationController{svc: svc}
}

func getUserIDFromContext(c *gin.Context) (string, bool) {
	if v, ok := c.Get(middleware.UserIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// POST /api/save-innovation?innovation_id=&user_id=
func (ctl *SavedInnovationController) SaveInnovation(c *gin.Context) {
	innovationID := c.Query("innovation_id")
	if innovationID == "" {
		badRequest(c, "innovation_id is required")
		return
	}
	userID, ok := getUserIDFromContext(c)
	if !ok {
		badRequest(c, "user_id is required")
		return
	}

	saved, err := ctl.svc.Save(c.Request.Context(), innovationID, userID)
	if err != nil {
		respondError(c, err, innovationNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Innovation saved successfully",
		"saved_id": saved.ID,
	})
}

// GET /api/saved-innovations?user_id=
func (ctl *SavedInnovationController) GetSavedInnovations(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		badRequest(c, "user_id is required")
		return
	}

	items, err := ctl.svc.ListByUser(c.Request.Context(), userID, 0)
	if err != nil {
		respondError(c, err, "Saved innovations not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved_innovations": items})
}
