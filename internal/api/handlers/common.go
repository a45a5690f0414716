package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireCaregiverID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("caregiver_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// caregiverCanSee enforces resident scoping: admins see everything, a
// caregiver only residents assigned to them.
func caregiverCanSee(c *gin.Context, cg *models.Caregiver, residentID string) bool {
	if cg.Role == models.RoleAdmin {
		return true
	}
	for _, id := range cg.ResidentIDs {
		if id == residentID {
			return true
		}
	}
	writeError(c, utils.E(utils.CodeForbidden, "Auth", "forbidden", nil))
	return false
}
