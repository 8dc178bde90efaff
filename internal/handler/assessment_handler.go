package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrd-mh/pah-award-api/internal/service"
	"github.com/wrd-mh/pah-award-api/pkg/response"
)

// AssessmentHandler serves the self-assessment questionnaire rubric.
type AssessmentHandler struct {
	service *service.AssessmentService
}

// NewAssessmentHandler creates a new handler.
func NewAssessmentHandler(svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: svc}
}

// Rubric godoc
// @Summary Assessment rubric
// @Description Returns the five-module self-assessment questionnaire with marks
// @Tags Assessment
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assessment/rubric [get]
func (h *AssessmentHandler) Rubric(c *gin.Context) {
	rubric, err := h.service.Rubric(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rubric, nil)
}
