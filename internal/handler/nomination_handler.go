package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrd-mh/pah-award-api/internal/dto"
	"github.com/wrd-mh/pah-award-api/internal/models"
	"github.com/wrd-mh/pah-award-api/internal/service"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
	"github.com/wrd-mh/pah-award-api/pkg/response"
)

// NominationHandler exposes the award nomination workflow endpoints.
type NominationHandler struct {
	service *service.WorkflowService
}

// NewNominationHandler creates a new handler.
func NewNominationHandler(svc *service.WorkflowService) *NominationHandler {
	return &NominationHandler{service: svc}
}

// Create godoc
// @Summary Open a nomination
// @Description Open a draft nomination for the active award year
// @Tags Nominations
// @Accept json
// @Produce json
// @Param payload body dto.CreateNominationRequest true "Create nomination payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /nominations [post]
func (h *NominationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateNominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	nomination, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, nomination)
}

// List godoc
// @Summary List nominations
// @Description List nominations visible to the caller's role
// @Tags Nominations
// @Produce json
// @Param year query int false "Application year"
// @Param status query string false "Status filter"
// @Param stage query string false "Stage filter"
// @Param category query string false "Category filter (MAJOR or MINOR)"
// @Param wua_id query string false "WUA filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /nominations [get]
func (h *NominationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var query dto.NominationQuery
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		query.Year = year
	}
	query.Status = models.NominationStatus(c.Query("status"))
	query.Stage = models.NominationStage(c.Query("stage"))
	query.Category = models.WUACategory(c.Query("category"))
	query.WUAID = c.Query("wua_id")
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		query.Offset = offset
	}

	nominations, err := h.service.List(c.Request.Context(), query, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, nominations, nil)
}

// Get godoc
// @Summary Get nomination
// @Description Get nomination detail with the per-stage decision trail
// @Tags Nominations
// @Produce json
// @Param id path string true "Nomination ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /nominations/{id} [get]
func (h *NominationHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	nomination, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, nomination, nil)
}

// SubmitSelfAssessment godoc
// @Summary Submit self-assessment
// @Description Score and submit the nominee's self-assessment questionnaire
// @Tags Nominations
// @Accept json
// @Produce json
// @Param id path string true "Nomination ID"
// @Param payload body dto.SubmitSelfAssessmentRequest true "Questionnaire responses"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /nominations/{id}/submit [post]
func (h *NominationHandler) SubmitSelfAssessment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitSelfAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	nomination, err := h.service.SubmitSelfAssessment(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, nomination, nil)
}

// Decide godoc
// @Summary Record committee decision
// @Description Approve or reject the nomination at the named committee stage
// @Tags Nominations
// @Accept json
// @Produce json
// @Param id path string true "Nomination ID"
// @Param payload body dto.CommitteeDecisionRequest true "Committee decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /nominations/{id}/decision [post]
func (h *NominationHandler) Decide(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CommitteeDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	nomination, err := h.service.RecordDecision(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, nomination, nil)
}
