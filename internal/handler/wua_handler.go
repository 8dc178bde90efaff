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

// WUAHandler handles Water User Association registry endpoints.
type WUAHandler struct {
	service *service.WUAService
}

// NewWUAHandler creates a new handler.
func NewWUAHandler(svc *service.WUAService) *WUAHandler {
	return &WUAHandler{service: svc}
}

// List godoc
// @Summary List associations
// @Description List Water User Associations with filtering
// @Tags WUAs
// @Produce json
// @Param district query string false "District filter"
// @Param circle query string false "Circle filter"
// @Param corporation query string false "Corporation filter"
// @Param category query string false "Category filter (MAJOR or MINOR)"
// @Param active query bool false "Active filter"
// @Param search query string false "Search term"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /wuas [get]
func (h *WUAHandler) List(c *gin.Context) {
	filter := models.WUAFilter{
		District:    c.Query("district"),
		Circle:      c.Query("circle"),
		Corporation: c.Query("corporation"),
		Category:    models.WUACategory(c.Query("category")),
		Search:      c.Query("search"),
	}
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.Active = &val
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	wuas, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, wuas, nil)
}

// Get godoc
// @Summary Get association
// @Description Get Water User Association detail
// @Tags WUAs
// @Produce json
// @Param id path string true "WUA ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /wuas/{id} [get]
func (h *WUAHandler) Get(c *gin.Context) {
	wua, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, wua, nil)
}

// Create godoc
// @Summary Register association
// @Description Register a Water User Association
// @Tags WUAs
// @Accept json
// @Produce json
// @Param payload body dto.CreateWUARequest true "Create WUA payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /wuas [post]
func (h *WUAHandler) Create(c *gin.Context) {
	var req dto.CreateWUARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	wua, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, wua)
}

// Update godoc
// @Summary Update association
// @Description Update mutable association fields
// @Tags WUAs
// @Accept json
// @Produce json
// @Param id path string true "WUA ID"
// @Param payload body dto.UpdateWUARequest true "Update WUA payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /wuas/{id} [put]
func (h *WUAHandler) Update(c *gin.Context) {
	var req dto.UpdateWUARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	wua, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, wua, nil)
}
