package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lamngoc/ascent/internal/controller"
	"github.com/lamngoc/ascent/internal/dto"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminController struct {
	adminSvc service.AdminService
}

func NewAdminController(adminSvc service.AdminService) *AdminController {
	return &AdminController{adminSvc: adminSvc}
}

func (ctrl *AdminController) RegisterRoutes(router *gin.RouterGroup) {
	verticals := router.Group("/verticals")
	{
		verticals.POST("", ctrl.CreateVertical)
		verticals.GET("", ctrl.ListVerticals)
		verticals.PUT("/:id", ctrl.UpdateVertical)
		verticals.DELETE("/:id", ctrl.DeleteVertical)
	}
	assessments := router.Group("/assessments")
	{
		assessments.GET("", ctrl.ListAssessments)
		assessments.PUT("/:id/review", ctrl.UpdateReview)
	}
}

// adminContext resolves the chapter scope and requires the admin role.
func adminContext(c *gin.Context) (model.ChapterContext, bool) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return model.ChapterContext{}, false
	}
	if cc.Role != "admin" {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "admin role required"})
		return model.ChapterContext{}, false
	}
	return cc, true
}

// CreateVertical godoc
// @Summary (Admin) Create a vertical
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.VerticalRequest true "Vertical"
// @Success 201 {object} dto.VerticalDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/verticals [post]
func (ctrl *AdminController) CreateVertical(c *gin.Context) {
	if _, ok := adminContext(c); !ok {
		return
	}
	var req dto.VerticalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := ctrl.adminSvc.CreateVertical(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create vertical")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create vertical"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListVerticals godoc
// @Summary (Admin) List all verticals
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.VerticalDTO
// @Router /admin/verticals [get]
func (ctrl *AdminController) ListVerticals(c *gin.Context) {
	if _, ok := adminContext(c); !ok {
		return
	}
	resp, err := ctrl.adminSvc.ListVerticals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list verticals"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateVertical godoc
// @Summary (Admin) Update a vertical
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Vertical ID"
// @Param request body dto.VerticalRequest true "Vertical"
// @Success 200 {object} dto.VerticalDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/verticals/{id} [put]
func (ctrl *AdminController) UpdateVertical(c *gin.Context) {
	if _, ok := adminContext(c); !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.VerticalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := ctrl.adminSvc.UpdateVertical(id, req)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteVertical godoc
// @Summary (Admin) Delete a vertical
// @Tags Admin
// @Param id path int true "Vertical ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/verticals/{id} [delete]
func (ctrl *AdminController) DeleteVertical(c *gin.Context) {
	if _, ok := adminContext(c); !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := ctrl.adminSvc.DeleteVertical(id); err != nil {
		respondAdminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAssessments godoc
// @Summary (Admin) List assessments for the chapter
// @Tags Admin
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Success 200 {array} dto.AssessmentReviewDTO
// @Router /admin/assessments [get]
func (ctrl *AdminController) ListAssessments(c *gin.Context) {
	cc, ok := adminContext(c)
	if !ok {
		return
	}
	resp, err := ctrl.adminSvc.ListAssessments(cc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list assessments"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateReview godoc
// @Summary (Admin) Update review metadata on an assessment
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param id path int true "Assessment ID"
// @Param request body dto.ReviewUpdateRequest true "Review changes"
// @Success 200 {object} dto.AssessmentReviewDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/assessments/{id}/review [put]
func (ctrl *AdminController) UpdateReview(c *gin.Context) {
	cc, ok := adminContext(c)
	if !ok {
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req dto.ReviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp, err := ctrl.adminSvc.UpdateReview(cc, id, req)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid ID format"})
		return 0, err
	}
	return uint(id), nil
}

func respondAdminError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
		return
	}
	log.Error().Err(err).Msg("Admin operation failed")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
}
