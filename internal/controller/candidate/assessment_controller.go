package candidate

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lamngoc/ascent/internal/controller"
	"github.com/lamngoc/ascent/internal/dto"
	"github.com/lamngoc/ascent/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AssessmentController struct {
	assessmentSvc service.AssessmentService
}

func NewAssessmentController(assessmentSvc service.AssessmentService) *AssessmentController {
	return &AssessmentController{assessmentSvc: assessmentSvc}
}

func (ctrl *AssessmentController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/verticals", ctrl.ListVerticals)

	assessments := router.Group("/assessments")
	{
		assessments.POST("", ctrl.StartAssessment)
		assessments.GET("/:token/question", ctrl.GetQuestion)
		assessments.POST("/:token/analyze", ctrl.AnalyzeProblem)
		assessments.POST("/:token/draft", ctrl.RequestDraft)
		assessments.POST("/:token/next", ctrl.Next)
		assessments.POST("/:token/previous", ctrl.Previous)
		assessments.POST("/:token/submit", ctrl.Submit)
	}
}

// ListVerticals godoc
// @Summary List active verticals
// @Description Returns the focus-area catalog candidates rank in Part A, in display order.
// @Tags Candidate
// @Produce json
// @Success 200 {array} dto.VerticalDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /verticals [get]
func (ctrl *AssessmentController) ListVerticals(c *gin.Context) {
	verticals, err := ctrl.assessmentSvc.ActiveVerticals()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list verticals")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list verticals"})
		return
	}
	c.JSON(http.StatusOK, verticals)
}

// StartAssessment godoc
// @Summary Start a new assessment
// @Description Creates an in-progress assessment for a candidate and returns its access token.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param request body dto.StartAssessmentRequest true "Candidate details"
// @Success 201 {object} dto.AssessmentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /assessments [post]
func (ctrl *AssessmentController) StartAssessment(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.StartAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assessmentSvc.Start(cc, req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start assessment")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start assessment"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetQuestion godoc
// @Summary Get a question view
// @Description Returns the adapted or static prompt for the requested question, with any saved answer. Defaults to the current question.
// @Tags Candidate
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param token path string true "Assessment token"
// @Param number query int false "Question number (1-5)"
// @Success 200 {object} dto.QuestionViewDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /assessments/{token}/question [get]
func (ctrl *AssessmentController) GetQuestion(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	number := 0
	if raw := c.Query("number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question number"})
			return
		}
		number = n
	}

	view, err := ctrl.assessmentSvc.GetQuestion(c.Request.Context(), cc, c.Param("token"), number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AnalyzeProblem godoc
// @Summary Analyze the Part A problem text
// @Description Suggests 3-5 matching verticals for the described problem. Rate limited per assessment.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param token path string true "Assessment token"
// @Param request body dto.AnalyzeRequest true "Problem description (min 200 chars)"
// @Success 200 {object} dto.SuggestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /assessments/{token}/analyze [post]
func (ctrl *AssessmentController) AnalyzeProblem(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assessmentSvc.AnalyzeProblem(c.Request.Context(), cc, c.Param("token"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RequestDraft godoc
// @Summary Request an AI draft for Part B
// @Description Generates a guarded initiative draft from the Part A answer. A rejected draft means the candidate should write in their own words.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param token path string true "Assessment token"
// @Param request body dto.DraftRequest true "Problem text fallback"
// @Success 200 {object} dto.DraftDTO
// @Failure 422 {object} dto.ErrorResponse "Draft rejected by relevance check"
// @Failure 429 {object} dto.ErrorResponse
// @Router /assessments/{token}/draft [post]
func (ctrl *AssessmentController) RequestDraft(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assessmentSvc.RequestDraft(c.Request.Context(), cc, c.Param("token"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Next godoc
// @Summary Answer a question and advance
// @Description Validates and saves the answer, adapts the next question, and returns its view.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param token path string true "Assessment token"
// @Param request body dto.AnswerRequest true "Answer for the current question"
// @Success 200 {object} dto.QuestionViewDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failure"
// @Failure 409 {object} dto.ErrorResponse "Assessment already completed"
// @Router /assessments/{token}/next [post]
func (ctrl *AssessmentController) Next(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := ctrl.assessmentSvc.Next(c.Request.Context(), cc, c.Param("token"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Previous godoc
// @Summary Save the current answer and go back
// @Description Persists the answer without validation and returns the previous question's view.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param token path string true "Assessment token"
// @Param request body dto.AnswerRequest true "Answer for the current question"
// @Success 200 {object} dto.QuestionViewDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /assessments/{token}/previous [post]
func (ctrl *AssessmentController) Previous(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := ctrl.assessmentSvc.Previous(c.Request.Context(), cc, c.Param("token"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Submit godoc
// @Summary Submit the assessment
// @Description Validates Part E, persists it, marks the assessment completed and triggers scoring asynchronously.
// @Tags Candidate
// @Accept json
// @Produce json
// @Param X-Chapter-ID header int true "Chapter scope"
// @Param token path string true "Assessment token"
// @Param request body dto.AnswerRequest true "Part E answer"
// @Success 200 {object} dto.AssessmentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Completion could not be persisted; retry"
// @Router /assessments/{token}/submit [post]
func (ctrl *AssessmentController) Submit(c *gin.Context) {
	cc, err := controller.ChapterFromHeaders(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assessmentSvc.Submit(c.Request.Context(), cc, c.Param("token"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// respondServiceError maps service errors onto HTTP statuses. Validation and
// guard rejections carry their specific messages through.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Message})
	case errors.Is(err, service.ErrDraftOffTopic):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "The draft did not address your scenario. Please write in your own words or try again.",
		})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAssessmentCompleted):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Assessment not found"})
	default:
		log.Error().Err(err).Msg("Assessment operation failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
