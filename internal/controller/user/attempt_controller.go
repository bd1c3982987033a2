package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/npthao/examhub/internal/controller"
	"github.com/npthao/examhub/internal/dto"
	"github.com/npthao/examhub/internal/middleware"
	"github.com/npthao/examhub/internal/service"
)

type AttemptController struct {
	attemptService service.AttemptLifecycleService
}

func NewAttemptController(attemptService service.AttemptLifecycleService) *AttemptController {
	return &AttemptController{attemptService: attemptService}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// StartOrResume godoc
// @Summary      Start or resume a test attempt
// @Description  Returns the open attempt for this test if one exists, otherwise starts a new one. The response bundles the test, its questions with answers hidden, and any autosaved answers.
// @Tags         attempts
// @Produce      json
// @Param        test_id  path  int  true  "Test ID"
// @Success      200  {object}  dto.AttemptBundleDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tests/{test_id}/attempts/start [post]
func (c *AttemptController) StartOrResume(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	bundle, err := c.attemptService.StartOrResume(testID, middleware.CurrentUser(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, bundle)
}

// SaveProgress godoc
// @Summary      Autosave attempt progress
// @Description  Upserts the provided answers without grading them and updates the remaining time and last viewed question.
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        attempt_id  path  int                  true  "Attempt ID"
// @Param        request     body  dto.SaveProgressDTO  true  "Progress payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /attempts/{attempt_id}/progress [patch]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SaveProgressDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.attemptService.SaveProgress(attemptID, middleware.CurrentUser(ctx), req); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "progress saved"})
}

// Submit godoc
// @Summary      Submit a test attempt
// @Description  Grades all submitted answers, finalizes the attempt and returns the score summary. Feedback generation continues in the background.
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        attempt_id  path  int                   true  "Attempt ID"
// @Param        request     body  dto.SubmitAttemptDTO  true  "Submission payload"
// @Success      200  {object}  dto.ScoreSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /attempts/{attempt_id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SubmitAttemptDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	summary, err := c.attemptService.Submit(attemptID, middleware.CurrentUser(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetStatus godoc
// @Summary      Get the user's attempt status for a test
// @Tags         attempts
// @Produce      json
// @Param        test_id  path  int  true  "Test ID"
// @Success      200  {object}  dto.AttemptStatusDTO
// @Security     BearerAuth
// @Router       /tests/{test_id}/attempt-status [get]
func (c *AttemptController) GetStatus(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	status, err := c.attemptService.GetStatus(testID, middleware.CurrentUser(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// GetMyAttemptsForTest godoc
// @Summary      List the user's attempts for one test
// @Tags         attempts
// @Produce      json
// @Param        test_id  path  int  true  "Test ID"
// @Success      200  {array}  dto.AttemptListItemDTO
// @Security     BearerAuth
// @Router       /tests/{test_id}/my-attempts [get]
func (c *AttemptController) GetMyAttemptsForTest(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.GetUserAttemptsForTest(testID, middleware.CurrentUser(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetMyAttempts godoc
// @Summary      List the user's attempts across all tests
// @Tags         attempts
// @Produce      json
// @Success      200  {array}  dto.AttemptListItemDTO
// @Security     BearerAuth
// @Router       /my-attempts [get]
func (c *AttemptController) GetMyAttempts(ctx *gin.Context) {
	attempts, err := c.attemptService.GetUserAttemptsForAllTests(middleware.CurrentUser(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetResult godoc
// @Summary      Get the detailed results of a finished attempt
// @Description  Returns every question of the test with the user's answer, grading outcome, the correct answer and explanation, plus AI feedback when available.
// @Tags         attempts
// @Produce      json
// @Param        attempt_id  path  int  true  "Attempt ID"
// @Success      200  {object}  dto.ResultViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /attempts/{attempt_id}/result [get]
func (c *AttemptController) GetResult(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	result, err := c.attemptService.GetResultDetails(attemptID, middleware.CurrentUser(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
