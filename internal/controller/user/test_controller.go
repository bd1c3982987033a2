package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npthao/examhub/internal/controller"
	"github.com/npthao/examhub/internal/service"
)

type TestController struct {
	testService service.TestCatalogService
}

func NewTestController(testService service.TestCatalogService) *TestController {
	return &TestController{testService: testService}
}

// GetAllTests godoc
// @Summary      List all tests
// @Tags         tests
// @Produce      json
// @Success      200  {array}  dto.TestSummaryDTO
// @Security     BearerAuth
// @Router       /tests [get]
func (c *TestController) GetAllTests(ctx *gin.Context) {
	tests, err := c.testService.GetAllTests()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary      Get a test's description page
// @Tags         tests
// @Produce      json
// @Param        test_id  path  int  true  "Test ID"
// @Success      200  {object}  dto.TestDetailDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /tests/{test_id} [get]
func (c *TestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	detail, err := c.testService.GetTestDetails(testID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
