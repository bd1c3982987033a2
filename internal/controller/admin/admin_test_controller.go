package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npthao/examhub/internal/controller"
	"github.com/npthao/examhub/internal/dto"
	"github.com/npthao/examhub/internal/service"
)

type AdminTestController struct {
	adminTestService service.AdminTestService
}

func NewAdminTestController(adminTestService service.AdminTestService) *AdminTestController {
	return &AdminTestController{adminTestService: adminTestService}
}

// CreateTest godoc
// @Summary      Create a test with its questions
// @Description  Creates a test together with its inline questions and options in one request. Option ids are generated server-side.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body  dto.TestCreateDTO  true  "Test definition"
// @Success      201  {object}  dto.TestDetailDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	detail, err := c.adminTestService.CreateTest(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, detail)
}
