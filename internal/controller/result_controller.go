package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// SubmitRequest answers 按题目顺序排列，元素为选项下标（数字或数字字符串）或 null
// swagger:model SubmitRequest
type SubmitRequest struct {
	TestID  string                 `json:"testId" binding:"required"`
	Answers []service.OptionChoice `json:"answers"`
}

// Submit godoc
// @Summary 提交测验答案
// @Tags 测验成绩
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRequest true "答案"
// @Success 201 {object} util.Response{data=service.SubmitOutcome}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/tests/submit [post]
func (c *ResultController) Submit(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	outcome, err := c.ResultService.Submit(ctx.Request.Context(), actor, req.TestID, req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, outcome)
}

// ListOwn godoc
// @Summary 我的测验成绩
// @Tags 测验成绩
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Result}
// @Router /api/tests/results [get]
func (c *ResultController) ListOwn(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	results, err := c.ResultService.ListOwn(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GetResult godoc
// @Summary 成绩详情
// @Description 仅本人或管理员可查看；关联测验已删除时返回 404 并附带成绩数据
// @Tags 测验成绩
// @Produce json
// @Security BearerAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response{data=model.Result}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	result, err := c.ResultService.GetResult(ctx.Request.Context(), actor, ctx.Param("id"))
	if errors.Is(err, util.ErrLinkedTestMissing) {
		util.ErrorWithData(ctx, util.KindNotFound.HTTPStatus(), util.ErrLinkedTestMissing.Message, gin.H{
			"result":      result,
			"testMissing": true,
		})
		return
	}
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListAll godoc
// @Summary 全部测验成绩
// @Tags 测验成绩
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Result}
// @Router /api/tests/all-results [get]
func (c *ResultController) ListAll(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	results, err := c.ResultService.ListAll(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
