package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// CreateTest godoc
// @Summary 创建测验
// @Description 正确答案以选项原文提交，服务端解析为选项下标
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TestInput true "测验信息"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response "参数错误或正确答案不在选项中"
// @Failure 404 {object} util.Response "课程或分部不存在"
// @Router /api/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req service.TestInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	test, err := c.TestService.CreateTest(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// ListTests godoc
// @Summary 获取全部测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Test}
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	tests, err := c.TestService.ListTests(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetTest godoc
// @Summary 获取测验详情
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	test, err := c.TestService.GetTest(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// ListByCourse godoc
// @Summary 获取课程下的测验
// @Description 课程ID非法时返回空数组
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Test}
// @Router /api/tests/course/{courseId} [get]
func (c *TestController) ListByCourse(ctx *gin.Context) {
	tests, err := c.TestService.ListByCourse(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// UpdateTest godoc
// @Summary 更新测验
// @Description 未提供的字段保持不变；提供题目时整体替换并重新校验
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Param body body service.TestPatch true "需要更新的字段"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req service.TestPatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	test, err := c.TestService.UpdateTest(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary 删除测验
// @Description 已有成绩不会被删除
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	if err := c.TestService.DeleteTest(ctx.Request.Context(), actor, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Test deleted successfully", "id": id})
}
