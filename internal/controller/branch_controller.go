package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BranchController struct {
	BranchService *service.BranchService
}

func NewBranchController(branchService *service.BranchService) *BranchController {
	return &BranchController{BranchService: branchService}
}

// @Summary 分部列表
// @Tags 分部
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Branch}
// @Router /api/branches [get]
func (c *BranchController) List(ctx *gin.Context) {
	branches, err := c.BranchService.List(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, branches)
}

// @Summary 分部详情
// @Tags 分部
// @Produce json
// @Param id path string true "分部ID"
// @Success 200 {object} util.Response{data=model.Branch}
// @Failure 404 {object} util.Response
// @Router /api/branches/{id} [get]
func (c *BranchController) Get(ctx *gin.Context) {
	branch, err := c.BranchService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, branch)
}

// @Summary 创建分部
// @Tags 分部
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.BranchInput true "分部信息"
// @Success 201 {object} util.Response{data=model.Branch}
// @Failure 409 {object} util.Response "名称已存在"
// @Router /api/branches [post]
func (c *BranchController) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req service.BranchInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	branch, err := c.BranchService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, branch)
}

// @Summary 更新分部
// @Tags 分部
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分部ID"
// @Param body body service.BranchInput true "分部信息"
// @Success 200 {object} util.Response{data=model.Branch}
// @Router /api/branches/{id} [put]
func (c *BranchController) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req service.BranchInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	branch, err := c.BranchService.Update(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, branch)
}

// @Summary 删除分部
// @Tags 分部
// @Produce json
// @Security BearerAuth
// @Param id path string true "分部ID"
// @Success 200 {object} util.Response
// @Router /api/branches/{id} [delete]
func (c *BranchController) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	if err := c.BranchService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Branch removed"})
}
