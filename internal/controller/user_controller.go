package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 用户列表
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	users, err := c.UserService.List(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// @Summary 删除用户
// @Description 同时删除该用户的报名记录
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	if err := c.UserService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "User removed"})
}

// @Summary 用户详情
// @Description 包含该用户的报名记录
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response{data=service.UserDetail}
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	detail, err := c.UserService.Get(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 更新用户
// @Description 可修改姓名、邮箱、角色与分部；不能修改自己的角色
// @Tags 管理员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param body body service.UserPatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "邮箱已被其他账号使用"
// @Router /api/admin/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var patch service.UserPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BindError(ctx, err)
		return
	}

	user, err := c.UserService.Update(ctx.Request.Context(), actor, ctx.Param("id"), patch)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
