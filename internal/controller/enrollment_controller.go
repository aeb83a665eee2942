package controller

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// swagger:model EnrollRequest
type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// swagger:model ProgressRequest
type ProgressRequest struct {
	ContentID string `json:"contentId" binding:"required"`
}

// Enroll godoc
// @Summary 报名课程
// @Tags 报名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EnrollRequest true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "已报名"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), actor, req.CourseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// MarkComplete godoc
// @Summary 标记内容已完成
// @Tags 报名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "报名ID"
// @Param body body ProgressRequest true "视频或笔记ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/enrollments/{id}/complete [post]
func (c *EnrollmentController) MarkComplete(ctx *gin.Context) {
	c.toggle(ctx, c.EnrollmentService.MarkComplete)
}

// MarkIncomplete godoc
// @Summary 取消内容完成标记
// @Tags 报名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "报名ID"
// @Param body body ProgressRequest true "视频或笔记ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/enrollments/{id}/incomplete [post]
func (c *EnrollmentController) MarkIncomplete(ctx *gin.Context) {
	c.toggle(ctx, c.EnrollmentService.MarkIncomplete)
}

type progressFunc func(ctx context.Context, actor service.Actor, enrollmentID, contentID string) (*model.Enrollment, error)

func (c *EnrollmentController) toggle(ctx *gin.Context, apply progressFunc) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	enrollment, err := apply(ctx.Request.Context(), actor, ctx.Param("id"), req.ContentID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// Unenroll godoc
// @Summary 退课
// @Description 报名者本人或管理员可操作，学习进度一并删除
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path string true "报名ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/enrollments/{id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	if err := c.EnrollmentService.Unenroll(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Successfully unenrolled from the course"})
}

// ListMine godoc
// @Summary 我的报名
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/my [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	enrollments, err := c.EnrollmentService.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// ListAll godoc
// @Summary 全部报名记录
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/all [get]
func (c *EnrollmentController) ListAll(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	enrollments, err := c.EnrollmentService.ListAll(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// GetDetails godoc
// @Summary 报名详情
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path string true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/enrollments/details/{id} [get]
func (c *EnrollmentController) GetDetails(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.GetDetails(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}
