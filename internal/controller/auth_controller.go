package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterForm 注册使用 multipart 表单，idCard 为证件文件
type RegisterForm struct {
	FirstName string `form:"firstName" binding:"required"`
	LastName  string `form:"lastName" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required,min=6"`
	BranchID  string `form:"branchId" binding:"required"`
	FaceImage string `form:"faceImage" binding:"required"`
}

// Register godoc
// @Summary 注册新学生
// @Description 上传证件图片并登记人脸描述子
// @Tags 认证
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "名"
// @Param lastName formData string true "姓"
// @Param email formData string true "邮箱"
// @Param password formData string true "密码"
// @Param branchId formData string true "分部ID"
// @Param faceImage formData string true "人脸图片 base64"
// @Param idCard formData file true "身份证件"
// @Success 201 {object} util.Response{data=service.LoginResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var form RegisterForm
	if err := ctx.ShouldBind(&form); err != nil {
		util.BindError(ctx, err)
		return
	}

	idCard, err := ctx.FormFile("idCard")
	if err != nil {
		util.BadRequest(ctx, "ID card image is required")
		return
	}

	res, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
		BranchID:  form.BranchID,
		IDCard:    idCard,
		FaceImage: form.FaceImage,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FaceImage string `json:"faceImage"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验密码与人脸后返回 JWT
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 401 {object} util.Response "凭据无效或人脸不匹配"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	res, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password, req.FaceImage)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Profile godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/auth/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	user, err := c.AuthService.Profile(ctx.Request.Context(), actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 修改个人资料
// @Description 可修改姓名、分部与密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ProfilePatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var patch service.ProfilePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BindError(ctx, err)
		return
	}

	user, err := c.AuthService.UpdateProfile(ctx.Request.Context(), actor, patch)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
