package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 登录用户
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, repos.user), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/branches", c.branch.List)
		public.GET("/branches/:id", c.branch.Get)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/profile", c.auth.Profile)
	rg.PUT("/auth/profile", c.auth.UpdateProfile)

	rg.GET("/courses", c.course.List)
	rg.GET("/courses/:id", c.course.Get)

	tests := rg.Group("/tests")
	{
		tests.GET("/:id", c.test.GetTest)
		tests.GET("/course/:courseId", c.test.ListByCourse)
		tests.POST("/submit", middleware.RoleMiddleware(model.Student), c.result.Submit)
		tests.GET("/results", c.result.ListOwn)
		tests.GET("/results/:id", c.result.GetResult)
	}

	enrollments := rg.Group("/enrollments")
	{
		enrollments.POST("", middleware.RoleMiddleware(model.Student), c.enrollment.Enroll)
		enrollments.GET("/my", c.enrollment.ListMine)
		enrollments.POST("/:id/complete", c.enrollment.MarkComplete)
		enrollments.POST("/:id/incomplete", c.enrollment.MarkIncomplete)
		enrollments.DELETE("/:id", c.enrollment.Unenroll)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api")
	admin.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, repos.user),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.POST("/tests", c.test.CreateTest)
		admin.GET("/tests", c.test.ListTests)
		admin.PUT("/tests/:id", c.test.UpdateTest)
		admin.DELETE("/tests/:id", c.test.DeleteTest)
		admin.GET("/tests/all-results", c.result.ListAll)

		admin.POST("/branches", c.branch.Create)
		admin.PUT("/branches/:id", c.branch.Update)
		admin.DELETE("/branches/:id", c.branch.Delete)

		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.DELETE("/courses/:id", c.course.Delete)
		admin.POST("/courses/:id/videos", c.course.AddVideo)
		admin.POST("/courses/:id/notes", c.course.AddNote)
		admin.DELETE("/courses/:id/:kind/:contentId", c.course.RemoveContent)

		admin.GET("/enrollments/all", c.enrollment.ListAll)
		admin.GET("/enrollments/details/:id", c.enrollment.GetDetails)

		admin.GET("/admin/users", c.user.List)
		admin.GET("/admin/users/:id", c.user.Get)
		admin.PUT("/admin/users/:id", c.user.Update)
		admin.DELETE("/admin/users/:id", c.user.Delete)
	}
}
