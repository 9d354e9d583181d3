package app

import (
	"study_planner_backend/docs"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/middleware"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/users/profile", c.auth.Profile)

		a.registerSubjectRoutes(authGroup, c)
		a.registerTaskRoutes(authGroup, c)
		a.registerStudyPlanRoutes(authGroup, c)

		authGroup.GET("/progress", c.progress.Progress)
		authGroup.GET("/ai-dataset", c.progress.Dataset)

		authGroup.GET("/events/ws", c.events.Stream)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/users/register", c.auth.Register)
		public.POST("/users/login", c.auth.Login)
	}
}

func (a *App) registerSubjectRoutes(rg *gin.RouterGroup, c *controllers) {
	subjects := rg.Group("/subjects")
	{
		subjects.POST("", c.subject.Create)
		subjects.GET("", c.subject.List)
		subjects.GET("/:id", c.subject.Get)
		subjects.PUT("/:id", c.subject.Update)
		subjects.DELETE("/:id", c.subject.Delete)
		subjects.POST("/:id/materials", c.subject.UploadMaterial)
	}
}

func (a *App) registerTaskRoutes(rg *gin.RouterGroup, c *controllers) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", c.task.Create)
		tasks.GET("", c.task.List)
		tasks.PUT("/:id", c.task.Update)
		tasks.PATCH("/:id/complete", c.task.Complete)
		tasks.DELETE("/:id", c.task.Delete)
	}
}

func (a *App) registerStudyPlanRoutes(rg *gin.RouterGroup, c *controllers) {
	plan := rg.Group("/study-plan")
	{
		plan.GET("", c.studyPlan.GetPlans)
		plan.POST("/generate", c.studyPlan.Generate)
		plan.POST("/update-priorities", c.studyPlan.UpdatePriorities)
		plan.GET("/recommendations", c.studyPlan.Recommendations)
		plan.GET("/analytics", c.studyPlan.Analytics)
	}
}
