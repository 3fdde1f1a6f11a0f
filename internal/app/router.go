package app

import (
	"math_quiz_backend/docs"
	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/middleware"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. Public routes
	a.registerPublicRoutes(router, c)

	// 2. Student routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. Admin routes
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/auth/login", c.auth.Login)
		public.POST("/admin/login", c.auth.AdminLogin)
		public.GET("/leaderboard", c.dashboard.GetLeaderboard)

		quiz := public.Group("/quiz")
		{
			quiz.GET("/modules", c.quiz.GetModules)
			quiz.GET("/questions/:module/:type", c.quiz.GetQuestions)
			quiz.GET("/performance/:module", c.quiz.GetChapterPerformance)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/dashboard", c.dashboard.GetDashboard)
	rg.PUT("/auth/profile", c.auth.UpdateProfile)
	rg.POST("/quiz/submit/:module", c.quiz.SubmitQuiz)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/questions", c.admin.ListQuestions)
		admin.POST("/questions", c.admin.CreateQuestion)
		admin.GET("/questions/:id", c.admin.GetQuestion)
		admin.PUT("/questions/:id", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:id", c.admin.DeleteQuestion)

		admin.GET("/stats", c.admin.GetStats)
		admin.GET("/users", c.admin.ListUsers)
	}
}
