package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/controllers"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Course    *controllers.CourseController
	User      *controllers.UserController
	Dashboard *controllers.DashboardController
	Health    *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	// Every route sees the session, gating happens per group
	router.Use(authMiddleware.LoadSession())

	// API version group
	v1 := router.Group("/api/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", ctrl.Auth.Logout)
		auth.GET("/session", ctrl.Auth.Session)
		auth.GET("/providers", ctrl.Auth.Providers)
		auth.GET("/oauth/:provider", ctrl.Auth.OAuthStart)
		auth.GET("/oauth/:provider/callback", ctrl.Auth.OAuthCallback)
	}

	// --- Course routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", ctrl.Course.ListCourses)

		coursesAdmin := courses.Group("")
		coursesAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			coursesAdmin.POST("", ctrl.Course.CreateCourse)
		}
	}

	// --- User routes ---
	users := v1.Group("/users")
	users.Use(authMiddleware.RequireSession())
	{
		users.GET("/me", ctrl.User.GetProfile)
		users.GET("", authMiddleware.RoleRequired(models.RoleAdmin), ctrl.User.ListUsers)
	}

	// Health check endpoint (public)
	v1.GET("/health", ctrl.Health.Health)

	// --- Pages ---
	router.GET("/login", ctrl.Dashboard.LoginPage)
	router.GET("/dashboard", authMiddleware.PageSessionRequired(), ctrl.Dashboard.Dashboard)

	admin := router.Group("/admin/dashboard")
	admin.Use(authMiddleware.PageRoleRequired(models.RoleAdmin))
	{
		admin.GET("", ctrl.Dashboard.AdminDashboard)
		admin.GET("/add-course", ctrl.Dashboard.AddCoursePage)
		admin.GET("/manage-users", ctrl.Dashboard.ManageUsersPage)
	}

	student := router.Group("/student/dashboard")
	student.Use(authMiddleware.PageRoleRequired(models.RoleStudent))
	{
		student.GET("", ctrl.Dashboard.StudentDashboard)
	}
}
