package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/helpers"
	"github.com/yigit/learnhub/internal/pkg/validation"
)

// ProviderLister lists the sign-in methods shown on the login page
type ProviderLister interface {
	Providers() []dto.ProviderInfo
}

// DashboardController serves the role-gated page payloads. Gating itself happens in
// middleware, so every handler here can assume the right role.
type DashboardController struct {
	userService services.UserService
	providers   ProviderLister
	authz       *appAuth.AuthorizationService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(userService services.UserService, providers ProviderLister, authz *appAuth.AuthorizationService) *DashboardController {
	return &DashboardController{
		userService: userService,
		providers:   providers,
		authz:       authz,
	}
}

// LoginPage godoc
// @Summary Login page
// @Description Lists the sign-in methods. A visitor that is already signed in is sent on to the callback or landing page.
// @Tags pages
// @Produce json
// @Param callbackUrl query string false "Where to go after sign-in"
// @Success 200 {object} dto.LoginPage
// @Success 302 "Already signed in"
// @Router /login [get]
func (c *DashboardController) LoginPage(ctx *gin.Context) {
	callbackURL := ctx.Query("callbackUrl")
	if session, ok := middleware.GetSession(ctx); ok {
		ctx.Redirect(http.StatusFound, c.authz.ResolveRedirect(callbackURL, session.Role))
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginPage{
		Page:        "login",
		CallbackURL: callbackURL,
		Providers:   c.providers.Providers(),
	})
}

// Dashboard godoc
// @Summary Dashboard redirector
// @Description Sends the visitor to the landing page of their role
// @Tags pages
// @Success 302 "Redirect to the role landing page"
// @Router /dashboard [get]
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	session, _ := middleware.GetSession(ctx)
	ctx.Redirect(http.StatusFound, appAuth.LandingPath(session.Role))
}

// AdminDashboard godoc
// @Summary Admin dashboard
// @Tags pages
// @Produce json
// @Success 200 {object} dto.AdminDashboardPage
// @Success 302 "Not signed in or not an admin"
// @Router /admin/dashboard [get]
func (c *DashboardController) AdminDashboard(ctx *gin.Context) {
	session, _ := middleware.GetSession(ctx)

	page, err := c.userService.AdminDashboard(ctx.Request.Context(), session)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// AddCoursePage godoc
// @Summary Add course page
// @Description Describes the course creation form and its rules
// @Tags pages
// @Produce json
// @Success 200 {object} dto.AddCoursePage
// @Success 302 "Not signed in or not an admin"
// @Router /admin/dashboard/add-course [get]
func (c *DashboardController) AddCoursePage(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.AddCoursePage{
		Page:     "add-course",
		Endpoint: "/api/v1/courses",
		Fields:   addCourseFields,
	})
}

// ManageUsersPage godoc
// @Summary Manage users page
// @Tags pages
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.ManageUsersPage
// @Success 302 "Not signed in or not an admin"
// @Router /admin/dashboard/manage-users [get]
func (c *DashboardController) ManageUsersPage(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	users, pagination, err := c.userService.ListUsers(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ManageUsersPage{
		Page:       "manage-users",
		Users:      users,
		Pagination: pagination,
	})
}

// StudentDashboard godoc
// @Summary Student dashboard
// @Tags pages
// @Produce json
// @Success 200 {object} dto.StudentDashboardPage
// @Success 302 "Not signed in or not a student"
// @Router /student/dashboard [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	session, _ := middleware.GetSession(ctx)

	page, err := c.userService.StudentDashboard(ctx.Request.Context(), session)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

var addCourseFields = []dto.FormField{
	{Name: "title", Type: "text", Required: true, Rule: validation.CourseMessages["title.min"]},
	{Name: "description", Type: "textarea", Required: true, Rule: validation.CourseMessages["description.min"]},
	{Name: "instructor", Type: "text", Required: true, Rule: validation.CourseMessages["instructor.min"]},
	{Name: "price", Type: "number", Required: true, Rule: validation.CourseMessages["price.gte"]},
	{Name: "category", Type: "text", Required: true, Rule: validation.CourseMessages["category.min"]},
	{Name: "tags", Type: "text", Rule: "Comma separated"},
	{Name: "thumbnailUrl", Type: "url", Rule: validation.CourseMessages["thumbnailUrl.url"]},
	{Name: "syllabus", Type: "textarea"},
}
