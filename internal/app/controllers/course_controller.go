package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

const msgCourseInternal = "An internal server error occurred."

// CourseService is the course behaviour used by CourseController
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	ListCourses(ctx context.Context, page, pageSize int) (*dto.PaginatedResponse, error)
}

// CourseController handles course endpoints
type CourseController struct {
	courseService CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{courseService: courseService, logger: logger}
}

// CreateCourse handles course creation
// @Summary Create a course
// @Description Validates and stores a course. Tags may be sent as an array or a comma separated string. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.CourseCreatedResponse "Course created successfully!"
// @Failure 400 {object} dto.CourseValidationResponse "Invalid data provided."
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.MessageResponse "An internal server error occurred."
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.CourseValidationResponse{
			Message: services.MsgInvalidCourse,
			Errors:  dto.BindErrorDetails(err),
		})
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidationFailed):
			fields := dto.NewValidationErrors().AddFieldErrors(services.FieldErrorsOf(err))
			ctx.JSON(http.StatusBadRequest, dto.CourseValidationResponse{
				Message: services.MsgInvalidCourse,
				Errors:  fields.Errors,
			})
		case apperrors.Is(err, apperrors.ErrUnauthenticated, apperrors.ErrPermissionDenied):
			middleware.HandleAPIError(ctx, err)
		default:
			c.logger.Error().Err(err).Msg("Failed to create course")
			ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: msgCourseInternal})
		}
		return
	}

	ctx.JSON(http.StatusCreated, dto.CourseCreatedResponse{
		Message:  "Course created successfully!",
		CourseID: course.ID.Hex(),
	})
}

// ListCourses handles the public course listing
// @Summary List courses
// @Description Returns courses newest first
// @Tags courses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.CourseResponse}}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.courseService.ListCourses(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
