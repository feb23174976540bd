package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/helpers"
	"github.com/yigit/learnhub/internal/pkg/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MsgInvalidCourse is the message returned alongside the failed course rules
const MsgInvalidCourse = "Invalid data provided."

// CourseService handles course operations
type CourseService struct {
	courseRepo repositories.ICourseRepository
	authz      *appAuth.AuthorizationService
	validator  *validation.Validator
	logger     zerolog.Logger
	now        clock
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.ICourseRepository, authz *appAuth.AuthorizationService, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		authz:      authz,
		validator:  validation.NewValidator(validation.CourseMessages),
		logger:     logger,
		now:        utcNow,
	}
}

// FieldErrorsOf returns the failed course rules carried by a validation error
func FieldErrorsOf(err error) []validation.FieldError {
	if fields, ok := apperrors.DetailsOf(err)["fields"].([]validation.FieldError); ok {
		return fields
	}
	return nil
}

// CreateCourse validates and stores a course. Only admins may create courses; the
// route is guarded too, but the check is repeated here.
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	session, _ := auth.SessionFromContext(ctx)
	if err := s.authz.RequireAdmin(session); err != nil {
		s.logger.Warn().Str("userID", session.ID).Str("role", string(session.Role)).Msg("Course creation denied")
		return nil, err
	}

	fields, err := s.validator.Struct(req)
	if err != nil {
		return nil, fmt.Errorf("error validating course: %w", err)
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(MsgInvalidCourse, map[string]interface{}{"fields": fields})
	}

	tags := []string(req.Tags)
	if tags == nil {
		tags = []string{}
	}

	course := &models.Course{
		ID:               primitive.NewObjectID(),
		Title:            req.Title,
		Description:      req.Description,
		Instructor:       req.Instructor,
		Price:            *req.Price,
		Category:         req.Category,
		Tags:             tags,
		ThumbnailURL:     req.ThumbnailURL,
		Syllabus:         req.Syllabus,
		CreatedAt:        s.now(),
		EnrolledStudents: []primitive.ObjectID{},
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("courseID", course.ID.Hex()).Str("createdBy", session.ID).Msg("Course created")
	return course, nil
}

// ListCourses returns a page of courses, newest first
func (s *CourseService) ListCourses(ctx context.Context, page, pageSize int) (*dto.PaginatedResponse, error) {
	skip, limit := helpers.CalculateSkipLimit(page, pageSize)

	courses, err := s.courseRepo.List(ctx, skip, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing courses")
		return nil, err
	}

	total, err := s.courseRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error counting courses")
		return nil, err
	}

	return &dto.PaginatedResponse{
		Items:      dto.FromCourses(courses),
		Pagination: helpers.NewPaginationInfo(total, page, int(limit)),
	}, nil
}
