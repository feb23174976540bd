package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

const recentCoursesOnDashboard = 5

// UserService defines the interface for user operations
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]dto.UserResponse, dto.PaginationInfo, error)
	AdminDashboard(ctx context.Context, viewer auth.SessionUser) (*dto.AdminDashboardPage, error)
	StudentDashboard(ctx context.Context, viewer auth.SessionUser) (*dto.StudentDashboardPage, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo   repositories.IUserRepository
	courseRepo repositories.ICourseRepository
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	courseRepo repositories.ICourseRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// GetUserByID retrieves a user by ID
func (s *userServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a page of accounts without their password hashes
func (s *userServiceImpl) ListUsers(ctx context.Context, page, pageSize int) ([]dto.UserResponse, dto.PaginationInfo, error) {
	skip, limit := helpers.CalculateSkipLimit(page, pageSize)

	users, err := s.userRepo.List(ctx, skip, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing users")
		return nil, dto.PaginationInfo{}, err
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error counting users")
		return nil, dto.PaginationInfo{}, err
	}

	return dto.FromUsers(users), helpers.NewPaginationInfo(total, page, int(limit)), nil
}

// AdminDashboard collects the counters and recent courses shown to admins
func (s *userServiceImpl) AdminDashboard(ctx context.Context, viewer auth.SessionUser) (*dto.AdminDashboardPage, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalCourses, err := s.courseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.courseRepo.List(ctx, 0, recentCoursesOnDashboard)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardPage{
		Page:          "admin-dashboard",
		Viewer:        viewer,
		TotalUsers:    totalUsers,
		TotalCourses:  totalCourses,
		RecentCourses: dto.FromCourses(recent),
	}, nil
}

// StudentDashboard loads the student's profile and enrolled courses
func (s *userServiceImpl) StudentDashboard(ctx context.Context, viewer auth.SessionUser) (*dto.StudentDashboardPage, error) {
	user, err := s.userRepo.GetByID(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseRepo.GetByIDs(ctx, user.EnrolledCourses)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", viewer.ID).Msg("Error loading enrolled courses")
		return nil, err
	}

	return &dto.StudentDashboardPage{
		Page:            "student-dashboard",
		Profile:         dto.FromUser(user),
		EnrolledCourses: dto.FromCourses(courses),
	}, nil
}
