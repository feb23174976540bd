package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration messages shown to the user
const (
	msgRegisterRequired  = "Name, email, and password are required"
	msgRegisterEmail     = "Invalid email format"
	msgRegisterPassword  = "Password must be at least 8 characters long"
	msgRegisterNameLong  = "Name must be at most 50 characters long"
	msgRegisterDuplicate = "User with this email already exists"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	authz      *appAuth.AuthorizationService
	logger     zerolog.Logger
	now        clock
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	authz *appAuth.AuthorizationService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		authz:      authz,
		logger:     logger,
		now:        utcNow,
	}
}

// validateRegistration checks the registration input and returns the first failed rule
func (s *AuthService) validateRegistration(req *dto.RegisterRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError(msgRegisterRequired, nil)
	}

	if !validation.NewStringValidation(name).WithMaxLength(validation.NameMaxLength).Validate() {
		return apperrors.NewValidationError(msgRegisterNameLong, map[string]interface{}{"field": "name"})
	}

	if !validation.IsValidEmail(strings.TrimSpace(req.Email)) {
		return apperrors.NewValidationError(msgRegisterEmail, map[string]interface{}{"field": "email"})
	}

	if !validation.NewStringValidation(req.Password).WithMinLength(validation.PasswordMinLength).Validate() {
		return apperrors.NewValidationError(msgRegisterPassword, map[string]interface{}{"field": "password"})
	}

	return nil
}

// Register creates a credentials account with the student role
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(req.Email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Error checking email during registration")
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, msgRegisterDuplicate)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		Password:        hash,
		Role:            models.RoleStudent,
		Provider:        models.ProviderCredentials,
		EnrolledCourses: []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, msgRegisterDuplicate)
		}
		return nil, err
	}

	s.logger.Info().Str("userID", user.HexID()).Str("email", email).Msg("User registered")

	return &dto.RegisterResponse{
		Message:     "User registered successfully",
		User:        dto.FromUser(user),
		RedirectURL: appAuth.LandingPath(user.Role),
	}, nil
}

// Authorize verifies email and password. Every failure, including lookup errors, is
// reported as ErrInvalidCredentials so callers cannot tell which part was wrong.
func (s *AuthService) Authorize(ctx context.Context, email, password string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("email", email).Msg("Error looking up user during sign-in")
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	// OAuth-only accounts have no password
	if user.Password == "" || !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	user.Role = user.Role.OrDefault()
	return user, nil
}

// Login authorizes the credentials, records the sign-in and issues a session token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.Authorize(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	s.touchLastLogin(ctx, user)

	session := auth.NewSessionUser(user)
	token, expiresAt, err := s.jwtService.GenerateSessionToken(session)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", session.ID).Msg("Error issuing session token")
		return nil, err
	}

	return &dto.LoginResponse{
		User:        session,
		Token:       token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		RedirectURL: s.authz.ResolveRedirect(req.CallbackURL, session.Role),
	}, nil
}

// touchLastLogin records the sign-in time; failures do not block the sign-in
func (s *AuthService) touchLastLogin(ctx context.Context, user *models.User) {
	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.HexID()).Msg("Failed to update last login")
		return
	}
	user.LastLogin = &now
}
