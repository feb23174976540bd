package dto

import (
	"time"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// RegisterRequest represents a credentials registration request
type RegisterRequest struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message     string       `json:"message" example:"User registered successfully"`
	User        UserResponse `json:"user"`
	RedirectURL string       `json:"redirectUrl" example:"/student/dashboard"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CallbackURL string `json:"callbackUrl,omitempty" example:"/student/dashboard"`
}

// LoginResponse carries the issued session
type LoginResponse struct {
	User        auth.SessionUser `json:"user"`
	Token       string           `json:"token"`
	TokenType   string           `json:"tokenType" example:"Bearer"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	RedirectURL string           `json:"redirectUrl" example:"http://localhost:8080/student/dashboard"`
}

// SessionResponse is the session read shape; the endpoint returns null when signed out
type SessionResponse struct {
	User auth.SessionUser `json:"user"`
}

// ProviderInfo describes a sign-in method
type ProviderInfo struct {
	ID        string `json:"id" example:"google"`
	Name      string `json:"name" example:"Google"`
	Type      string `json:"type" example:"oauth"`
	SignInURL string `json:"signinUrl" example:"/api/v1/auth/oauth/google"`
}

// UserResponse represents a user without secrets
type UserResponse struct {
	ID              string          `json:"id" example:"665f1c2e9b1e8a3d4c5b6a70"`
	Name            string          `json:"name" example:"Ada Lovelace"`
	Email           string          `json:"email" example:"ada@example.com"`
	Role            models.Role     `json:"role" example:"student"`
	Avatar          string          `json:"avatar,omitempty"`
	Provider        models.Provider `json:"provider" example:"credentials"`
	EnrolledCourses []string        `json:"enrolledCourses"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	LastLogin       *time.Time      `json:"lastLogin,omitempty"`
}

// FromUser converts a stored user into its public representation
func FromUser(u *models.User) UserResponse {
	enrolled := make([]string, 0, len(u.EnrolledCourses))
	for _, id := range u.EnrolledCourses {
		enrolled = append(enrolled, id.Hex())
	}
	return UserResponse{
		ID:              u.HexID(),
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role.OrDefault(),
		Avatar:          u.Avatar,
		Provider:        u.Provider,
		EnrolledCourses: enrolled,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		LastLogin:       u.LastLogin,
	}
}

// FromUsers converts a list of stored users
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
