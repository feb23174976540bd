package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the part of the user repository the seed needs
type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *appModels.User) error
}

// Admin describes the default administrator account
type Admin struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultAdmin creates the configured administrator if no account uses its email.
// An empty email disables seeding. Running it again is a no-op.
func CreateDefaultAdmin(ctx context.Context, users UserStore, admin Admin, lgr zerolog.Logger) error {
	email := validation.NormalizeEmail(admin.Email)
	if email == "" {
		lgr.Debug().Msg("No default admin configured, skipping seed")
		return nil
	}
	if !validation.IsValidEmail(email) {
		return fmt.Errorf("default admin email %q is invalid", admin.Email)
	}

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking if admin user exists: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	name := strings.TrimSpace(admin.Name)
	if name == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	user := &appModels.User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Email:           email,
		Password:        hashed,
		Role:            appModels.RoleAdmin,
		Provider:        appModels.ProviderCredentials,
		EnrolledCourses: []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := users.Create(ctx, user); err != nil {
		// Another instance seeded it first
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Str("adminID", user.ID.Hex()).Str("email", email).Msg("Default admin user created successfully")
	return nil
}
