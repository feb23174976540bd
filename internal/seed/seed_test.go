package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

type memoryUsers struct {
	users     map[string]*appModels.User
	createErr error
}

func (m *memoryUsers) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *memoryUsers) Create(_ context.Context, user *appModels.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = map[string]*appModels.User{}
	}
	m.users[user.Email] = user
	return nil
}

func TestCreateDefaultAdmin(t *testing.T) {
	store := &memoryUsers{}
	admin := Admin{Name: "Root", Email: " Root@Example.com ", Password: "super-secret"}

	if err := CreateDefaultAdmin(context.Background(), store, admin, zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultAdmin: %v", err)
	}

	user, ok := store.users["root@example.com"]
	if !ok {
		t.Fatalf("admin not stored under normalized email: %v", store.users)
	}
	if user.Role != appModels.RoleAdmin || user.Provider != appModels.ProviderCredentials {
		t.Errorf("role/provider = %s/%s", user.Role, user.Provider)
	}
	if user.Password == admin.Password || !auth.CheckPassword(user.Password, admin.Password) {
		t.Error("password must be stored as a bcrypt hash of the configured password")
	}

	// second run is a no-op
	store.createErr = errors.New("must not be called")
	if err := CreateDefaultAdmin(context.Background(), store, admin, zerolog.Nop()); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestCreateDefaultAdminDisabledAndInvalid(t *testing.T) {
	store := &memoryUsers{}
	if err := CreateDefaultAdmin(context.Background(), store, Admin{}, zerolog.Nop()); err != nil {
		t.Fatalf("empty email: %v", err)
	}
	if len(store.users) != 0 {
		t.Error("no account expected when seeding is disabled")
	}

	if err := CreateDefaultAdmin(context.Background(), store, Admin{Email: "nope", Password: "long-enough"}, zerolog.Nop()); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestCreateDefaultAdminRace(t *testing.T) {
	store := &memoryUsers{createErr: apperrors.ErrEmailAlreadyExists}
	if err := CreateDefaultAdmin(context.Background(), store, Admin{Email: "a@b.co", Password: "long-enough"}, zerolog.Nop()); err != nil {
		t.Errorf("duplicate on create should be ignored, got %v", err)
	}
}
