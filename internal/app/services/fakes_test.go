package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/identity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

var testLogger = zerolog.Nop()

// fakeUserRepo is an in-memory user store keyed by email
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	// beforeCreate runs before the uniqueness check, to simulate concurrent writers
	beforeCreate func()
	lookupErr    error
	lastLogins   map[primitive.ObjectID]time.Time
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}, lastLogins: map[primitive.ObjectID]time.Time{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) put(u *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Email] = u
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook()
	}
	if err := u.Validate(); err != nil {
		return apperrors.ErrPasswordRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.LastLogin = &at
			r.lastLogins[id] = at
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id primitive.ObjectID, avatar string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id && u.Avatar == "" {
			u.Avatar = avatar
			u.UpdatedAt = at
		}
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, skip, limit int64) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		cp.Password = ""
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	if skip >= int64(len(all)) {
		return []*models.User{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) {
	return int64(r.count()), nil
}

// fakeCourseRepo keeps courses in insertion order
type fakeCourseRepo struct {
	courses   []*models.Course
	createErr error
}

func (r *fakeCourseRepo) Create(_ context.Context, c *models.Course) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.courses = append(r.courses, c)
	return nil
}

func (r *fakeCourseRepo) List(_ context.Context, skip, limit int64) ([]*models.Course, error) {
	out := make([]*models.Course, 0)
	for i := len(r.courses) - 1; i >= 0; i-- {
		out = append(out, r.courses[i])
	}
	if skip >= int64(len(out)) {
		return []*models.Course{}, nil
	}
	end := skip + limit
	if end > int64(len(out)) {
		end = int64(len(out))
	}
	return out[skip:end], nil
}

func (r *fakeCourseRepo) Count(context.Context) (int64, error) {
	return int64(len(r.courses)), nil
}

func (r *fakeCourseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Course, error) {
	out := make([]*models.Course, 0)
	for _, c := range r.courses {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// fakeStateRepo is a single-use state store
type fakeStateRepo struct {
	mu     sync.Mutex
	states map[string]repositories.OAuthState
	ttls   map[string]time.Duration
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: map[string]repositories.OAuthState{}, ttls: map[string]time.Duration{}}
}

func (r *fakeStateRepo) Save(_ context.Context, state string, data repositories.OAuthState, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state] = data
	r.ttls[state] = ttl
	return nil
}

func (r *fakeStateRepo) Consume(_ context.Context, state string) (*repositories.OAuthState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.states[state]
	if !ok {
		return nil, apperrors.ErrInvalidOAuthState
	}
	delete(r.states, state)
	return &data, nil
}

// fakeProvider returns a fixed profile for the code "ok"
type fakeProvider struct {
	name    string
	profile identity.Profile
}

func (p *fakeProvider) Name() string        { return p.name }
func (p *fakeProvider) DisplayName() string { return "Fake " + p.name }
func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://" + p.name + ".example.com/authorize?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*identity.Profile, error) {
	if code != "ok" {
		return nil, apperrors.ErrProviderExchange
	}
	profile := p.profile
	return &profile, nil
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenIssuer: "learnhub-test"})
}

func newTestAuthz() *appAuth.AuthorizationService {
	return appAuth.NewAuthorizationService("http://localhost:8080")
}
