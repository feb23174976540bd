package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/identity"
	"github.com/yigit/learnhub/internal/pkg/validation"
)

// DefaultOAuthStateTTL bounds the time between the consent redirect and the callback
const DefaultOAuthStateTTL = 10 * time.Minute

// OAuthResult is the outcome of a completed OAuth sign-in
type OAuthResult struct {
	User        auth.SessionUser
	Token       string
	ExpiresAt   time.Time
	RedirectURL string
	Action      appAuth.Action
}

// IdentityService signs users in through external identity providers
type IdentityService struct {
	providers  *identity.Registry
	stateRepo  repositories.IOAuthStateRepository
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	authz      *appAuth.AuthorizationService
	stateTTL   time.Duration
	logger     zerolog.Logger
	now        clock
	newState   func() (string, error)
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(
	providers *identity.Registry,
	stateRepo repositories.IOAuthStateRepository,
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	authz *appAuth.AuthorizationService,
	stateTTL time.Duration,
	logger zerolog.Logger,
) *IdentityService {
	if stateTTL <= 0 {
		stateTTL = DefaultOAuthStateTTL
	}
	return &IdentityService{
		providers:  providers,
		stateRepo:  stateRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		authz:      authz,
		stateTTL:   stateTTL,
		logger:     logger,
		now:        utcNow,
		newState:   func() (string, error) { return gonanoid.New() },
	}
}

// Providers lists the enabled sign-in methods, credentials first
func (s *IdentityService) Providers() []dto.ProviderInfo {
	out := []dto.ProviderInfo{{
		ID:        string(models.ProviderCredentials),
		Name:      "Email and password",
		Type:      "credentials",
		SignInURL: "/api/v1/auth/login",
	}}
	for _, p := range s.providers.List() {
		out = append(out, dto.ProviderInfo{
			ID:        p.Name(),
			Name:      p.DisplayName(),
			Type:      "oauth",
			SignInURL: "/api/v1/auth/oauth/" + p.Name(),
		})
	}
	return out
}

// BeginOAuth stores a single-use state nonce and returns the provider consent URL
func (s *IdentityService) BeginOAuth(ctx context.Context, providerName, callbackURL string) (string, error) {
	provider, ok := s.providers.Get(providerName)
	if !ok {
		return "", apperrors.ErrProviderNotFound
	}

	state, err := s.newState()
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}

	data := repositories.OAuthState{
		Provider:    provider.Name(),
		CallbackURL: callbackURL,
		CreatedAt:   s.now(),
	}
	if err := s.stateRepo.Save(ctx, state, data, s.stateTTL); err != nil {
		s.logger.Error().Err(err).Str("provider", providerName).Msg("Failed to store oauth state")
		return "", err
	}

	return provider.AuthCodeURL(state), nil
}

// CompleteOAuth validates the state, exchanges the code and signs the account in
func (s *IdentityService) CompleteOAuth(ctx context.Context, providerName, state, code string) (*OAuthResult, error) {
	provider, ok := s.providers.Get(providerName)
	if !ok {
		return nil, apperrors.ErrProviderNotFound
	}

	saved, err := s.stateRepo.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if saved.Provider != provider.Name() {
		s.logger.Warn().Str("expected", saved.Provider).Str("got", providerName).Msg("OAuth state issued for another provider")
		return nil, apperrors.ErrInvalidOAuthState
	}

	if code == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrProviderExchange, "Missing authorization code")
	}

	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", providerName).Msg("OAuth code exchange failed")
		return nil, apperrors.NewCustomError(fmt.Errorf("%w: %v", apperrors.ErrProviderExchange, err), "Sign-in with "+provider.DisplayName()+" failed")
	}

	user, action, err := s.signIn(ctx, *profile)
	if err != nil {
		return nil, err
	}

	session := auth.NewSessionUser(user)
	token, expiresAt, err := s.jwtService.GenerateSessionToken(session)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", session.ID).Msg("Error issuing session token")
		return nil, err
	}

	return &OAuthResult{
		User:        session,
		Token:       token,
		ExpiresAt:   expiresAt,
		RedirectURL: s.authz.ResolveRedirect(saved.CallbackURL, session.Role),
		Action:      action,
	}, nil
}

// signIn looks the account up by email and applies the resolved action. A duplicate key
// on insert means a concurrent first sign-in won, so the lookup is repeated once.
func (s *IdentityService) signIn(ctx context.Context, profile identity.Profile) (*models.User, appAuth.Action, error) {
	profile.Email = validation.NormalizeEmail(profile.Email)

	for attempt := 0; ; attempt++ {
		existing, err := s.userRepo.GetByEmail(ctx, profile.Email)
		if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("email", profile.Email).Msg("Error looking up user during oauth sign-in")
			return nil, appAuth.ActionNone, err
		}

		now := s.now()
		user, action, _ := appAuth.Resolve(profile, existing, now)

		switch action {
		case appAuth.ActionInsert:
			if err := s.userRepo.Create(ctx, user); err != nil {
				if errors.Is(err, apperrors.ErrEmailAlreadyExists) && attempt == 0 {
					continue
				}
				return nil, action, err
			}
			s.logger.Info().Str("userID", user.HexID()).Str("provider", profile.Provider).Msg("Provisioned account from identity provider")
		case appAuth.ActionBackfillAvatar:
			if err := s.userRepo.UpdateAvatar(ctx, user.ID, user.Avatar, now); err != nil {
				s.logger.Warn().Err(err).Str("userID", user.HexID()).Msg("Failed to backfill avatar")
			}
		}

		if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
			s.logger.Warn().Err(err).Str("userID", user.HexID()).Msg("Failed to update last login")
		} else {
			user.LastLogin = &now
		}

		return user, action, nil
	}
}
