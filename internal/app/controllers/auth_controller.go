// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// AuthService is the credentials side of authentication used by AuthController
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// IdentityService is the OAuth side of authentication used by AuthController
type IdentityService interface {
	Providers() []dto.ProviderInfo
	BeginOAuth(ctx context.Context, provider, callbackURL string) (string, error)
	CompleteOAuth(ctx context.Context, provider, state, code string) (*services.OAuthResult, error)
}

// SessionCookie configures the cookie that carries the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService     AuthService
	identityService IdentityService
	cookie          SessionCookie
	logger          zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, identityService IdentityService, cookie SessionCookie, logger zerolog.Logger) *AuthController {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultSessionCookie
	}
	return &AuthController{
		authService:     authService,
		identityService: identityService,
		cookie:          cookie,
		logger:          logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a credentials account with the student role. The password is stored as a bcrypt hash.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.RegisterResponse "User registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing fields, invalid email, short password or long name"
// @Failure 409 {object} dto.ErrorResponse "User with this email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// Login handles credentials sign-in
// @Summary User login
// @Description Verifies email and password, sets the session cookie and returns the session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, resp.Token, resp.ExpiresAt)
	ctx.JSON(http.StatusOK, resp)
}

// Logout clears the session cookie
// @Summary Sign out
// @Description Clears the session cookie. Tokens are stateless, so a copied token stays valid until it expires.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse "Signed out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, "", -1, "/", "", c.cookie.Secure, true)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Signed out"})
}

// Session returns the current session
// @Summary Current session
// @Description Returns the identity carried by the session token, or null when signed out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponse "Current session or null"
// @Router /auth/session [get]
func (c *AuthController) Session(ctx *gin.Context) {
	session, ok := middleware.GetSession(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, nil)
		return
	}
	ctx.JSON(http.StatusOK, dto.SessionResponse{User: session})
}

// Providers lists the enabled sign-in methods
// @Summary Sign-in providers
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ProviderInfo}
// @Router /auth/providers [get]
func (c *AuthController) Providers(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.identityService.Providers()})
}

// OAuthStart redirects to the identity provider consent page
// @Summary Start OAuth sign-in
// @Tags auth
// @Param provider path string true "Provider" Enums(google, github)
// @Param callbackUrl query string false "Where to go after sign-in"
// @Success 302 "Redirect to the provider"
// @Failure 404 {object} dto.ErrorResponse "Unknown or disabled provider"
// @Router /auth/oauth/{provider} [get]
func (c *AuthController) OAuthStart(ctx *gin.Context) {
	url, err := c.identityService.BeginOAuth(ctx.Request.Context(), ctx.Param("provider"), ctx.Query("callbackUrl"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, url)
}

// OAuthCallback completes an OAuth sign-in
// @Summary OAuth callback
// @Description Validates the state, exchanges the code, signs the account in and redirects
// @Tags auth
// @Param provider path string true "Provider" Enums(google, github)
// @Param state query string true "State issued by the start endpoint"
// @Param code query string true "Authorization code"
// @Success 302 "Redirect to the post sign-in page with the session cookie set"
// @Failure 401 {object} dto.ErrorResponse "Invalid state or failed exchange"
// @Failure 404 {object} dto.ErrorResponse "Unknown or disabled provider"
// @Router /auth/oauth/{provider}/callback [get]
func (c *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := ctx.Param("provider")
	if denied := ctx.Query("error"); denied != "" {
		c.logger.Info().Str("provider", provider).Str("error", denied).Msg("OAuth sign-in cancelled at provider")
	}

	result, err := c.identityService.CompleteOAuth(ctx.Request.Context(), provider, ctx.Query("state"), ctx.Query("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("provider", provider).
		Str("userID", result.User.ID).
		Str("action", result.Action.String()).
		Msg("OAuth sign-in completed")

	c.setSessionCookie(ctx, result.Token, result.ExpiresAt)
	ctx.Redirect(http.StatusFound, result.RedirectURL)
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookie.Name, token, maxAge, "/", "", c.cookie.Secure, true)
}
