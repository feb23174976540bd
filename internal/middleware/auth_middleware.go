package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// Gin context keys set by LoadSession
const (
	SessionKey      = "session"
	SessionErrorKey = "sessionError"
)

// DefaultSessionCookie is the cookie carrying the session token
const DefaultSessionCookie = "session_token"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	authz      *appAuth.AuthorizationService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authz *appAuth.AuthorizationService, cookieName string) *AuthMiddleware {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		authz:      authz,
		cookieName: cookieName,
	}
}

// CookieName returns the name of the session cookie
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// LoadSession reads the session token from the cookie or the Authorization header.
// A valid session is placed in the gin context and in the request context; an absent
// or invalid token leaves the request anonymous.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			c.Set(SessionErrorKey, err)
			c.Next()
			return
		}

		session := claims.User()
		c.Set(SessionKey, session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

func (m *AuthMiddleware) tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// GetSession returns the session loaded for this request
func GetSession(c *gin.Context) (auth.SessionUser, bool) {
	value, ok := c.Get(SessionKey)
	if !ok {
		return auth.SessionUser{}, false
	}
	session, ok := value.(auth.SessionUser)
	return session, ok
}

// RequireSession aborts with 401 when the request carries no valid session
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); ok {
			c.Next()
			return
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		if value, ok := c.Get(SessionErrorKey); ok {
			if err, _ := value.(error); errors.Is(err, apperrors.ErrTokenExpired) {
				errorDetail = dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Session expired").WithSeverity(dto.ErrorSeverityWarning)
			} else {
				errorDetail = errorDetail.WithDetails("Invalid session token")
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
}

// RoleRequired aborts with 401 without a session and 403 when the role differs
func (m *AuthMiddleware) RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			m.RequireSession()(c)
			return
		}

		if err := m.authz.RequireRole(session, role); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// PageSessionRequired redirects anonymous visitors to the login page
func (m *AuthMiddleware) PageSessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.Redirect(http.StatusFound, appAuth.LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageRoleRequired gates a page tree by role. Anonymous visitors go to the login page
// and come back afterwards; signed-in visitors with another role go to their own landing page.
func (m *AuthMiddleware) PageRoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			c.Redirect(http.StatusFound, appAuth.LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		if err := m.authz.RequireRole(session, role); err != nil {
			c.Redirect(http.StatusFound, appAuth.LandingPath(session.Role))
			c.Abort()
			return
		}

		c.Next()
	}
}
