package auth

import (
	"net/url"
	"strings"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	sessionauth "github.com/yigit/learnhub/internal/pkg/auth"
)

// Landing pages per role
const (
	AdminLandingPath   = "/admin/dashboard"
	StudentLandingPath = "/student/dashboard"
	LoginPath          = "/login"
)

// AuthorizationService decides what a session may do and where it lands after sign-in
type AuthorizationService struct {
	baseURL *url.URL
}

// NewAuthorizationService creates a new AuthorizationService. baseURL is the public origin
// of the application and is used to accept absolute same-origin redirect targets.
func NewAuthorizationService(baseURL string) *AuthorizationService {
	s := &AuthorizationService{}
	if u, err := url.Parse(strings.TrimRight(baseURL, "/")); err == nil && u.Scheme != "" && u.Host != "" {
		s.baseURL = u
	}
	return s
}

// IsAdmin checks if the session holds the admin role
func (s *AuthorizationService) IsAdmin(user sessionauth.SessionUser) bool {
	return user.Role == models.RoleAdmin
}

// RequireAdmin validates that the session holds the admin role or returns an error
func (s *AuthorizationService) RequireAdmin(user sessionauth.SessionUser) error {
	if user.ID == "" {
		return apperrors.ErrUnauthenticated
	}
	if !s.IsAdmin(user) {
		return apperrors.NewForbiddenError("You are not authorized to perform this action.")
	}
	return nil
}

// RequireRole validates that the session holds exactly the given role
func (s *AuthorizationService) RequireRole(user sessionauth.SessionUser, role models.Role) error {
	if user.ID == "" {
		return apperrors.ErrUnauthenticated
	}
	if user.Role.OrDefault() != role {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// LandingPath returns the dashboard a role lands on
func LandingPath(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminLandingPath
	}
	return StudentLandingPath
}

// ResolveRedirect picks the post-authentication destination. A caller-supplied target is
// honored when it is a relative path or an absolute URL on the application origin;
// anything else falls back to the role landing page.
func (s *AuthorizationService) ResolveRedirect(target string, role models.Role) string {
	target = strings.TrimSpace(target)
	if target == "" || !isPlainTarget(target) {
		return LandingPath(role)
	}

	u, err := url.Parse(target)
	if err != nil {
		return LandingPath(role)
	}

	if u.Scheme == "" && u.Host == "" && u.User == nil {
		if strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(u.Path, "//") && !strings.HasPrefix(target, "//") {
			return target
		}
		return LandingPath(role)
	}

	if s.baseURL != nil && u.Scheme == s.baseURL.Scheme && u.Host == s.baseURL.Host && u.User == nil {
		return s.baseURL.Scheme + "://" + s.baseURL.Host + u.RequestURI()
	}

	return LandingPath(role)
}

// LoginRedirect returns the login page URL that brings the visitor back to path
func LoginRedirect(path string) string {
	return LoginPath + "?callbackUrl=" + url.QueryEscape(path)
}

// isPlainTarget rejects control bytes and backslashes. Browsers drop tab and newline
// while parsing and read "\" as "/", so either can turn "/x" into a foreign host.
func isPlainTarget(target string) bool {
	for i := 0; i < len(target); i++ {
		if c := target[i]; c < 0x20 || c == 0x7f || c == '\\' {
			return false
		}
	}
	return true
}
