package models

// Role defines the account role. It is a closed set: anything else is invalid.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// OrDefault returns r, or RoleStudent when r is empty or unknown
func (r Role) OrDefault() Role {
	if r.IsValid() {
		return r
	}
	return RoleStudent
}

// Provider identifies how an account authenticates
type Provider string

const (
	ProviderCredentials Provider = "credentials"
	ProviderGoogle      Provider = "google"
	ProviderGitHub      Provider = "github"
)

// IsOAuth reports whether the provider is an external OAuth provider
func (p Provider) IsOAuth() bool {
	return p == ProviderGoogle || p == ProviderGitHub
}
