package auth

import (
	"strings"
	"time"

	"github.com/yigit/learnhub/internal/app/models"
	sessionauth "github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/identity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action tells the caller what to persist for an OAuth sign-in
type Action int

const (
	// ActionNone means the existing account is used unchanged
	ActionNone Action = iota
	// ActionInsert means a new account must be provisioned
	ActionInsert
	// ActionBackfillAvatar means the existing account only gains the provider avatar
	ActionBackfillAvatar
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionBackfillAvatar:
		return "backfill_avatar"
	default:
		return "none"
	}
}

// Resolve maps an external profile and the local account with the same email (nil when
// absent) to the record to persist, the persistence action and the session to issue.
// New accounts are students. Existing accounts keep their role and every other field;
// only an empty avatar is filled from the provider.
func Resolve(profile identity.Profile, existing *models.User, now time.Time) (*models.User, Action, sessionauth.SessionUser) {
	if existing == nil {
		user := &models.User{
			ID:              primitive.NewObjectID(),
			Name:            strings.TrimSpace(profile.Name),
			Email:           strings.ToLower(strings.TrimSpace(profile.Email)),
			Role:            models.RoleStudent,
			Avatar:          profile.AvatarURL,
			Provider:        models.Provider(profile.Provider),
			ProviderID:      profile.ProviderID,
			EnrolledCourses: []primitive.ObjectID{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if user.Name == "" {
			user.Name = user.Email
		}
		return user, ActionInsert, sessionauth.NewSessionUser(user)
	}

	user := *existing
	action := ActionNone
	if user.Avatar == "" && profile.AvatarURL != "" {
		user.Avatar = profile.AvatarURL
		user.UpdatedAt = now
		action = ActionBackfillAvatar
	}
	return &user, action, sessionauth.NewSessionUser(&user)
}
