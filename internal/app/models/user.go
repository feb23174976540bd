package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCredentialsPasswordMissing is returned by Validate for credentials users without a password hash
var ErrCredentialsPasswordMissing = errors.New("credentials users require a password")

// User is the document stored in the users collection
type User struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"665f1c2e9b1e8a3d4c5b6a70"`
	Name            string               `json:"name" bson:"name" example:"Ada Lovelace"`
	Email           string               `json:"email" bson:"email" example:"ada@example.com"`
	Password        string               `json:"-" bson:"password,omitempty"`
	Role            Role                 `json:"role" bson:"role" example:"student"`
	Avatar          string               `json:"avatar,omitempty" bson:"avatar,omitempty" example:"https://avatars.example.com/ada.png"`
	Provider        Provider             `json:"provider" bson:"provider" example:"credentials"`
	ProviderID      string               `json:"providerId,omitempty" bson:"providerId,omitempty"`
	EnrolledCourses []primitive.ObjectID `json:"enrolledCourses" bson:"enrolledCourses"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
	LastLogin       *time.Time           `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// Validate checks the document invariants that must hold before it is persisted
func (u *User) Validate() error {
	if u.Provider == "" || u.Provider == ProviderCredentials {
		if u.Password == "" {
			return ErrCredentialsPasswordMissing
		}
	}
	if !u.Role.IsValid() {
		return errors.New("invalid role: " + string(u.Role))
	}
	return nil
}

// HexID returns the string form of the document id
func (u *User) HexID() string {
	if u.ID.IsZero() {
		return ""
	}
	return u.ID.Hex()
}
