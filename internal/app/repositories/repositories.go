package repositories

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	CourseRepository     *CourseRepository
	OAuthStateRepository *OAuthStateRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *mongo.Database, rdb redis.Cmdable) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CourseRepository:     NewCourseRepository(db),
		OAuthStateRepository: NewOAuthStateRepository(rdb),
	}
}
