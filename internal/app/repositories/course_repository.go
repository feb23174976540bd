package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ICourseRepository defines the interface for course database operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	List(ctx context.Context, skip, limit int64) ([]*models.Course, error)
	Count(ctx context.Context) (int64, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Course, error)
}

// CourseRepository stores courses in the courses collection
type CourseRepository struct {
	coll *mongo.Collection
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection("courses")}
}

// Create inserts a course and sets its id
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []primitive.ObjectID{}
	}
	if course.Tags == nil {
		course.Tags = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, course); err != nil {
		logger.Error().Err(err).Str("title", course.Title).Msg("Error inserting course")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// List returns courses newest first
func (r *CourseRepository) List(ctx context.Context, skip, limit int64) ([]*models.Course, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return n, nil
}

// GetByIDs returns the courses with the given ids. Unknown ids are ignored since
// enrolments are weak references.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *CourseRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Course, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	courses := make([]*models.Course, 0)
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("error decoding courses: %w", err)
	}
	return courses, nil
}
