package dto

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/validation"
)

// TagList accepts either a JSON array of strings or a comma separated string.
// Both forms are normalized to trimmed, non-empty tags in their original order.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler
func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = validation.SplitTags(raw)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(list), Field: "tags"}
	}
	*t = validation.CleanTags(list)
	return nil
}

func jsonKind(data []byte) string {
	switch {
	case len(data) == 0:
		return "empty"
	case data[0] == '[':
		return "array"
	case data[0] == '{':
		return "object"
	case data[0] == 't' || data[0] == 'f':
		return "bool"
	default:
		return "number"
	}
}

// CreateCourseRequest is the course creation payload
type CreateCourseRequest struct {
	Title        string   `json:"title" validate:"required,min=5" example:"Intro to Go"`
	Description  string   `json:"description" validate:"required,min=20" example:"Learn Go from first principles."`
	Instructor   string   `json:"instructor" validate:"required,min=2" example:"Rob Pike"`
	Price        *float64 `json:"price" validate:"required,gte=0" example:"49.99"`
	Category     string   `json:"category" validate:"required,min=2" example:"Programming"`
	Tags         TagList  `json:"tags" swaggertype:"array,string"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,url" example:"https://cdn.example.com/go.png"`
	Syllabus     string   `json:"syllabus"`
}

// CourseCreatedResponse is returned after a course is stored
type CourseCreatedResponse struct {
	Message  string `json:"message" example:"Course created successfully!"`
	CourseID string `json:"courseId" example:"665f1c2e9b1e8a3d4c5b6a71"`
}

// CourseValidationResponse lists every failed course rule
type CourseValidationResponse struct {
	Message string        `json:"message" example:"Invalid data provided."`
	Errors  []ErrorDetail `json:"errors"`
}

// MessageResponse carries a single message
type MessageResponse struct {
	Message string `json:"message" example:"An internal server error occurred."`
}

// CourseResponse is the public representation of a course
type CourseResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Instructor       string    `json:"instructor"`
	Price            float64   `json:"price"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	ThumbnailURL     string    `json:"thumbnailUrl,omitempty"`
	Syllabus         string    `json:"syllabus,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	EnrolledStudents int       `json:"enrolledStudents"`
}

// FromCourse converts a stored course
func FromCourse(c *models.Course) CourseResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CourseResponse{
		ID:               c.ID.Hex(),
		Title:            c.Title,
		Description:      c.Description,
		Instructor:       c.Instructor,
		Price:            c.Price,
		Category:         c.Category,
		Tags:             tags,
		ThumbnailURL:     c.ThumbnailURL,
		Syllabus:         c.Syllabus,
		CreatedAt:        c.CreatedAt,
		EnrolledStudents: len(c.EnrolledStudents),
	}
}

// FromCourses converts a list of stored courses
func FromCourses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, FromCourse(c))
	}
	return out
}
