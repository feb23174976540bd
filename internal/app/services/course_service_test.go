package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

func newTestCourseService(repo *fakeCourseRepo) *CourseService {
	s := NewCourseService(repo, newTestAuthz(), testLogger)
	s.now = fixedClock
	return s
}

func adminContext() context.Context {
	return auth.WithSession(context.Background(), auth.SessionUser{ID: "admin-1", Role: models.RoleAdmin})
}

func price(v float64) *float64 { return &v }

func validCourse() *dto.CreateCourseRequest {
	return &dto.CreateCourseRequest{
		Title:        "Intro to Go",
		Description:  "Learn Go from first principles, one package at a time.",
		Instructor:   "Rob",
		Price:        price(0),
		Category:     "Programming",
		Tags:         dto.TagList{"go", "backend", "go"},
		ThumbnailURL: "https://cdn.example.com/go.png",
	}
}

func TestCreateCourse(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseService(repo)

	course, err := s.CreateCourse(adminContext(), validCourse())
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if len(repo.courses) != 1 {
		t.Fatalf("stored %d courses, want 1", len(repo.courses))
	}
	stored := repo.courses[0]
	if stored != course || course.ID.IsZero() {
		t.Fatalf("course = %+v", course)
	}
	if stored.EnrolledStudents == nil || len(stored.EnrolledStudents) != 0 {
		t.Fatalf("enrolledStudents = %#v", stored.EnrolledStudents)
	}
	if !stored.CreatedAt.Equal(fixedNow) {
		t.Fatalf("createdAt = %v", stored.CreatedAt)
	}
	if strings.Join(stored.Tags, ",") != "go,backend,go" {
		t.Fatalf("tags = %v", stored.Tags)
	}
}

func TestCreateCourseRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.CreateCourseRequest)
		field  string
		msg    string
	}{
		{"short title", func(r *dto.CreateCourseRequest) { r.Title = "Go" }, "title", "Title must be at least 5 characters long."},
		{"blank title", func(r *dto.CreateCourseRequest) { r.Title = "    " }, "title", "Title must be at least 5 characters long."},
		{"short description", func(r *dto.CreateCourseRequest) { r.Description = "Too short" }, "description", "Description must be at least 20 characters long."},
		{"missing instructor", func(r *dto.CreateCourseRequest) { r.Instructor = "" }, "instructor", "Instructor name is required."},
		{"one letter instructor", func(r *dto.CreateCourseRequest) { r.Instructor = "R" }, "instructor", "Instructor name is required."},
		{"missing price", func(r *dto.CreateCourseRequest) { r.Price = nil }, "price", "Price is required."},
		{"negative price", func(r *dto.CreateCourseRequest) { r.Price = price(-1) }, "price", "Price must be a positive number."},
		{"missing category", func(r *dto.CreateCourseRequest) { r.Category = "" }, "category", "Category is required."},
		{"bad thumbnail", func(r *dto.CreateCourseRequest) { r.ThumbnailURL = "not a url" }, "thumbnailUrl", "Invalid thumbnail URL provided."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCourseRepo{}
			s := newTestCourseService(repo)
			req := validCourse()
			tt.mutate(req)

			_, err := s.CreateCourse(adminContext(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("err = %v, want validation failure", err)
			}
			if apperrors.UserMessage(err, "") != MsgInvalidCourse {
				t.Fatalf("message = %q", apperrors.UserMessage(err, ""))
			}
			fields := FieldErrorsOf(err)
			if len(fields) != 1 || fields[0].Field != tt.field || fields[0].Message != tt.msg {
				t.Fatalf("fields = %+v", fields)
			}
			if len(repo.courses) != 0 {
				t.Fatal("no course should be stored")
			}
		})
	}
}

func TestCreateCourseValidatesValuesAsSent(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseService(repo)
	req := validCourse()
	req.Title = "  Go! "
	req.Instructor = " R"

	course, err := s.CreateCourse(adminContext(), req)
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.Title != "  Go! " || course.Instructor != " R" {
		t.Errorf("stored title %q instructor %q, want the submitted values", course.Title, course.Instructor)
	}
}

func TestCreateCourseReportsEveryFailedRule(t *testing.T) {
	s := newTestCourseService(&fakeCourseRepo{})

	_, err := s.CreateCourse(adminContext(), &dto.CreateCourseRequest{})
	fields := FieldErrorsOf(err)
	if len(fields) != 5 {
		t.Fatalf("fields = %+v, want title, description, instructor, price and category", fields)
	}
}

func TestCreateCourseOptionalFields(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseService(repo)
	req := validCourse()
	req.ThumbnailURL = ""
	req.Syllabus = ""
	req.Tags = nil

	course, err := s.CreateCourse(adminContext(), req)
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.Tags == nil || len(course.Tags) != 0 {
		t.Fatalf("tags = %#v", course.Tags)
	}
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseService(repo)

	student := auth.WithSession(context.Background(), auth.SessionUser{ID: "s-1", Role: models.RoleStudent})
	if _, err := s.CreateCourse(student, validCourse()); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("student err = %v", err)
	}
	if _, err := s.CreateCourse(context.Background(), validCourse()); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("anonymous err = %v", err)
	}
	if len(repo.courses) != 0 {
		t.Fatal("no course should be stored")
	}
}

func TestCreateCourseStorageFailure(t *testing.T) {
	s := newTestCourseService(&fakeCourseRepo{createErr: errors.New("write concern timeout")})
	if _, err := s.CreateCourse(adminContext(), validCourse()); err == nil || errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestListCourses(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseService(repo)
	for _, title := range []string{"First course", "Second course", "Third course"} {
		req := validCourse()
		req.Title = title
		if _, err := s.CreateCourse(adminContext(), req); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.ListCourses(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	items := page.Items.([]dto.CourseResponse)
	if len(items) != 2 || items[0].Title != "Third course" {
		t.Fatalf("items = %+v", items)
	}
	if page.Pagination.TotalItems != 3 || page.Pagination.TotalPages != 2 {
		t.Fatalf("pagination = %+v", page.Pagination)
	}

	// an out of range size falls back to the default used by the query
	page, err = s.ListCourses(context.Background(), 1, 1000)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if page.Pagination.PageSize != helpers.DefaultPageSize || page.Pagination.TotalPages != 1 {
		t.Fatalf("pagination = %+v, want the default page size", page.Pagination)
	}
}
