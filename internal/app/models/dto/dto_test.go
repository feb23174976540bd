package dto

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestTagListAcceptsStringAndArray(t *testing.T) {
	want := TagList{"a", "b", "b"}

	for _, body := range []string{
		`{"tags": "a, b, b"}`,
		`{"tags": ["a", " b", "b ", ""]}`,
	} {
		var req CreateCourseRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if !reflect.DeepEqual(req.Tags, want) {
			t.Errorf("%s -> %#v, want %#v", body, req.Tags, want)
		}
	}
}

func TestTagListRejectsOtherTypes(t *testing.T) {
	var req CreateCourseRequest
	if err := json.Unmarshal([]byte(`{"tags": 42}`), &req); err == nil {
		t.Fatal("numeric tags should be rejected")
	}
	if err := json.Unmarshal([]byte(`{"tags": null}`), &req); err != nil || req.Tags != nil {
		t.Fatalf("null tags: %v, %#v", err, req.Tags)
	}
}

func TestHandleValidationError(t *testing.T) {
	type login struct {
		Email string `validate:"required"`
	}
	err := validator.New().Struct(login{})

	detail := HandleValidationError(err)
	if detail.Code != ErrorCodeValidationFailed || detail.Message != "Validation failed" {
		t.Fatalf("detail = %+v", detail)
	}
	fields, ok := detail.Details.([]ErrorDetail)
	if !ok || len(fields) != 1 || fields[0].Field != "Email" || fields[0].Message != "Email is required" {
		t.Fatalf("fields = %#v", detail.Details)
	}

	plain := HandleValidationError(errors.New("strconv.ParseFloat: parsing \"x\": invalid syntax"))
	details, ok := plain.Details.([]ErrorDetail)
	if plain.Message != "Invalid request format" || !ok || len(details) != 1 || details[0].Message != "Invalid request format." {
		t.Fatalf("plain = %+v", plain)
	}
}

func TestBindErrorDetails(t *testing.T) {
	decode := func(body string) error {
		var req CreateCourseRequest
		return json.NewDecoder(strings.NewReader(body)).Decode(&req)
	}

	tests := []struct {
		name      string
		err       error
		wantField string
		wantMsg   string
	}{
		{"wrong price type", decode(`{"title":"Intro","price":"free"}`), "price", "price has an invalid type."},
		{"wrong tags type", decode(`{"tags":[1,2]}`), "tags", "tags has an invalid type."},
		{"numeric tags", decode(`{"tags":42}`), "tags", "tags has an invalid type."},
		{"truncated body", decode(`{"title":`), "", "Request body must be valid JSON."},
		{"bad syntax", decode(`{"title" "x"}`), "", "Request body must be valid JSON."},
		{"empty body", decode(``), "", "Request body must be valid JSON."},
		{"other", errors.New("invalid request"), "", "Invalid request format."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("expected a decode error")
			}
			details := BindErrorDetails(tt.err)
			if len(details) != 1 || details[0].Field != tt.wantField || details[0].Message != tt.wantMsg {
				t.Fatalf("details = %+v", details)
			}
			if details[0].Code != ErrorCodeValidationFailed || details[0].Details != nil {
				t.Fatalf("details carry extra data: %+v", details[0])
			}
		})
	}
}
