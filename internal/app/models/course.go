package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the document stored in the courses collection.
// Instructor is free text, not a reference to a user.
type Course struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"665f1c2e9b1e8a3d4c5b6a71"`
	Title            string               `json:"title" bson:"title" example:"Intro to Go"`
	Description      string               `json:"description" bson:"description"`
	Instructor       string               `json:"instructor" bson:"instructor" example:"Rob Pike"`
	Price            float64              `json:"price" bson:"price" example:"49.99"`
	Category         string               `json:"category" bson:"category" example:"Programming"`
	Tags             []string             `json:"tags" bson:"tags"`
	ThumbnailURL     string               `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Syllabus         string               `json:"syllabus,omitempty" bson:"syllabus,omitempty"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	EnrolledStudents []primitive.ObjectID `json:"enrolledStudents" bson:"enrolledStudents"`
}
