package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func duplicate(index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Index:   0,
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: learnhub.users index: %s dup key: { email: \"a@b.co\" }", index),
		}},
	}
}

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert user: %w", duplicate("email_unique"))

	if !IsDuplicateKeyError(err) {
		t.Fatal("expected duplicate key error")
	}
	if !IsDuplicateConstraintError(err, "email_unique") {
		t.Error("expected match on email_unique")
	}
	if IsDuplicateConstraintError(err, "email") {
		t.Error("index name must match exactly")
	}
	if IsDuplicateConstraintError(errors.New("E11000 but not a driver error"), "email_unique") {
		t.Error("plain errors are not duplicate key errors")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("find: %w", mongo.ErrNoDocuments)) {
		t.Error("wrapped ErrNoDocuments should be not found")
	}
	if IsNotFound(errors.New("timeout")) {
		t.Error("timeout is not not-found")
	}
}
