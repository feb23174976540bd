package dberrors

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKeyError reports whether err is a MongoDB duplicate key error (E11000)
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsDuplicateConstraintError checks if the error is a duplicate key error raised by a
// specific unique index.
func IsDuplicateConstraintError(err error, indexName string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 && strings.Contains(e.Message, "index: "+indexName+" ") {
				return true
			}
		}
		return false
	}

	// Server errors other than write exceptions only carry the text
	return strings.Contains(err.Error(), "index: "+indexName+" ")
}

// IsNotFound reports whether err means no document matched
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
