package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("record not found")

const uniqueViolation = "23505"

// validID rejects identifiers that cannot exist in a UUID column, so lookups
// report ErrNotFound instead of a driver syntax error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
