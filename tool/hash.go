package tool

import (
	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateEditorID returns the id of a new editor instance.
func GenerateEditorID() string {
	return GenerateRandomUUID()
}

// IsValidID reports whether id parses as a uuid.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
