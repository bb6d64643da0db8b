// Package uuid provides UUID v4 generation and validation for record ids.
package uuid

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx with y in [8, 9, a, b]
var uuidV4Regex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// New generates a new UUID v4 string.
func New() string {
	return uuid.New().String()
}

// IsValid checks if a string is a valid UUID v4.
func IsValid(s string) bool {
	return uuidV4Regex.MatchString(s)
}

// Validate returns an error if the string is not a valid UUID v4.
func Validate(s string) error {
	if !IsValid(s) {
		return fmt.Errorf("invalid UUID v4 format: %q", s)
	}
	return nil
}
