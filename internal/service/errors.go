package service

import (
	"errors"
	"strings"
)

// ErrRecipeNotFound is returned when a recipe id does not exist.
var ErrRecipeNotFound = errors.New("recipe not found")

// ValidationError carries the ordered list of field violations for a
// rejected candidate. Nothing is written when it is returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
