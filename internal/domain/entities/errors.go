package entities

import "errors"

// Domain errors
var (
	// Rock errors
	ErrInvalidRockParent = errors.New("parent rock must be at a higher level")
	ErrRockParentSelf    = errors.New("rock cannot be its own parent")

	// Issue errors
	ErrInvalidOutcome    = errors.New("invalid issue outcome")
	ErrTodoTitleRequired = errors.New("todo_title is required when outcome is todo_created")

	// Rating errors
	ErrInvalidRating = errors.New("ratings must be between 1 and 10")
)

// ValidateParent checks that parent may sit above child in the rock tree
func ValidateParent(child, parent *Rock) error {
	if parent.ID == child.ID {
		return ErrRockParentSelf
	}
	if !parent.Level.Above(child.Level) {
		return ErrInvalidRockParent
	}
	return nil
}

// Validate checks every rating is in the 1-10 range
func (r Ratings) Validate() error {
	for _, v := range r {
		if v < 1 || v > 10 {
			return ErrInvalidRating
		}
	}
	return nil
}
