package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/lockedstudy/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks a compiled room. Warnings are printed to stderr and do
// not fail the load.
func validate(room types.RoomDef) error {
	ve := check(room)
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func check(room types.RoomDef) *ValidationError {
	ve := &ValidationError{}

	if strings.TrimSpace(room.Title) == "" {
		ve.Errors = append(ve.Errors, "game title is empty")
	}
	if strings.TrimSpace(room.Name) == "" {
		ve.Errors = append(ve.Errors, "room name is empty")
	}
	if room.Intro == "" {
		ve.Errors = append(ve.Errors, "room intro is empty")
	}
	if len(room.Hints) == 0 {
		ve.Errors = append(ve.Errors, "room has no hints")
	}

	seen := make(map[string]bool)
	for i, h := range room.Hints {
		if strings.TrimSpace(h) == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("hint %d is empty", i+1))
			continue
		}
		if seen[h] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("duplicate hint %q", h))
		}
		seen[h] = true
	}

	if len(room.Help) == 0 {
		ve.Warnings = append(ve.Warnings, "room has no help entries")
	}
	return ve
}
