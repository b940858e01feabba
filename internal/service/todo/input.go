package todo

import (
	"fmt"
	"unicode/utf8"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// CreateTodoInput holds the parameters for creating a todo.
type CreateTodoInput struct {
	Title       string
	Description string
}

// Validate checks all fields against limits and collects all errors.
func (i CreateTodoInput) Validate(limits Limits) error {
	var errs []domain.FieldError

	errs = appendTextErrors(errs, "title", i.Title, limits.MaxTitleLength)
	errs = appendTextErrors(errs, "description", i.Description, limits.MaxDescriptionLength)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateTodoInput holds the parameters for updating a todo. Every field is
// overwritten; an absent completed flag arrives here as false.
type UpdateTodoInput struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
}

// Validate checks all fields against limits and collects all errors.
func (i UpdateTodoInput) Validate(limits Limits) error {
	var errs []domain.FieldError

	if i.ID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "must be positive"})
	}
	errs = appendTextErrors(errs, "title", i.Title, limits.MaxTitleLength)
	errs = appendTextErrors(errs, "description", i.Description, limits.MaxDescriptionLength)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// appendTextErrors requires a non-empty value of at most limit runes.
// Whitespace counts as content. Values are never truncated.
func appendTextErrors(errs []domain.FieldError, field, value string, limit int) []domain.FieldError {
	if value == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	if utf8.RuneCountInString(value) > limit {
		return append(errs, domain.FieldError{Field: field, Message: fmt.Sprintf("max %d characters", limit)})
	}
	return errs
}

func validateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be positive")
	}
	return nil
}
