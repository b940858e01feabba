package todo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// CreateTodo validates input and stores a new, not yet completed todo.
// Title and description are stored as given.
func (s *Service) CreateTodo(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	if err := input.Validate(s.limits); err != nil {
		return nil, err
	}

	now := s.timestamp()
	todo, err := s.todos.Create(ctx, &domain.Todo{
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.log.InfoContext(ctx, "todo created",
		slog.Int64("todo_id", todo.ID),
	)

	return todo, nil
}
