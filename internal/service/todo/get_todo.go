package todo

import (
	"context"
	"fmt"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// GetTodo returns a single todo by ID.
func (s *Service) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}

	return todo, nil
}
