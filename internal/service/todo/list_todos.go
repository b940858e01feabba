package todo

import (
	"context"
	"fmt"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// ListTodos returns all todos in creation order.
func (s *Service) ListTodos(ctx context.Context) ([]*domain.Todo, error) {
	todos, err := s.todos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}
