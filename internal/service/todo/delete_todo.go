package todo

import (
	"context"
	"fmt"
	"log/slog"
)

// DeleteTodo removes a todo by ID. Returns domain.ErrNotFound when it does not exist.
func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	s.log.InfoContext(ctx, "todo deleted",
		slog.Int64("todo_id", id),
	)

	return nil
}
