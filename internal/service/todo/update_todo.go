package todo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// UpdateTodo overwrites title, description and completed of an existing todo
// and refreshes its updated-at timestamp.
func (s *Service) UpdateTodo(ctx context.Context, input UpdateTodoInput) (*domain.Todo, error) {
	if err := input.Validate(s.limits); err != nil {
		return nil, err
	}

	var updated *domain.Todo
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		old, getErr := s.todos.GetByID(txCtx, input.ID)
		if getErr != nil {
			return fmt.Errorf("get todo: %w", getErr)
		}

		// updated_at never moves backwards, even if the wall clock does.
		updatedAt := s.timestamp()
		if updatedAt.Before(old.UpdatedAt) {
			updatedAt = old.UpdatedAt
		}

		var updateErr error
		updated, updateErr = s.todos.Update(txCtx, input.ID, domain.TodoUpdateParams{
			Title:       input.Title,
			Description: input.Description,
			Completed:   input.Completed,
			UpdatedAt:   updatedAt,
		})
		if updateErr != nil {
			return fmt.Errorf("update todo: %w", updateErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "todo updated",
		slog.Int64("todo_id", input.ID),
		slog.Bool("completed", updated.Completed),
	)

	return updated, nil
}
