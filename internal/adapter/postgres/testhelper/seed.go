package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedTodo inserts a todo with unique title and description and returns it.
func SeedTodo(t *testing.T, pool *pgxpool.Pool) domain.Todo {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := domain.UnixSeconds(time.Now())
	todo := domain.Todo{
		Title:       "Seed todo " + suffix,
		Description: "Seeded description " + suffix,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO todos (title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		todo.Title, todo.Description, todo.Completed, now.Unix(), now.Unix(),
	).Scan(&todo.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedTodo insert: %v", err)
	}

	return todo
}
