// Package todo implements the Todo repository using PostgreSQL.
package todo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/todo-service/internal/adapter/postgres"
	"github.com/heartmarshall/todo-service/internal/domain"
)

const table = "todos"

var columns = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides todo persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new todo repository. db is usually a *pgxpool.Pool.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a todo by primary key.
// Returns domain.ErrNotFound if the todo does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get todo query: %w", err)
	}

	t, err := scanTodo(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "todo", id)
	}
	return t, nil
}

// List returns every todo ordered by id, which is creation order.
func (r *Repo) List(ctx context.Context) ([]*domain.Todo, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list todos query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new todo and returns it with the assigned ID.
func (r *Repo) Create(ctx context.Context, t *domain.Todo) (*domain.Todo, error) {
	query, args, err := psql.Insert(table).
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(t.Title, t.Description, t.Completed, t.CreatedAt.Unix(), t.UpdatedAt.Unix()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create todo query: %w", err)
	}

	created := *t
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, postgres.MapError(err, "todo", 0)
	}

	created.CreatedAt = domain.UnixSeconds(t.CreatedAt)
	created.UpdatedAt = domain.UnixSeconds(t.UpdatedAt)
	return &created, nil
}

// Update overwrites title, description, completed and updated_at of a todo.
// Returns domain.ErrNotFound if the todo does not exist.
func (r *Repo) Update(ctx context.Context, id int64, params domain.TodoUpdateParams) (*domain.Todo, error) {
	query, args, err := psql.Update(table).
		Set("title", params.Title).
		Set("description", params.Description).
		Set("completed", params.Completed).
		Set("updated_at", params.UpdatedAt.Unix()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, description, completed, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update todo query: %w", err)
	}

	t, err := scanTodo(postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "todo", id)
	}
	return t, nil
}

// Delete removes a todo by ID.
// Returns domain.ErrNotFound if no row was deleted.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete todo query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "todo", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "todo", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var (
		t                    domain.Todo
		createdAt, updatedAt int64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	t.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &t, nil
}
