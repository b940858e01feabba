// Package todo implements the Todo repository on the embedded SQLite backend.
package todo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/todo-service/internal/adapter/sqlite"
	"github.com/heartmarshall/todo-service/internal/domain"
)

const table = "todos"

var columns = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repo provides todo persistence backed by SQLite.
type Repo struct {
	db sqlite.Querier
}

// New creates a new todo repository.
func New(db sqlite.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a todo by primary key.
// Returns domain.ErrNotFound if the todo does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	query, args, err := builder.Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get todo query: %w", err)
	}

	t, err := scanTodo(sqlite.QuerierFromCtx(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, sqlite.MapError(err, "todo", id)
	}
	return t, nil
}

// List returns every todo ordered by id.
func (r *Repo) List(ctx context.Context) ([]*domain.Todo, error) {
	query, args, err := builder.Select(columns...).
		From(table).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list todos query: %w", err)
	}

	rows, err := sqlite.QuerierFromCtx(ctx, r.db).QueryContext(ctx, query, args...)
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

// Create inserts a new todo and returns it with the assigned ID.
func (r *Repo) Create(ctx context.Context, t *domain.Todo) (*domain.Todo, error) {
	query, args, err := builder.Insert(table).
		Columns("title", "description", "completed", "created_at", "updated_at").
		Values(t.Title, t.Description, t.Completed, t.CreatedAt.Unix(), t.UpdatedAt.Unix()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create todo query: %w", err)
	}

	res, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, sqlite.MapError(err, "todo", 0)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("todo last insert id: %w", err)
	}

	created := *t
	created.ID = id
	created.CreatedAt = domain.UnixSeconds(t.CreatedAt)
	created.UpdatedAt = domain.UnixSeconds(t.UpdatedAt)
	return &created, nil
}

// Update overwrites title, description, completed and updated_at of a todo
// and returns the stored record.
// Returns domain.ErrNotFound if the todo does not exist.
func (r *Repo) Update(ctx context.Context, id int64, params domain.TodoUpdateParams) (*domain.Todo, error) {
	query, args, err := builder.Update(table).
		Set("title", params.Title).
		Set("description", params.Description).
		Set("completed", params.Completed).
		Set("updated_at", params.UpdatedAt.Unix()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update todo query: %w", err)
	}

	res, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, sqlite.MapError(err, "todo", id)
	}
	if err := requireRow(res, id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a todo by ID.
// Returns domain.ErrNotFound if no row was deleted.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query, args, err := builder.Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete todo query: %w", err)
	}

	res, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return sqlite.MapError(err, "todo", id)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("todo %d rows affected: %w", id, err)
	}
	if n == 0 {
		return sqlite.MapError(sql.ErrNoRows, "todo", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*domain.Todo, error) {
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
