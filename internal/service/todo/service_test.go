package todo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/heartmarshall/todo-service/internal/domain"
)

//go:generate moq -out todo_repo_mock_test.go -pkg todo . todoRepo
//go:generate moq -out tx_manager_mock_test.go -pkg todo . txManager

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 500_000_000, time.UTC)

// newTestService creates a Service with the given mocks, a silent logger and a fixed clock.
func newTestService(t *testing.T, repo *todoRepoMock) *Service {
	t.Helper()
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, defaultTxMock(), Limits{})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// defaultTxMock returns a txManagerMock that simply calls the function with the same context.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

// ---------------------------------------------------------------------------
// CreateTodo
// ---------------------------------------------------------------------------

func TestCreateTodo_Success(t *testing.T) {
	t.Parallel()

	repo := &todoRepoMock{
		CreateFunc: func(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
			created := *todo
			created.ID = 1
			return &created, nil
		},
	}
	svc := newTestService(t, repo)

	got, err := svc.CreateTodo(context.Background(), CreateTodoInput{
		Title:       "Buy milk",
		Description: "2 liters",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != 1 {
		t.Errorf("ID: got %d, want 1", got.ID)
	}
	if len(repo.CreateCalls()) != 1 {
		t.Fatalf("Create calls: got %d, want 1", len(repo.CreateCalls()))
	}

	stored := repo.CreateCalls()[0].Todo
	if stored.Completed {
		t.Error("new todo must not be completed")
	}
	want := domain.UnixSeconds(fixedNow)
	if !stored.CreatedAt.Equal(want) || !stored.UpdatedAt.Equal(want) {
		t.Errorf("timestamps: got %v/%v, want %v", stored.CreatedAt, stored.UpdatedAt, want)
	}
}

func TestCreateTodo_KeepsWhitespace(t *testing.T) {
	t.Parallel()

	repo := &todoRepoMock{
		CreateFunc: func(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
			return todo, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.CreateTodo(context.Background(), CreateTodoInput{Title: "  padded ", Description: "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.CreateCalls()[0].Todo.Title; got != "  padded " {
		t.Errorf("title stored as %q, want it unchanged", got)
	}
}

func TestCreateTodo_WhitespaceOnlyAccepted(t *testing.T) {
	t.Parallel()

	repo := &todoRepoMock{
		CreateFunc: func(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
			return todo, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.CreateTodo(context.Background(), CreateTodoInput{Title: " ", Description: " \t\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.CreateCalls()[0].Todo; got.Title != " " || got.Description != " \t\n" {
		t.Errorf("stored %q/%q, want whitespace kept", got.Title, got.Description)
	}
}

func TestCreateTodo_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     CreateTodoInput
		wantField string
	}{
		{"missing title", CreateTodoInput{Description: "d"}, "title"},
		{"missing description", CreateTodoInput{Title: "t"}, "description"},
		{"empty description", CreateTodoInput{Title: "t", Description: ""}, "description"},
		{"title too long", CreateTodoInput{Title: strings.Repeat("a", 256), Description: "d"}, "title"},
		{"description too long", CreateTodoInput{Title: "t", Description: strings.Repeat("b", 1024)}, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &todoRepoMock{}
			svc := newTestService(t, repo)

			_, err := svc.CreateTodo(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || !ve.HasField(tt.wantField) {
				t.Errorf("expected field error on %q, got %v", tt.wantField, err)
			}
			if len(repo.CreateCalls()) != 0 {
				t.Error("Create must not be called on invalid input")
			}
		})
	}
}

func TestCreateTodo_LimitsCountRunes(t *testing.T) {
	t.Parallel()

	repo := &todoRepoMock{
		CreateFunc: func(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
			return todo, nil
		},
	}
	svc := newTestService(t, repo)

	// 255 multi-byte runes fit, 256 do not.
	_, err := svc.CreateTodo(context.Background(), CreateTodoInput{
		Title:       strings.Repeat("ж", 255),
		Description: strings.Repeat("ё", 1023),
	})
	if err != nil {
		t.Fatalf("exact-limit input rejected: %v", err)
	}

	_, err = svc.CreateTodo(context.Background(), CreateTodoInput{
		Title:       strings.Repeat("ж", 256),
		Description: "d",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("over-limit input: got %v, want ErrValidation", err)
	}
}

func TestCreateTodo_CustomLimits(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), &todoRepoMock{}, defaultTxMock(),
		Limits{MaxTitleLength: 3, MaxDescriptionLength: 5})

	_, err := svc.CreateTodo(context.Background(), CreateTodoInput{Title: "abcd", Description: "ok"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestCreateTodo_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("disk full")
	repo := &todoRepoMock{
		CreateFunc: func(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
			return nil, repoErr
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.CreateTodo(context.Background(), CreateTodoInput{Title: "t", Description: "d"})
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetTodo / ListTodos / DeleteTodo
// ---------------------------------------------------------------------------

func TestGetTodo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      int64
		repoErr error
		wantErr error
	}{
		{name: "found", id: 3},
		{name: "not found", id: 3, repoErr: domain.ErrNotFound, wantErr: domain.ErrNotFound},
		{name: "zero id", id: 0, wantErr: domain.ErrValidation},
		{name: "negative id", id: -4, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &todoRepoMock{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Todo, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &domain.Todo{ID: id, Title: "t", Description: "d"}, nil
				},
			}
			svc := newTestService(t, repo)

			got, err := svc.GetTodo(context.Background(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.id {
				t.Errorf("ID: got %d, want %d", got.ID, tt.id)
			}
		})
	}
}

func TestListTodos(t *testing.T) {
	t.Parallel()

	repo := &todoRepoMock{
		ListFunc: func(ctx context.Context) ([]*domain.Todo, error) {
			return []*domain.Todo{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := newTestService(t, repo)

	got, err := svc.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("unexpected list: %+v", got)
	}
}

func TestListTodos_RepoError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("connection lost")
	repo := &todoRepoMock{
		ListFunc: func(ctx context.Context) ([]*domain.Todo, error) {
			return nil, repoErr
		},
	}
	svc := newTestService(t, repo)

	if _, err := svc.ListTodos(context.Background()); !errors.Is(err, repoErr) {
		t.Fatalf("got %v, want wrapped repo error", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		repo := &todoRepoMock{
			DeleteFunc: func(ctx context.Context, id int64) error { return nil },
		}
		svc := newTestService(t, repo)

		if err := svc.DeleteTodo(context.Background(), 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls := repo.DeleteCalls(); len(calls) != 1 || calls[0].ID != 5 {
			t.Errorf("Delete calls: %+v", calls)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		repo := &todoRepoMock{
			DeleteFunc: func(ctx context.Context, id int64) error { return domain.ErrNotFound },
		}
		svc := newTestService(t, repo)

		if err := svc.DeleteTodo(context.Background(), 5); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		repo := &todoRepoMock{}
		svc := newTestService(t, repo)

		if err := svc.DeleteTodo(context.Background(), 0); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("got %v, want ErrValidation", err)
		}
	})
}

// ---------------------------------------------------------------------------
// UpdateTodo
// ---------------------------------------------------------------------------

func TestUpdateTodo_Success(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	repo := &todoRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Todo, error) {
			return &domain.Todo{ID: id, Title: "old", Description: "old", CreatedAt: created, UpdatedAt: created}, nil
		},
		UpdateFunc: func(ctx context.Context, id int64, params domain.TodoUpdateParams) (*domain.Todo, error) {
			return &domain.Todo{
				ID:          id,
				Title:       params.Title,
				Description: params.Description,
				Completed:   params.Completed,
				CreatedAt:   created,
				UpdatedAt:   params.UpdatedAt,
			}, nil
		},
	}
	svc := newTestService(t, repo)

	got, err := svc.UpdateTodo(context.Background(), UpdateTodoInput{
		ID:          7,
		Title:       "Buy milk",
		Description: "2 liters",
		Completed:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Completed || got.Title != "Buy milk" {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(repo.UpdateCalls()) != 1 {
		t.Fatalf("Update calls: got %d, want 1", len(repo.UpdateCalls()))
	}
	params := repo.UpdateCalls()[0].Params
	if want := domain.UnixSeconds(fixedNow); !params.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt: got %v, want %v", params.UpdatedAt, want)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v", got.CreatedAt)
	}
}

func TestUpdateTodo_UpdatedAtNeverDecreases(t *testing.T) {
	t.Parallel()

	future := fixedNow.Add(time.Hour).Truncate(time.Second)
	repo := &todoRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Todo, error) {
			return &domain.Todo{ID: id, UpdatedAt: future}, nil
		},
		UpdateFunc: func(ctx context.Context, id int64, params domain.TodoUpdateParams) (*domain.Todo, error) {
			return &domain.Todo{ID: id, UpdatedAt: params.UpdatedAt}, nil
		},
	}
	svc := newTestService(t, repo)

	got, err := svc.UpdateTodo(context.Background(), UpdateTodoInput{ID: 1, Title: "t", Description: "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.UpdatedAt.Equal(future) {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, future)
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	t.Parallel()

	repo := &todoRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Todo, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.UpdateTodo(context.Background(), UpdateTodoInput{ID: 9, Title: "t", Description: "d"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(repo.UpdateCalls()) != 0 {
		t.Error("Update must not be called for a missing todo")
	}
}

func TestUpdateTodo_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     UpdateTodoInput
		wantField string
	}{
		{"zero id", UpdateTodoInput{Title: "t", Description: "d"}, "id"},
		{"empty title", UpdateTodoInput{ID: 1, Title: "", Description: "d"}, "title"},
		{"missing description", UpdateTodoInput{ID: 1, Title: "t"}, "description"},
		{"description too long", UpdateTodoInput{ID: 1, Title: "t", Description: strings.Repeat("x", 1024)}, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			txMock := defaultTxMock()
			svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), &todoRepoMock{}, txMock, Limits{})

			_, err := svc.UpdateTodo(context.Background(), tt.input)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || !ve.HasField(tt.wantField) {
				t.Fatalf("expected field error on %q, got %v", tt.wantField, err)
			}
			if len(txMock.RunInTxCalls()) != 0 {
				t.Error("no transaction should be opened for invalid input")
			}
		})
	}
}

func TestUpdateTodo_TxError(t *testing.T) {
	t.Parallel()

	txErr := errors.New("begin failed")
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), &todoRepoMock{}, &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return txErr
		},
	}, Limits{})

	_, err := svc.UpdateTodo(context.Background(), UpdateTodoInput{ID: 1, Title: "t", Description: "d"})
	if !errors.Is(err, txErr) {
		t.Fatalf("got %v, want tx error", err)
	}
}
