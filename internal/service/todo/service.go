package todo

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/todo-service/internal/domain"
)

type todoRepo interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	GetByID(ctx context.Context, id int64) (*domain.Todo, error)
	Update(ctx context.Context, id int64, params domain.TodoUpdateParams) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Todo, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Default text limits, in runes.
const (
	DefaultMaxTitleLength       = 255
	DefaultMaxDescriptionLength = 1023
)

// Limits bounds the text fields of a todo. Zero values fall back to the defaults.
type Limits struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

func (l Limits) withDefaults() Limits {
	if l.MaxTitleLength <= 0 {
		l.MaxTitleLength = DefaultMaxTitleLength
	}
	if l.MaxDescriptionLength <= 0 {
		l.MaxDescriptionLength = DefaultMaxDescriptionLength
	}
	return l
}

// Service provides todo management operations.
type Service struct {
	todos  todoRepo
	tx     txManager
	limits Limits
	now    func() time.Time
	log    *slog.Logger
}

// NewService creates a new Todo service.
func NewService(
	log *slog.Logger,
	todos todoRepo,
	tx txManager,
	limits Limits,
) *Service {
	return &Service{
		todos:  todos,
		tx:     tx,
		limits: limits.withDefaults(),
		now:    time.Now,
		log:    log.With("service", "todo"),
	}
}

// timestamp returns the current time truncated to the stored resolution.
func (s *Service) timestamp() time.Time {
	return domain.UnixSeconds(s.now())
}
