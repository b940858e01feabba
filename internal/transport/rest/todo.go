package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/todo-service/internal/domain"
	"github.com/heartmarshall/todo-service/internal/service/todo"
)

// todoService defines the minimal interface needed by TodoHandler.
type todoService interface {
	CreateTodo(ctx context.Context, input todo.CreateTodoInput) (*domain.Todo, error)
	GetTodo(ctx context.Context, id int64) (*domain.Todo, error)
	ListTodos(ctx context.Context) ([]*domain.Todo, error)
	UpdateTodo(ctx context.Context, input todo.UpdateTodoInput) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
}

// Response messages.
const (
	msgCreated = "Todo created successfully"
	msgUpdated = "Todo updated successfully"
	msgDeleted = "Todo deleted successfully"
	msgOK      = "OK"

	msgTodoNotFound     = "Todo not found"
	msgInvalidRequest   = "Invalid request data"
	msgInvalidJSON      = "Invalid JSON data"
	msgNoData           = "No data received"
	msgInvalidID        = "Invalid todo id"
	msgPayloadTooLarge  = "Payload too large"
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "internal server error"

	msgCreateFailed = "Failed to create todo"
	msgGetFailed    = "Failed to get todo"
	msgUpdateFailed = "Failed to update todo"
	msgDeleteFailed = "Failed to delete todo"
	msgListFailed   = "Failed to list todos"
)

// TodoHandlerConfig tunes request handling.
type TodoHandlerConfig struct {
	// MaxBodyBytes bounds the accumulated request body. Zero selects DefaultMaxBodyBytes.
	MaxBodyBytes int
	// Strict selects conventional HTTP status codes for domain failures.
	// Otherwise they are answered with 200 and an "error" body.
	Strict bool
}

// TodoHandler serves the /todos resource. Every request goes through the
// same lifecycle: accumulate the body, route, run the operation, respond.
type TodoHandler struct {
	svc     todoService
	codec   Codec
	maxBody int
	strict  bool
	log     *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(svc todoService, logger *slog.Logger, cfg TodoHandlerConfig) *TodoHandler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &TodoHandler{
		svc:     svc,
		maxBody: maxBody,
		strict:  cfg.Strict,
		log:     logger.With("handler", "todo"),
	}
}

// result is what an operation produced: a status and a body to encode.
// A nil body is answered with the {"status":"OK"} fallback.
type result struct {
	status int
	body   any
}

// ServeHTTP implements http.Handler.
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pending := acquirePending(h.maxBody)
	defer pending.Release()

	if err := h.accumulate(r, pending); err != nil {
		h.respondError(w, r, OpUnknown, err)
		return
	}
	body, n := pending.Finalize()

	route, err := Match(r.Method, r.URL.Path)
	if err != nil {
		h.respondError(w, r, OpUnknown, err)
		return
	}

	var res result
	switch route.Op {
	case OpListTodos:
		res, err = h.list(r.Context())
	case OpGetTodo:
		res, err = h.get(r.Context(), route.ID)
	case OpCreateTodo:
		res, err = h.create(r.Context(), body[:n])
	case OpUpdateTodo:
		res, err = h.update(r.Context(), route.ID, body[:n])
	case OpDeleteTodo:
		res, err = h.delete(r.Context(), route.ID)
	}
	if err != nil {
		h.respondError(w, r, route.Op, err)
		return
	}

	h.respond(w, r, res)
}

// accumulate reads the whole request body into pending. Bodies that announce
// a length above the limit are rejected before reading.
func (h *TodoHandler) accumulate(r *http.Request, pending *PendingRequest) error {
	if r.ContentLength > int64(pending.Limit()) {
		return ErrPayloadTooLarge
	}
	return readBody(r.Body, pending)
}

func (h *TodoHandler) list(ctx context.Context) (result, error) {
	todos, err := h.svc.ListTodos(ctx)
	if err != nil {
		return result{}, err
	}
	return result{status: http.StatusOK, body: toTodoResponses(todos)}, nil
}

func (h *TodoHandler) get(ctx context.Context, id int64) (result, error) {
	t, err := h.svc.GetTodo(ctx, id)
	if err != nil {
		return result{}, err
	}
	return result{status: http.StatusOK, body: toTodoResponse(t)}, nil
}

func (h *TodoHandler) create(ctx context.Context, body []byte) (result, error) {
	payload, err := h.decode(body)
	if err != nil {
		return result{}, err
	}

	t, err := h.svc.CreateTodo(ctx, todo.CreateTodoInput{
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		return result{}, err
	}

	status := http.StatusOK
	if h.strict {
		status = http.StatusCreated
	}
	return result{status: status, body: createdResponse{Status: msgCreated, ID: t.ID}}, nil
}

func (h *TodoHandler) update(ctx context.Context, id int64, body []byte) (result, error) {
	payload, err := h.decode(body)
	if err != nil {
		return result{}, err
	}

	_, err = h.svc.UpdateTodo(ctx, todo.UpdateTodoInput{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Completed:   payload.Completed,
	})
	if err != nil {
		return result{}, err
	}
	return result{status: http.StatusOK, body: statusResponse{Status: msgUpdated}}, nil
}

func (h *TodoHandler) delete(ctx context.Context, id int64) (result, error) {
	if err := h.svc.DeleteTodo(ctx, id); err != nil {
		return result{}, err
	}
	return result{status: http.StatusOK, body: statusResponse{Status: msgDeleted}}, nil
}

func (h *TodoHandler) decode(body []byte) (TodoPayload, error) {
	if len(body) == 0 {
		return TodoPayload{}, ErrNoData
	}
	return h.codec.DecodeTodo(body)
}

// respond encodes res and writes it with a JSON content type.
func (h *TodoHandler) respond(w http.ResponseWriter, r *http.Request, res result) {
	if res.body == nil {
		res.body = statusResponse{Status: msgOK}
	}
	if res.status == 0 {
		res.status = http.StatusOK
	}

	data, err := h.codec.Encode(res.body)
	if err != nil {
		h.log.ErrorContext(r.Context(), "encode response", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.status)
	w.Write(data) //nolint:errcheck
}

// respondError converts err into a status and an {"error": ...} body.
func (h *TodoHandler) respondError(w http.ResponseWriter, r *http.Request, op Op, err error) {
	status, message, domainFailure := classify(op, err)

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.log.LogAttrs(r.Context(), level, "request failed",
		slog.String("op", op.String()),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	if domainFailure && !h.strict {
		status = http.StatusOK
	}

	var mna *MethodNotAllowedError
	if errors.As(err, &mna) && len(mna.Allow) > 0 {
		w.Header().Set("Allow", mna.AllowHeader())
	}
	if errors.Is(err, ErrPayloadTooLarge) {
		w.Header().Set("Connection", "close")
	}

	h.respond(w, r, result{status: status, body: errorResponse{Error: message}})
}

// classify maps err to its conventional status and client message.
// domainFailure reports whether the failure came from validating or running
// the operation rather than from transport or routing.
func classify(op Op, err error) (status int, message string, domainFailure bool) {
	switch {
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, msgPayloadTooLarge, false
	case errors.Is(err, ErrBodyRead):
		return http.StatusBadRequest, msgInvalidRequest, false
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound, msgNotFound, false
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, msgMethodNotAllowed, false
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest, msgInvalidID, false
	case errors.Is(err, ErrNoData):
		return http.StatusBadRequest, msgNoData, true
	case errors.Is(err, ErrInvalidJSON):
		return http.StatusBadRequest, msgInvalidJSON, true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, msgInvalidRequest, true
	case errors.Is(err, domain.ErrNotFound):
		if op == OpDeleteTodo {
			return http.StatusNotFound, msgDeleteFailed, true
		}
		return http.StatusNotFound, msgTodoNotFound, true
	}

	switch op {
	case OpCreateTodo:
		return http.StatusInternalServerError, msgCreateFailed, true
	case OpGetTodo:
		return http.StatusInternalServerError, msgGetFailed, true
	case OpUpdateTodo:
		return http.StatusInternalServerError, msgUpdateFailed, true
	case OpDeleteTodo:
		return http.StatusInternalServerError, msgDeleteFailed, true
	case OpListTodos:
		return http.StatusInternalServerError, msgListFailed, true
	}
	return http.StatusInternalServerError, msgInternal, false
}
