package rest

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// TodoPayload holds the fields a create or update request may carry.
// Fields that are absent or of the wrong JSON type are left at their zero value.
type TodoPayload struct {
	Title       string
	Description string
	Completed   bool
}

// Codec encodes responses and decodes todo request bodies.
type Codec struct{}

// Encode serializes v as JSON.
func (Codec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeTodo parses a request body. The body must be valid JSON with an
// object at the top level, otherwise ErrInvalidJSON is returned. title and
// description are taken only when they are JSON strings; completed is true
// only when it is the JSON literal true.
func (Codec) DecodeTodo(body []byte) (TodoPayload, error) {
	if !gjson.ValidBytes(body) {
		return TodoPayload{}, ErrInvalidJSON
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return TodoPayload{}, ErrInvalidJSON
	}

	var p TodoPayload
	if v := root.Get("title"); v.Type == gjson.String {
		p.Title = v.Str
	}
	if v := root.Get("description"); v.Type == gjson.String {
		p.Description = v.Str
	}
	p.Completed = root.Get("completed").Type == gjson.True

	return p, nil
}

// todoResponse is the wire form of a todo. Timestamps are Unix seconds.
type todoResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Unix(),
		UpdatedAt:   t.UpdatedAt.Unix(),
	}
}

func toTodoResponses(todos []*domain.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}
	return out
}

type statusResponse struct {
	Status string `json:"status"`
}

type createdResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}
