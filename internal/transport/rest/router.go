package rest

import (
	"net/http"
	"strconv"
)

// Op identifies a todo operation selected by the router.
type Op int

const (
	OpUnknown Op = iota
	OpListTodos
	OpGetTodo
	OpCreateTodo
	OpUpdateTodo
	OpDeleteTodo
)

func (o Op) String() string {
	switch o {
	case OpListTodos:
		return "list_todos"
	case OpGetTodo:
		return "get_todo"
	case OpCreateTodo:
		return "create_todo"
	case OpUpdateTodo:
		return "update_todo"
	case OpDeleteTodo:
		return "delete_todo"
	default:
		return "unknown"
	}
}

// Route is the result of a successful Match. ID is set for single-resource operations.
type Route struct {
	Op Op
	ID int64
}

const (
	collectionPath = "/todos"
	itemPrefix     = "/todos/"
)

var (
	collectionMethods = []string{http.MethodGet, http.MethodPost}
	itemMethods       = []string{http.MethodGet, http.MethodPut, http.MethodDelete}
)

// Match maps method and path to a todo operation.
//
//	GET    /todos       list
//	POST   /todos       create
//	GET    /todos/{id}  get
//	PUT    /todos/{id}  update
//	DELETE /todos/{id}  delete
//
// Methods other than GET, POST, PUT and DELETE fail with ErrMethodNotAllowed
// on any path. A supported method on a known path without a route fails with
// a *MethodNotAllowedError listing the allowed methods. An {id} that is not a
// positive base-10 integer, or is followed by more segments, fails with
// ErrInvalidID. Any other path fails with ErrRouteNotFound.
func Match(method, path string) (Route, error) {
	if !supportedMethod(method) {
		return Route{}, &MethodNotAllowedError{Method: method, Allow: allowFor(path)}
	}

	if path == collectionPath {
		switch method {
		case http.MethodGet:
			return Route{Op: OpListTodos}, nil
		case http.MethodPost:
			return Route{Op: OpCreateTodo}, nil
		default:
			return Route{}, &MethodNotAllowedError{Method: method, Allow: collectionMethods}
		}
	}

	if len(path) >= len(itemPrefix) && path[:len(itemPrefix)] == itemPrefix {
		var op Op
		switch method {
		case http.MethodGet:
			op = OpGetTodo
		case http.MethodPut:
			op = OpUpdateTodo
		case http.MethodDelete:
			op = OpDeleteTodo
		default:
			return Route{}, &MethodNotAllowedError{Method: method, Allow: itemMethods}
		}

		id, err := parseID(path[len(itemPrefix):])
		if err != nil {
			return Route{}, err
		}
		return Route{Op: op, ID: id}, nil
	}

	return Route{}, ErrRouteNotFound
}

func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func allowFor(path string) []string {
	switch {
	case path == collectionPath:
		return collectionMethods
	case len(path) >= len(itemPrefix) && path[:len(itemPrefix)] == itemPrefix:
		return itemMethods
	}
	return nil
}

// parseID accepts only a positive base-10 integer made of ASCII digits.
func parseID(segment string) (int64, error) {
	if segment == "" {
		return 0, ErrInvalidID
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return 0, ErrInvalidID
		}
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
