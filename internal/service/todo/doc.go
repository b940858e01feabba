// Package todo implements the todo use cases: input validation, timestamps
// and the calls into the storage layer.
package todo
