package errors

import "net/http"

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = &Exception{
	Message:    "no task with that id",
	StatusCode: http.StatusNotFound,
}
