package errors

import "net/http"

var ErrInvalidTaskID = &Exception{
	Message:    "task id must be a positive number",
	StatusCode: http.StatusBadRequest,
}
