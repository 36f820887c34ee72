package errors

import "net/http"

var ErrInvalidDueDate = &Exception{
	Message:    "due date must be YYYY-MM-DD or RFC 3339",
	StatusCode: http.StatusBadRequest,
}
