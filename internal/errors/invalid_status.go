package errors

import "net/http"

var ErrInvalidStatus = &Exception{
	Message:    "status must be one of Pending, InProgress, Completed, Cancelled, OnHold",
	StatusCode: http.StatusBadRequest,
}
