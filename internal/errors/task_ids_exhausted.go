package errors

import "net/http"

var ErrTaskIDsExhausted = &Exception{
	Message:    "no task ids left",
	StatusCode: http.StatusConflict,
}
