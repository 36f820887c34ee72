package errors

import "net/http"

// ErrMalformedData marks a stored task collection that could not be decoded.
var ErrMalformedData = &Exception{
	Message:    "stored task data is malformed",
	StatusCode: http.StatusInternalServerError,
}
