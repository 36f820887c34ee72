package errors

import "net/http"

// ErrChangeNotSaved marks a mutation that was applied in memory but whose
// autosave failed. The returned task is still valid.
var ErrChangeNotSaved = &Exception{
	Message:    "change applied but not saved",
	StatusCode: http.StatusInternalServerError,
}
