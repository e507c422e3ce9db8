// file: common/response.go

package common

import (
	"encoding/json"
	"net/http"
)

// ApiResponse is the success envelope. The field names and shape are part of
// the public API contract and must not change.
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// Respond writes data wrapped in the standard envelope.
func Respond(w http.ResponseWriter, code int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ApiResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < http.StatusBadRequest,
	})
}
