// internal/app/system/webjson/webjson.go
//
// Package webjson implements the JSON response envelope used by every
// API handler. Successful responses carry {"success": true, "data": ...}
// and failures carry {"success": false, "error": {...}} with an HTTP
// status derived from the error code.
package webjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error codes returned in the error envelope. Handlers pick the code;
// the HTTP status is derived here so the mapping lives in one place.
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeUpstreamFailure   = "UPSTREAM_FAILURE"
	CodeInternal          = "INTERNAL"
)

// statusFor maps error codes to HTTP status codes.
var statusFor = map[string]int{
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeValidationFailed:  http.StatusUnprocessableEntity,
	CodeInvalidTransition: http.StatusConflict,
	CodeConflict:          http.StatusConflict,
	CodeUpstreamFailure:   http.StatusBadGateway,
	CodeInternal:          http.StatusInternalServerError,
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// OK writes a 200 success envelope with the given payload.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope with the given payload.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// Fail writes an error envelope. Unknown codes fall back to 500 so a
// typo never turns a failure into a silent success.
func Fail(w http.ResponseWriter, code, message string) {
	FailWithDetails(w, code, message, nil)
}

// FailWithDetails is Fail with a per-field details map, used for
// validation errors.
func FailWithDetails(w http.ResponseWriter, code, message string, details map[string]string) {
	status, ok := statusFor[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	write(w, status, envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// Internal logs the underlying error and writes a generic 500 envelope.
// The raw error never reaches the client.
func Internal(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, zap.Error(err))
	}
	Fail(w, CodeInternal, "something went wrong")
}

func write(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
