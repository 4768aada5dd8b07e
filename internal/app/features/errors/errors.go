// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ratingdesk/internal/app/system/accounts"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// envelope is the shape of every API response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a success envelope carrying data.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, envelope{Success: true, Data: data})
}

// Message writes a success envelope with a message and optional data.
func Message(w http.ResponseWriter, status int, msg string, data any) {
	write(w, status, envelope{Success: true, Message: msg, Data: data})
}

// Error writes a failure envelope. msg is shown to the caller as is.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, envelope{Error: msg})
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorLogger logs a failure with request context and writes the error
// response in one call.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err at Error and answers 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	Error(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs err at Debug and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Debug(logMsg, e.fields(r, err)...)
	Error(w, http.StatusBadRequest, userMsg)
}

// LogAccountError answers an accounts failure. Typed errors map to 400, 404
// or 409 with their own message; anything else is a 500 with userMsg.
func (e *ErrorLogger) LogAccountError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	switch accounts.KindOf(err) {
	case accounts.KindValidation:
		Error(w, http.StatusBadRequest, err.Error())
	case accounts.KindNotFound:
		Error(w, http.StatusNotFound, err.Error())
	case accounts.KindConflict:
		Error(w, http.StatusConflict, err.Error())
	default:
		e.LogServerError(w, r, logMsg, err, userMsg)
	}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// NotFound answers unknown API routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
