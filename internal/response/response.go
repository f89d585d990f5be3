// Package response writes the JSON envelope every endpoint answers with and
// translates typed domain errors into HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/errtrack"
	"github.com/vidtube/backend/internal/logging"
)

type Envelope struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Stack      []string `json:"stack,omitempty"`
}

type Writer struct {
	Production bool
	Logger     *slog.Logger
	Reporter   errtrack.Reporter
}

func NewWriter(production bool, logger *slog.Logger, reporter errtrack.Reporter) *Writer {
	if logger == nil {
		logger = logging.Discard()
	}
	if reporter == nil {
		reporter = errtrack.Nop{}
	}
	return &Writer{Production: production, Logger: logger, Reporter: reporter}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (rw *Writer) OK(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Envelope{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

func StatusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a failure envelope. Only Internal errors are logged at
// error level and reported.
func (rw *Writer) Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := StatusOf(kind)

	message := "internal server error"
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	logger := logging.WithContext(r.Context(), rw.Logger)
	if kind == domain.KindInternal {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		rw.Reporter.Capture(r.Context(), err)
	} else {
		logger.Debug("request rejected", "kind", kind.String(), "message", message)
	}

	env := Envelope{StatusCode: status, Message: message}
	if !rw.Production {
		env.Stack = chain(err)
	}
	writeJSON(w, status, env)
}

// chain flattens the wrapped error chain, outermost first.
func chain(err error) []string {
	var out []string
	for err != nil {
		out = append(out, err.Error())
		err = errors.Unwrap(err)
	}
	return out
}

// Recoverer turns a panic in a downstream handler into an Internal envelope.
func (rw *Writer) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil || rec == http.ErrAbortHandler {
				if rec != nil {
					panic(rec)
				}
				return
			}
			err := domain.Internal("internal server error", fmt.Errorf("panic: %v", rec))
			logging.WithContext(r.Context(), rw.Logger).Error("panic recovered", "panic", rec, "stack", string(debug.Stack()))
			rw.Error(w, r, err)
		}()
		next.ServeHTTP(w, r)
	})
}
