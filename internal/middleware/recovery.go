package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicBody matches the error shape written by the todo handlers.
const panicBody = `{"error":"Internal server error","code":"INTERNAL_ERROR"}` + "\n"

// Recovery turns a handler panic into a JSON 500. If the handler already
// started the response, the panic is only logged.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newResponseRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					"error", fmt.Sprint(v),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)

				if rec.started {
					return
				}
				rec.Header().Set("Content-Type", "application/json")
				rec.WriteHeader(http.StatusInternalServerError)
				if _, err := rec.Write([]byte(panicBody)); err != nil {
					logger.ErrorContext(r.Context(), "failed to write panic response", "error", err)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
