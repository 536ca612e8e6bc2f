package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jaekwang-park/tasktrack/internal/http/handler"
	"github.com/jaekwang-park/tasktrack/internal/service"
)

func NewRouter(todoSvc *service.TodoService, logger *slog.Logger, prefix string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Health check - intentionally outside the API prefix for load balancer checks
	r.Handle("/health", handler.NewHealthHandler(todoSvc, logger))

	api := r
	if prefix = strings.TrimRight(prefix, "/"); prefix != "" {
		api = r.PathPrefix(prefix).Subrouter()
	}
	handler.NewTodoHandler(todoSvc, logger).Register(api)

	return r
}
