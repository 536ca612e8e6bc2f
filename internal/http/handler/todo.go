package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jaekwang-park/tasktrack/internal/middleware"
	"github.com/jaekwang-park/tasktrack/internal/model"
	"github.com/jaekwang-park/tasktrack/internal/service"
)

const maxBodyBytes = 1 << 20

type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, logger: logger}
}

// Register mounts the todo routes on r. The stats route is registered before
// the {id} routes so it is never read as an id.
func (h *TodoHandler) Register(r *mux.Router) {
	r.HandleFunc("/todos", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/todos", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/todos/stats/overview", h.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id}", h.handleGetByID).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id}", h.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/todos/{id}/toggle", h.handleToggle).Methods(http.MethodPatch)
}

type createTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	Category    *string `json:"category"`
	Tags        *string `json:"tags"`
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
		Category:    req.Category,
		Tags:        req.Tags,
	}

	todo, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	todo, err := h.svc.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

// updateTodoRequest distinguishes an absent key from an explicit null for
// the clearable fields.
type updateTodoRequest struct {
	Title       *string                `json:"title"`
	Description model.Nullable[string] `json:"description"`
	Completed   *bool                  `json:"completed"`
	Priority    *model.Priority        `json:"priority"`
	DueDate     model.Nullable[string] `json:"due_date"`
	Category    model.Nullable[string] `json:"category"`
	Tags        model.Nullable[string] `json:"tags"`
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Category:    req.Category,
		Tags:        req.Tags,
	}

	todo, err := h.svc.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

type toggleRequest struct {
	Completed *bool `json:"completed"`
}

func (h *TodoHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Completed == nil {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "Completed is required")
		return
	}

	todo, err := h.svc.ToggleCompleted(r.Context(), mux.Vars(r)["id"], *req.Completed)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteMessage(w, http.StatusOK, "Todo deleted successfully")
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, msg := parseFilter(r)
	if msg != "" {
		WriteError(w, http.StatusBadRequest, "INVALID_FILTER", msg)
		return
	}

	todos, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// parseFilter reads the list query string. Empty parameters are treated as
// absent. A non-empty msg describes the first malformed parameter.
func parseFilter(r *http.Request) (filter model.TodoFilter, msg string) {
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return model.TodoFilter{}, "completed must be 'true' or 'false'"
		}
		filter.Completed = &completed
	}

	if v := q.Get("priority"); v != "" {
		priority := model.Priority(v)
		if !priority.IsValid() {
			return model.TodoFilter{}, "priority must be one of low, medium, high"
		}
		filter.Priority = &priority
	}

	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}

	filter.Search = q.Get("search")

	if v := q.Get("due_date"); v != "" {
		if !model.ValidDate(v) {
			return model.TodoFilter{}, "due_date must be a valid date (YYYY-MM-DD)"
		}
		filter.DueDate = &v
	}

	return filter, ""
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
			return false
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return false
	}
	return true
}

func (h *TodoHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found")
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", verr.Message)
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
