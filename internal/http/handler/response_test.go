package handler_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/tasktrack/internal/http/handler"
	"github.com/jaekwang-park/tasktrack/internal/model"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	handler.WriteJSON(w, http.StatusCreated, model.Todo{ID: "t1", Title: "Buy milk", Priority: model.PriorityLow})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["title"] != "Buy milk" || result["priority"] != "low" {
		t.Errorf("unexpected body: %v", result)
	}
	if v, ok := result["description"]; !ok || v != nil {
		t.Errorf("expected description to be encoded as null, got %v (present=%v)", v, ok)
	}
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()

	handler.WriteJSON(w, http.StatusOK, map[string]float64{"bad": math.NaN()})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	var result handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Code != "INTERNAL_ERROR" {
		t.Errorf("expected code=INTERNAL_ERROR, got %s", result.Code)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		status  int
		code    string
		message string
	}{
		{http.StatusBadRequest, "INVALID_INPUT", "Title is required"},
		{http.StatusNotFound, "NOT_FOUND", "Todo not found"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.WriteError(w, tt.status, tt.code, tt.message)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			var result handler.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if result.Code != tt.code || result.Error != tt.message {
				t.Errorf("got %+v, want code=%s error=%s", result, tt.code, tt.message)
			}
		})
	}
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	handler.WriteMessage(w, http.StatusOK, "Todo deleted successfully")

	var result handler.MessageResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Message != "Todo deleted successfully" {
		t.Errorf("unexpected message %q", result.Message)
	}
}
