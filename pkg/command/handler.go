package command

import (
	"encoding/json"
	"errors"
	"net/http"
)

type CommandDTO struct {
	Query string `json:"query"`
}

type ResultDTO struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Entity  string `json:"entity"`
	Data    any    `json:"data,omitempty"`
}

type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto CommandDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Query == "" {
		http.Error(w, "query must not be empty", http.StatusBadRequest)
		return
	}

	// session token doubles as the key for the conversational context
	sessionKey := r.Header.Get("X-Session-Token")

	result, err := h.dispatcher.Handle(r.Context(), sessionKey, dto.Query)
	if errors.Is(err, ErrUnparsable) || errors.Is(err, ErrUnsupported) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := ResultDTO{
		Message: result.Message,
		Action:  string(result.Intent.Action),
		Entity:  string(result.Intent.Entity),
		Data:    result.Data,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
