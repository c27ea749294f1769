package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type GoalDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Period      string   `json:"period"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	Tags        []string `json:"tags,omitempty"`
}

type ProgressDTO struct {
	Progress int `json:"progress"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(g Goal) GoalDTO {
	return GoalDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Period:      string(g.Period),
		StartDate:   g.StartDate.Format("2006-01-02"),
		EndDate:     g.EndDate.Format("2006-01-02"),
		Status:      string(g.Status),
		Progress:    g.Progress,
		Tags:        g.Tags,
	}
}

func fromDTO(dto GoalDTO) (Goal, error) {
	g := Goal{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Period:      Period(dto.Period),
		Status:      Status(dto.Status),
		Progress:    dto.Progress,
		Tags:        dto.Tags,
	}
	var err error
	if dto.StartDate != "" {
		if g.StartDate, err = time.Parse("2006-01-02", dto.StartDate); err != nil {
			return Goal{}, err
		}
	}
	if dto.EndDate != "" {
		if g.EndDate, err = time.Parse("2006-01-02", dto.EndDate); err != nil {
			return Goal{}, err
		}
	}
	return g, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	goals, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, toDTO(g))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["goalId"]
	g, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrGoalNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(g)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), g)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["goalId"]
	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid goal id in request body", http.StatusBadRequest)
		return
	}
	g, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), g)
	if errors.Is(err, ErrGoalNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["goalId"]
	var dto ProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g, err := h.service.UpdateProgress(r.Context(), id, dto.Progress)
	if errors.Is(err, ErrGoalNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(g)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["goalId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrGoalNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
