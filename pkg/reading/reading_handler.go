package reading

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type ItemDTO struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url,omitempty"`
	Content       string   `json:"content,omitempty"`
	ItemType      string   `json:"itemType"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Tags          []string `json:"tags,omitempty"`
	AddedDate     string   `json:"addedDate"`
	CompletedDate string   `json:"completedDate,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(item Item) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		Title:     item.Title,
		URL:       item.URL,
		Content:   item.Content,
		ItemType:  string(item.ItemType),
		Status:    string(item.Status),
		Priority:  string(item.Priority),
		Tags:      item.Tags,
		AddedDate: item.AddedDate.Format("2006-01-02"),
		Notes:     item.Notes,
	}
	if item.CompletedDate != nil {
		dto.CompletedDate = item.CompletedDate.Format("2006-01-02")
	}
	return dto
}

func fromDTO(dto ItemDTO) (Item, error) {
	item := Item{
		ID:       dto.ID,
		Title:    dto.Title,
		URL:      dto.URL,
		Content:  dto.Content,
		ItemType: ItemType(dto.ItemType),
		Status:   Status(dto.Status),
		Priority: Priority(dto.Priority),
		Tags:     dto.Tags,
		Notes:    dto.Notes,
	}
	var err error
	if dto.AddedDate != "" {
		if item.AddedDate, err = time.Parse("2006-01-02", dto.AddedDate); err != nil {
			return Item{}, err
		}
	}
	if dto.CompletedDate != "" {
		completed, err := time.Parse("2006-01-02", dto.CompletedDate)
		if err != nil {
			return Item{}, err
		}
		item.CompletedDate = &completed
	}
	return item, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	items, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toDTO(item))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["itemId"]
	item, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(item)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), item)
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
	id := mux.Vars(r)["itemId"]
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid reading item id in request body", http.StatusBadRequest)
		return
	}
	item, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), item)
	if errors.Is(err, ErrItemNotFound) {
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

func (h *Handler) MarkReading(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkReading)
}

func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkCompleted)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string) (Item, error)) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["itemId"]
	item, err := apply(r.Context(), id)
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(item)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["itemId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrItemNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
