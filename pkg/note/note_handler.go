package note

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type NoteDTO struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
	Shared  bool     `json:"shared"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(n Note) NoteDTO {
	return NoteDTO{
		ID:      n.ID,
		Date:    n.Date.Format("2006-01-02"),
		Title:   n.Title,
		Content: n.Content,
		Tags:    n.Tags,
		Shared:  n.Shared,
	}
}

func fromDTO(dto NoteDTO) (Note, error) {
	n := Note{
		ID:      dto.ID,
		Title:   dto.Title,
		Content: dto.Content,
		Tags:    dto.Tags,
		Shared:  dto.Shared,
	}
	if dto.Date != "" {
		d, err := time.Parse("2006-01-02", dto.Date)
		if err != nil {
			return Note{}, err
		}
		n.Date = d
	}
	return n, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	var notes []Note
	var err error
	if from != "" && to != "" {
		var fromDate, toDate time.Time
		if fromDate, err = time.Parse("2006-01-02", from); err == nil {
			toDate, err = time.Parse("2006-01-02", to)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		notes, err = h.service.ListByDateRange(r.Context(), fromDate, toDate)
	} else {
		notes, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		dtos = append(dtos, toDTO(n))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["noteId"]
	n, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNoteNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(n)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto NoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), n)
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
	id := mux.Vars(r)["noteId"]
	var dto NoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid note id in request body", http.StatusBadRequest)
		return
	}
	n, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), n)
	if errors.Is(err, ErrNoteNotFound) {
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

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["noteId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrNoteNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
