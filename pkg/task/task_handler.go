package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TaskDTO struct {
	ID                 string   `json:"id"`
	Content            string   `json:"content"`
	Priority           string   `json:"priority"`
	DueDate            string   `json:"dueDate,omitempty"`
	Done               bool     `json:"done"`
	State              string   `json:"state"`
	AssignedTo         string   `json:"assignedTo,omitempty"`
	ProjectID          string   `json:"projectId,omitempty"`
	HoursSpent         float64  `json:"hoursSpent"`
	Billable           bool     `json:"billable"`
	CostRateOverride   *int     `json:"costRateOverride,omitempty"`
	BillRateOverride   *int     `json:"billRateOverride,omitempty"`
	HourlyRateOverride *int     `json:"hourlyRateOverride,omitempty"`
	AppliedCostRate    *int     `json:"appliedCostRate,omitempty"`
	AppliedBillRate    *int     `json:"appliedBillRate,omitempty"`
	AppliedHourlyRate  *int     `json:"appliedHourlyRate,omitempty"`
	Approved           bool     `json:"approved"`
	ApprovedAt         *string  `json:"approvedAt,omitempty"`
	IncomeTxID         string   `json:"incomeTxId,omitempty"`
	ExpenseTxID        string   `json:"expenseTxId,omitempty"`
}

type CompletionDTO struct {
	Done bool `json:"done"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(t Task) TaskDTO {
	dto := TaskDTO{
		ID:                 t.ID,
		Content:            t.Content,
		Priority:           string(t.Priority),
		Done:               t.Done,
		State:              string(t.State()),
		AssignedTo:         t.AssignedTo,
		ProjectID:          t.ProjectID,
		HoursSpent:         t.HoursSpent,
		Billable:           t.Billable,
		CostRateOverride:   t.CostRateOverride,
		BillRateOverride:   t.BillRateOverride,
		HourlyRateOverride: t.HourlyRateOverride,
		AppliedCostRate:    t.AppliedCostRate,
		AppliedBillRate:    t.AppliedBillRate,
		AppliedHourlyRate:  t.AppliedHourlyRate,
		Approved:           t.Approved,
		IncomeTxID:         t.IncomeTxID,
		ExpenseTxID:        t.ExpenseTxID,
	}
	if !t.DueDate.IsZero() {
		dto.DueDate = t.DueDate.Format("2006-01-02")
	}
	if t.ApprovedAt != nil {
		s := t.ApprovedAt.Format(time.RFC3339)
		dto.ApprovedAt = &s
	}
	return dto
}

func fromDTO(dto TaskDTO) (Task, error) {
	t := Task{
		ID:                 dto.ID,
		Content:            dto.Content,
		Priority:           Priority(dto.Priority),
		AssignedTo:         dto.AssignedTo,
		ProjectID:          dto.ProjectID,
		HoursSpent:         dto.HoursSpent,
		Billable:           dto.Billable,
		CostRateOverride:   dto.CostRateOverride,
		BillRateOverride:   dto.BillRateOverride,
		HourlyRateOverride: dto.HourlyRateOverride,
	}
	if dto.DueDate != "" {
		d, err := time.Parse("2006-01-02", dto.DueDate)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = d
	}
	return t, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tasks, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, toDTO(t))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["taskId"]
	t, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tasks, err := h.service.ListOverdue(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, toDTO(t))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new task")
	w.Header().Set("Content-Type", "application/json")
	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), t)
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
	id := mux.Vars(r)["taskId"]
	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid task id in request body", http.StatusBadRequest)
		return
	}
	t, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), t)
	if errors.Is(err, ErrTaskNotFound) {
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

func (h *Handler) SetDone(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["taskId"]
	var dto CompletionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := h.service.SetDone(r.Context(), id, dto.Done)
	if errors.Is(err, ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["taskId"]
	t, err := h.service.Toggle(r.Context(), id)
	if errors.Is(err, ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["taskId"]
	t, err := h.service.Approve(r.Context(), id)
	if errors.Is(err, ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrNotPermitted) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["taskId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrTaskNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
