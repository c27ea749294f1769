package employee

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EmployeeDTO struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Position            string   `json:"position"`
	Email               string   `json:"email,omitempty"`
	Salary              *float64 `json:"salary,omitempty"`
	Revenue             *float64 `json:"revenue,omitempty"`
	CurrentStatus       string   `json:"currentStatus"`
	StatusTag           string   `json:"statusTag,omitempty"`
	StatusDate          string   `json:"statusDate,omitempty"`
	HourlyRate          *int     `json:"hourlyRate,omitempty"`
	CostHourlyRate      *int     `json:"costHourlyRate,omitempty"`
	BillHourlyRate      *int     `json:"billHourlyRate,omitempty"`
	PlannedMonthlyHours *int     `json:"plannedMonthlyHours,omitempty"`
}

type StatusUpdateDTO struct {
	CurrentStatus string `json:"currentStatus"`
	StatusTag     string `json:"statusTag,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(e Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                  e.ID,
		Name:                e.Name,
		Position:            e.Position,
		Email:               e.Email,
		Salary:              e.Salary,
		Revenue:             e.Revenue,
		CurrentStatus:       e.CurrentStatus,
		StatusTag:           e.StatusTag,
		HourlyRate:          e.HourlyRate,
		CostHourlyRate:      e.CostHourlyRate,
		BillHourlyRate:      e.BillHourlyRate,
		PlannedMonthlyHours: e.PlannedMonthlyHours,
	}
	if !e.StatusDate.IsZero() {
		dto.StatusDate = e.StatusDate.Format("2006-01-02")
	}
	return dto
}

func fromDTO(dto EmployeeDTO) (Employee, error) {
	e := Employee{
		ID:                  dto.ID,
		Name:                dto.Name,
		Position:            dto.Position,
		Email:               dto.Email,
		Salary:              dto.Salary,
		Revenue:             dto.Revenue,
		CurrentStatus:       dto.CurrentStatus,
		StatusTag:           dto.StatusTag,
		HourlyRate:          dto.HourlyRate,
		CostHourlyRate:      dto.CostHourlyRate,
		BillHourlyRate:      dto.BillHourlyRate,
		PlannedMonthlyHours: dto.PlannedMonthlyHours,
	}
	if dto.StatusDate != "" {
		d, err := time.Parse("2006-01-02", dto.StatusDate)
		if err != nil {
			return Employee{}, err
		}
		e.StatusDate = d
	}
	return e, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	employees, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toDTO(e))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["employeeId"]
	e, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrEmployeeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new employee")
	w.Header().Set("Content-Type", "application/json")
	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), e)
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
	id := mux.Vars(r)["employeeId"]
	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid employee id in request body", http.StatusBadRequest)
		return
	}
	e, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), e)
	if errors.Is(err, ErrEmployeeNotFound) {
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

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["employeeId"]
	var dto StatusUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := h.service.UpdateStatus(r.Context(), id, dto.CurrentStatus, dto.StatusTag)
	if errors.Is(err, ErrEmployeeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["employeeId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrEmployeeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
