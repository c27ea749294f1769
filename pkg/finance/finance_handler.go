package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type TransactionDTO struct {
	ID              string   `json:"id"`
	TransactionType string   `json:"transactionType"`
	Amount          float64  `json:"amount"`
	Date            string   `json:"date"`
	Category        string   `json:"category,omitempty"`
	Description     string   `json:"description,omitempty"`
	Tags            []string `json:"tags"`
	EmployeeID      string   `json:"employeeId,omitempty"`
	ProjectID       string   `json:"projectId,omitempty"`
	TaskID          string   `json:"taskId,omitempty"`
}

type SummaryDTO struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(tx Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:              tx.ID,
		TransactionType: string(tx.TransactionType),
		Amount:          tx.Amount,
		Date:            tx.Date.Format("2006-01-02"),
		Category:        tx.Category,
		Description:     tx.Description,
		Tags:            tx.Tags,
		EmployeeID:      tx.EmployeeID,
		ProjectID:       tx.ProjectID,
		TaskID:          tx.TaskID,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	return dto
}

func fromDTO(dto TransactionDTO) (Transaction, error) {
	tx := Transaction{
		ID:              dto.ID,
		TransactionType: TransactionType(dto.TransactionType),
		Amount:          dto.Amount,
		Category:        dto.Category,
		Description:     dto.Description,
		Tags:            dto.Tags,
		EmployeeID:      dto.EmployeeID,
		ProjectID:       dto.ProjectID,
		TaskID:          dto.TaskID,
	}
	if tx.TransactionType != TransactionIncome && tx.TransactionType != TransactionExpense {
		return Transaction{}, errors.New("transactionType must be income or expense")
	}
	if dto.Date != "" {
		d, err := time.Parse("2006-01-02", dto.Date)
		if err != nil {
			return Transaction{}, err
		}
		tx.Date = d
	}
	return tx, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	transactions, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, toDTO(tx))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), tx)
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
	id := mux.Vars(r)["transactionId"]
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}
	tx, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), tx)
	if errors.Is(err, ErrTransactionNotFound) {
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
	id := mux.Vars(r)["transactionId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrTransactionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}
	summary, err := h.service.SummaryForMonth(r.Context(), year, time.Month(month))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dto := SummaryDTO{Income: summary.Income, Expense: summary.Expense, Balance: summary.Balance}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
