package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type ProjectDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags"`
	Status      string      `json:"status"`
	StartDate   string      `json:"startDate,omitempty"`
	EndDate     string      `json:"endDate,omitempty"`
	Links       []LinkDTO   `json:"links"`
	Members     []MemberDTO `json:"members"`
}

type LinkDTO struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	LinkType string `json:"linkType"`
}

type MemberDTO struct {
	EmployeeID     string `json:"employeeId"`
	HourlyRate     *int   `json:"hourlyRate,omitempty"`
	CostHourlyRate *int   `json:"costHourlyRate,omitempty"`
	BillHourlyRate *int   `json:"billHourlyRate,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func toDTO(p Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Tags:        p.Tags,
		Status:      string(p.Status),
		Links:       make([]LinkDTO, 0, len(p.Links)),
		Members:     make([]MemberDTO, 0, len(p.Members)),
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if !p.StartDate.IsZero() {
		dto.StartDate = p.StartDate.Format("2006-01-02")
	}
	if !p.EndDate.IsZero() {
		dto.EndDate = p.EndDate.Format("2006-01-02")
	}
	for _, l := range p.Links {
		dto.Links = append(dto.Links, LinkDTO{ID: l.ID, Title: l.Title, URL: l.URL, LinkType: l.LinkType})
	}
	for _, m := range p.Members {
		dto.Members = append(dto.Members, MemberDTO{
			EmployeeID:     m.EmployeeID,
			HourlyRate:     m.HourlyRate,
			CostHourlyRate: m.CostHourlyRate,
			BillHourlyRate: m.BillHourlyRate,
		})
	}
	return dto
}

func fromDTO(dto ProjectDTO) (Project, error) {
	p := Project{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Tags:        dto.Tags,
		Status:      Status(dto.Status),
	}
	if dto.StartDate != "" {
		d, err := time.Parse("2006-01-02", dto.StartDate)
		if err != nil {
			return Project{}, err
		}
		p.StartDate = d
	}
	if dto.EndDate != "" {
		d, err := time.Parse("2006-01-02", dto.EndDate)
		if err != nil {
			return Project{}, err
		}
		p.EndDate = d
	}
	return p, nil
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	projects, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, toDTO(p))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["projectId"]
	p, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var dto ProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), p)
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
	id := mux.Vars(r)["projectId"]
	var dto ProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" {
		dto.ID = id
	}
	if dto.ID != id {
		http.Error(w, "Invalid project id in request body", http.StatusBadRequest)
		return
	}
	p, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.service.Update(r.Context(), p)
	if errors.Is(err, ErrProjectNotFound) {
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
	id := mux.Vars(r)["projectId"]
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	projectId := mux.Vars(r)["projectId"]
	var dto MemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m := Member{
		ProjectID:      projectId,
		EmployeeID:     dto.EmployeeID,
		HourlyRate:     dto.HourlyRate,
		CostHourlyRate: dto.CostHourlyRate,
		BillHourlyRate: dto.BillHourlyRate,
	}
	err := h.service.AddMember(r.Context(), m)
	if errors.Is(err, ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.RemoveMember(r.Context(), vars["projectId"], vars["employeeId"])
	if errors.Is(err, ErrMemberNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetMemberRates(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var dto MemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m := Member{
		ProjectID:      vars["projectId"],
		EmployeeID:     vars["employeeId"],
		HourlyRate:     dto.HourlyRate,
		CostHourlyRate: dto.CostHourlyRate,
		BillHourlyRate: dto.BillHourlyRate,
	}
	err := h.service.SetMemberRates(r.Context(), m)
	if errors.Is(err, ErrMemberNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddLink(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	projectId := mux.Vars(r)["projectId"]
	var dto LinkDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l, err := h.service.AddLink(r.Context(), Link{
		ProjectID: projectId,
		Title:     dto.Title,
		URL:       dto.URL,
		LinkType:  dto.LinkType,
	})
	if errors.Is(err, ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(LinkDTO{ID: l.ID, Title: l.Title, URL: l.URL, LinkType: l.LinkType}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.service.RemoveLink(r.Context(), vars["projectId"], vars["linkId"])
	if errors.Is(err, ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
