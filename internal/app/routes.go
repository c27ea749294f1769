package app

import (
	"github.com/gorilla/mux"
	"github.com/crewdeck/crewdeck/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Auth
	r.HandleFunc("/api/auth/register", deps.UserHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.UserHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", deps.UserHandler.Logout).Methods("POST")
	r.HandleFunc("/api/auth/me", deps.UserHandler.CurrentUser).Methods("GET")

	// Profile
	r.HandleFunc("/api/profile", deps.UserHandler.UpdateProfile).Methods("PUT")
	r.HandleFunc("/api/profile/password", deps.UserHandler.ChangePassword).Methods("PUT")

	// Employees
	r.HandleFunc("/api/employees", deps.EmployeeHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/employees", deps.EmployeeHandler.Create).Methods("POST")
	r.HandleFunc("/api/employees/{employeeId}", deps.EmployeeHandler.Get).Methods("GET")
	r.HandleFunc("/api/employees/{employeeId}", deps.EmployeeHandler.Update).Methods("PUT")
	r.HandleFunc("/api/employees/{employeeId}", deps.EmployeeHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/employees/{employeeId}/status", deps.EmployeeHandler.UpdateStatus).Methods("PUT")

	// Projects
	r.HandleFunc("/api/projects", deps.ProjectHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/projects", deps.ProjectHandler.Create).Methods("POST")
	r.HandleFunc("/api/projects/{projectId}", deps.ProjectHandler.Get).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}", deps.ProjectHandler.Update).Methods("PUT")
	r.HandleFunc("/api/projects/{projectId}", deps.ProjectHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/projects/{projectId}/members", deps.ProjectHandler.AddMember).Methods("POST")
	r.HandleFunc("/api/projects/{projectId}/members/{employeeId}", deps.ProjectHandler.SetMemberRates).Methods("PUT")
	r.HandleFunc("/api/projects/{projectId}/members/{employeeId}", deps.ProjectHandler.RemoveMember).Methods("DELETE")
	r.HandleFunc("/api/projects/{projectId}/links", deps.ProjectHandler.AddLink).Methods("POST")
	r.HandleFunc("/api/projects/{projectId}/links/{linkId}", deps.ProjectHandler.RemoveLink).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transactions", deps.FinanceHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/transactions", deps.FinanceHandler.Create).Methods("POST")
	r.HandleFunc("/api/transactions/summary", deps.FinanceHandler.Summary).Queries("year", "{year}", "month", "{month}").Methods("GET")
	r.HandleFunc("/api/transactions/{transactionId}", deps.FinanceHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transactions/{transactionId}", deps.FinanceHandler.Delete).Methods("DELETE")

	// Tasks
	r.HandleFunc("/api/tasks", deps.TaskHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/tasks", deps.TaskHandler.Create).Methods("POST")
	r.HandleFunc("/api/tasks/overdue", deps.TaskHandler.ListOverdue).Methods("GET")
	r.HandleFunc("/api/tasks/{taskId}", deps.TaskHandler.Get).Methods("GET")
	r.HandleFunc("/api/tasks/{taskId}", deps.TaskHandler.Update).Methods("PUT")
	r.HandleFunc("/api/tasks/{taskId}", deps.TaskHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/tasks/{taskId}/completion", deps.TaskHandler.SetDone).Methods("PUT")
	r.HandleFunc("/api/tasks/{taskId}/toggle", deps.TaskHandler.Toggle).Methods("POST")
	r.HandleFunc("/api/tasks/{taskId}/approve", deps.TaskHandler.Approve).Methods("POST")

	// Goals
	r.HandleFunc("/api/goals", deps.GoalHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/goals", deps.GoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/goals/{goalId}", deps.GoalHandler.Get).Methods("GET")
	r.HandleFunc("/api/goals/{goalId}", deps.GoalHandler.Update).Methods("PUT")
	r.HandleFunc("/api/goals/{goalId}", deps.GoalHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/goals/{goalId}/progress", deps.GoalHandler.UpdateProgress).Methods("PUT")

	// Reading list
	r.HandleFunc("/api/reading", deps.ReadingHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/reading", deps.ReadingHandler.Create).Methods("POST")
	r.HandleFunc("/api/reading/{itemId}", deps.ReadingHandler.Get).Methods("GET")
	r.HandleFunc("/api/reading/{itemId}", deps.ReadingHandler.Update).Methods("PUT")
	r.HandleFunc("/api/reading/{itemId}", deps.ReadingHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/reading/{itemId}/start", deps.ReadingHandler.MarkReading).Methods("POST")
	r.HandleFunc("/api/reading/{itemId}/complete", deps.ReadingHandler.MarkCompleted).Methods("POST")

	// Notes
	r.HandleFunc("/api/notes", deps.NoteHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/notes", deps.NoteHandler.Create).Methods("POST")
	r.HandleFunc("/api/notes/{noteId}", deps.NoteHandler.Get).Methods("GET")
	r.HandleFunc("/api/notes/{noteId}", deps.NoteHandler.Update).Methods("PUT")
	r.HandleFunc("/api/notes/{noteId}", deps.NoteHandler.Delete).Methods("DELETE")

	// Free-text commands
	r.HandleFunc("/api/command", deps.CommandHandler.Handle).Methods("POST")
}
