package corehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/platform/apperror"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, input core.EmployeeInput) (core.Employee, error)
	Update(ctx context.Context, id string, input core.EmployeeInput) (core.Employee, error)
	Get(ctx context.Context, id string) (core.Employee, error)
	GetByUserID(ctx context.Context, userID string) (core.Employee, error)
	List(ctx context.Context, limit, offset int) ([]core.Employee, int, error)
}

type Handler struct {
	Service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Service: svc}
}

type employeePayload struct {
	UserID                    string  `json:"userId"`
	EmployeeCode              string  `json:"employeeCode"`
	Department                string  `json:"department"`
	Designation               string  `json:"designation"`
	BaseSalary                float64 `json:"baseSalary"`
	Allowances                float64 `json:"allowances"`
	PFApplicable              bool    `json:"pfApplicable"`
	ProfessionalTaxApplicable bool    `json:"professionalTaxApplicable"`
	JoinDate                  string  `json:"joinDate"`
	BankAccount               string  `json:"bankAccount"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleCreate)
		r.Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Put("/{employeeID}", h.handleUpdate)
	})
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (core.EmployeeInput, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return core.EmployeeInput{}, false
	}
	v := shared.NewValidator()
	joinDate, _ := v.Date("joinDate", payload.JoinDate)
	input := core.EmployeeInput{
		UserID:                    payload.UserID,
		EmployeeCode:              payload.EmployeeCode,
		Department:                payload.Department,
		Designation:               payload.Designation,
		BaseSalary:                payload.BaseSalary,
		Allowances:                payload.Allowances,
		PFApplicable:              payload.PFApplicable,
		ProfessionalTaxApplicable: payload.ProfessionalTaxApplicable,
		JoinDate:                  joinDate,
		BankAccount:               payload.BankAccount,
	}
	v.Struct("", input)
	if v.Reject(w, reqID) {
		return core.EmployeeInput{}, false
	}
	return input, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Create(r.Context(), input)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Update(r.Context(), chi.URLParam(r, "employeeID"), input)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	core.FilterEmployeeFields(&emp, user)
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

// handleMe returns the caller's own record; no permission beyond authentication.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, apperror.CodeUnauthorized, "authentication required", reqID)
		return
	}
	emp, err := h.Service.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	v := shared.NewValidator()
	page := shared.ParsePage(r, v)
	if v.Reject(w, reqID) {
		return
	}
	employees, total, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	for i := range employees {
		core.FilterEmployeeFields(&employees[i], user)
	}
	if employees == nil {
		employees = []core.Employee{}
	}
	api.Success(w, map[string]any{"items": employees, "pagination": shared.NewPageMeta(page, total)}, reqID)
}
