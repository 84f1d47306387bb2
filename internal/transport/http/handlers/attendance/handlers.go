package attendancehandler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	CheckIn(ctx context.Context, employeeID string) (attendance.Record, error)
	CheckOut(ctx context.Context, employeeID string) (attendance.Record, error)
	MarkAbsent(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error)
	List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error)
}

type EmployeeResolver interface {
	GetByUserID(ctx context.Context, userID string) (core.Employee, error)
}

type Handler struct {
	Service   Service
	Employees EmployeeResolver
}

func NewHandler(svc Service, employees EmployeeResolver) *Handler {
	return &Handler{Service: svc, Employees: employees}
}

type absentRequest struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	Date       string `json:"date"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceManage)).Post("/absent", h.handleMarkAbsent)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead)).Get("/", h.handleList)
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.Service.CheckIn)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, h.Service.CheckOut)
}

func (h *Handler) clock(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (attendance.Record, error)) {
	reqID := middleware.GetRequestID(r.Context())
	emp, ok := h.caller(w, r)
	if !ok {
		return
	}
	rec, err := fn(r.Context(), emp.ID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleMarkAbsent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload absentRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct("", payload)
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}
	rec, err := h.Service.MarkAbsent(r.Context(), payload.EmployeeID, date)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, rec, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	query := r.URL.Query()

	v := shared.NewValidator()
	page := shared.ParsePage(r, v)
	filter := attendance.ListFilter{Limit: page.Limit, Offset: page.Offset}
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		filter.From, _ = v.Date("from", raw)
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		filter.To, _ = v.Date("to", raw)
	}
	v.DateOrder("from", filter.From, "to", filter.To)
	if v.Reject(w, reqID) {
		return
	}

	if user.Role.Can(auth.PermAttendanceManage) {
		filter.EmployeeID = strings.TrimSpace(query.Get("employeeId"))
	} else {
		emp, ok := h.caller(w, r)
		if !ok {
			return
		}
		filter.EmployeeID = emp.ID
	}

	records, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	api.Success(w, map[string]any{"items": records}, reqID)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (core.Employee, bool) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return core.Employee{}, false
	}
	return emp, true
}
