package leavehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/leave"
	"hrms/internal/platform/apperror"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	Submit(ctx context.Context, req leave.Request) (leave.TimeOff, error)
	Approve(ctx context.Context, id, approverID string) (leave.TimeOff, error)
	Reject(ctx context.Context, id, approverID string) (leave.TimeOff, error)
	List(ctx context.Context, filter leave.ListFilter) ([]leave.TimeOff, int, error)
}

// EmployeeResolver maps an authenticated user to their employee record.
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

type submitRequest struct {
	EmployeeID string `json:"employeeId" validate:"omitempty,uuid"`
	From       string `json:"from"`
	To         string `json:"to"`
	LeaveType  string `json:"leaveType"`
	Reason     string `json:"reason"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{leaveID}/reject", h.handleReject)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct("", payload)
	from, _ := v.Date("from", payload.From)
	to, _ := v.Date("to", payload.To)
	v.Required("leaveType", payload.LeaveType, "is required")
	if v.Reject(w, reqID) {
		return
	}

	employeeID := payload.EmployeeID
	if employeeID == "" || !user.Role.Can(auth.PermLeaveApprove) {
		// Requests without approval rights are always filed for the caller.
		emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
		if err != nil {
			api.FailError(w, err, reqID)
			return
		}
		if employeeID != "" && employeeID != emp.ID {
			api.Fail(w, http.StatusForbidden, apperror.CodeForbidden, "cannot file time off for another employee", reqID)
			return
		}
		employeeID = emp.ID
	}

	created, err := h.Service.Submit(r.Context(), leave.Request{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
		Type:       leave.Type(strings.ToUpper(strings.TrimSpace(payload.LeaveType))),
		Reason:     payload.Reason,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	v := shared.NewValidator()
	page := shared.ParsePage(r, v)
	filter := leave.ListFilter{Limit: page.Limit, Offset: page.Offset}
	if raw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))); raw != "" {
		switch leave.Status(raw) {
		case leave.StatusPending, leave.StatusApproved, leave.StatusRejected:
			filter.Status = leave.Status(raw)
		default:
			v.Add("status", "must be one of PENDING, APPROVED, REJECTED")
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	if user.Role.Can(auth.PermLeaveApprove) {
		filter.EmployeeID = strings.TrimSpace(r.URL.Query().Get("employeeId"))
	} else {
		emp, err := h.Employees.GetByUserID(r.Context(), user.UserID)
		if err != nil {
			api.FailError(w, err, reqID)
			return
		}
		filter.EmployeeID = emp.ID
	}

	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if items == nil {
		items = []leave.TimeOff{}
	}
	api.Success(w, map[string]any{"items": items, "pagination": shared.NewPageMeta(page, total)}, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, string) (leave.TimeOff, error)) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	decided, err := fn(r.Context(), chi.URLParam(r, "leaveID"), user.UserID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, decided, reqID)
}
