package audithandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, int, error)
}

type Handler struct {
	Service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAuditRead)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	v := shared.NewValidator()
	page := shared.ParsePage(r, v)
	if v.Reject(w, reqID) {
		return
	}
	filter := audit.Filter{
		Action:     strings.TrimSpace(query.Get("action")),
		EntityType: strings.TrimSpace(query.Get("entityType")),
		EntityID:   strings.TrimSpace(query.Get("entityId")),
	}
	events, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, map[string]any{"items": events, "pagination": shared.NewPageMeta(page, total)}, reqID)
}
