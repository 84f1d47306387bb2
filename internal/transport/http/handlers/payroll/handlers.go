package payrollhandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/platform/apperror"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	Compute(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.LineDraft, error)
	Run(ctx context.Context, in payroll.FinalizeInput) (payroll.FinalizeResult, error)
	CompletePayrun(ctx context.Context, id string) (payroll.FinalizeResult, error)
	ListPayruns(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payrun, int, error)
	GetPayrun(ctx context.Context, id string) (payroll.Payrun, error)
	DeletePayrun(ctx context.Context, id string) error
	GetPayslip(ctx context.Context, id string) (payroll.Payslip, payroll.PayslipDocument, error)
	RegeneratePayslip(ctx context.Context, id string) (payroll.Payslip, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, evt audit.Event, details any) error
}

type Handler struct {
	Service    Service
	Audit      AuditRecorder
	PayslipDir string
}

func NewHandler(svc Service, auditor AuditRecorder, payslipDir string) *Handler {
	return &Handler{Service: svc, Audit: auditor, PayslipDir: payslipDir}
}

type periodPayload struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

type finalizePayload struct {
	PeriodStart string              `json:"periodStart"`
	PeriodEnd   string              `json:"periodEnd"`
	PayrollData []payroll.LineDraft `json:"payrollData"`
}

type computeResponse struct {
	PeriodStart string              `json:"periodStart"`
	PeriodEnd   string              `json:"periodEnd"`
	PayrollData []payroll.LineDraft `json:"payrollData"`
	Summary     payroll.Summary     `json:"summary"`
}

type finalizeResponse struct {
	Message           string                  `json:"message"`
	Payrun            payroll.Payrun          `json:"payrun"`
	PayslipsGenerated int                     `json:"payslipsGenerated"`
	Summary           payroll.Summary         `json:"summary"`
	Notifications     []notifications.Outcome `json:"notifications"`
}

type listResponse struct {
	Items      []payroll.Payrun `json:"items"`
	Pagination shared.PageMeta  `json:"pagination"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/compute", h.handleCompute)
		r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/finalize", h.handleFinalize)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/payslips/{payslipID}/download", h.handleDownloadPayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/payslips/{payslipID}/regenerate", h.handleRegeneratePayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{payrunID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{payrunID}/register.xlsx", h.handleRegister)
		r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/{payrunID}/payslips", h.handleCompletePayrun)
		r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Delete("/{payrunID}", h.handleDelete)
	})
}

func parsePeriod(v *shared.Validator, startRaw, endRaw string) (time.Time, time.Time) {
	start, okStart := v.Date("periodStart", startRaw)
	end, okEnd := v.Date("periodEnd", endRaw)
	if okStart && okEnd {
		v.DateOrder("periodStart", start, "periodEnd", end)
	}
	return start, end
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload periodPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	start, end := parsePeriod(v, payload.PeriodStart, payload.PeriodEnd)
	if v.Reject(w, reqID) {
		return
	}

	lines, err := h.Service.Compute(r.Context(), start, end)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if lines == nil {
		lines = []payroll.LineDraft{}
	}
	api.Success(w, computeResponse{
		PeriodStart: start.Format(time.DateOnly),
		PeriodEnd:   end.Format(time.DateOnly),
		PayrollData: lines,
		Summary:     payroll.Summarize(lines),
	}, reqID)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload finalizePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	start, end := parsePeriod(v, payload.PeriodStart, payload.PeriodEnd)
	for i := range payload.PayrollData {
		v.Struct(fmt.Sprintf("payrollData[%d]", i), payload.PayrollData[i])
	}
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Service.Run(r.Context(), payroll.FinalizeInput{
		PeriodStart: start,
		PeriodEnd:   end,
		Lines:       payload.PayrollData,
		CreatedBy:   user.UserID,
	})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}

	h.record(r, audit.Event{Action: audit.ActionPayrunFinalized, EntityType: audit.EntityPayrun, EntityID: result.Payrun.ID}, map[string]any{
		"periodStart":         start.Format(time.DateOnly),
		"periodEnd":           end.Format(time.DateOnly),
		"lines":               len(result.Payrun.Lines),
		"totalNet":            result.Payrun.TotalNet,
		"notificationsFailed": notifications.Failed(result.Notifications),
	})

	api.Created(w, finalizeResponse{
		Message:           "Payroll finalized successfully",
		Payrun:            result.Payrun,
		PayslipsGenerated: len(result.Payslips),
		Summary:           result.Summary,
		Notifications:     result.Notifications,
	}, reqID)
}

// handleCompletePayrun renders the payslips of a finalized payrun whose
// original finalize request failed after the payrun was stored.
func (h *Handler) handleCompletePayrun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payrunID := chi.URLParam(r, "payrunID")
	result, err := h.Service.CompletePayrun(r.Context(), payrunID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}

	h.record(r, audit.Event{Action: audit.ActionPayslipsGenerated, EntityType: audit.EntityPayrun, EntityID: payrunID}, map[string]any{
		"payslips":            len(result.Payslips),
		"notificationsFailed": notifications.Failed(result.Notifications),
	})

	api.Success(w, finalizeResponse{
		Message:           "Payslips generated successfully",
		Payrun:            result.Payrun,
		PayslipsGenerated: len(result.Payslips),
		Summary:           result.Summary,
		Notifications:     result.Notifications,
	}, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	page := shared.ParsePage(r, v)
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && status != payroll.StatusFinalized && status != payroll.StatusDraft {
		v.Add("status", "must be one of FINALIZED DRAFT")
	}
	if v.Reject(w, reqID) {
		return
	}

	runs, total, err := h.Service.ListPayruns(r.Context(), payroll.ListFilter{Status: status, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if runs == nil {
		runs = []payroll.Payrun{}
	}
	api.Success(w, listResponse{Items: runs, Pagination: shared.NewPageMeta(page, total)}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	run, err := h.Service.GetPayrun(r.Context(), chi.URLParam(r, "payrunID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	api.Success(w, run, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payrunID := chi.URLParam(r, "payrunID")
	if err := h.Service.DeletePayrun(r.Context(), payrunID); err != nil {
		api.FailError(w, err, reqID)
		return
	}
	h.record(r, audit.Event{Action: audit.ActionPayrunDeleted, EntityType: audit.EntityPayrun, EntityID: payrunID}, nil)
	api.Success(w, map[string]string{"message": "Payrun deleted successfully"}, reqID)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	run, err := h.Service.GetPayrun(r.Context(), chi.URLParam(r, "payrunID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}

	var buf bytes.Buffer
	if err := payroll.WriteRegister(&buf, run); err != nil {
		api.FailError(w, fmt.Errorf("write register: %w", err), reqID)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payroll.RegisterFilename(run)))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write register response failed", "payrunId", run.ID, "err", err)
	}
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payslip, _, err := h.Service.GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	if !h.withinPayslipDir(payslip.FilePath) {
		api.FailError(w, fmt.Errorf("payslip %s points outside %s", payslip.ID, h.PayslipDir), reqID)
		return
	}

	f, err := os.Open(payslip.FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		api.FailError(w, apperror.NotFound("payslip file not found"), reqID)
		return
	}
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(payslip.FilePath)))
	http.ServeContent(w, r, filepath.Base(payslip.FilePath), payslip.GeneratedAt, f)
}

func (h *Handler) handleRegeneratePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payslipID := chi.URLParam(r, "payslipID")
	payslip, err := h.Service.RegeneratePayslip(r.Context(), payslipID)
	if err != nil {
		api.FailError(w, err, reqID)
		return
	}
	h.record(r, audit.Event{Action: audit.ActionPayslipRegenerated, EntityType: audit.EntityPayslip, EntityID: payslipID},
		map[string]any{"filePath": payslip.FilePath})
	api.Success(w, payslip, reqID)
}

func (h *Handler) withinPayslipDir(path string) bool {
	if h.PayslipDir == "" {
		return true
	}
	base, err := filepath.Abs(h.PayslipDir)
	if err != nil {
		return false
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// record writes an audit event; a failure is logged and never fails the request.
func (h *Handler) record(r *http.Request, evt audit.Event, details any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	evt.ActorID = user.UserID
	evt.RequestID = middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), evt, details); err != nil {
		slog.Warn("audit record failed", "action", evt.Action, "entityId", evt.EntityID, "err", err)
	}
}
