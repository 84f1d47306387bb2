package notificationshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/middleware"
)

type fakeService struct {
	items map[string][]notifications.Notification
	read  []string
}

func (f *fakeService) List(_ context.Context, userID string, limit, offset int) ([]notifications.Notification, int, error) {
	items := f.items[userID]
	return items, len(items), nil
}

func (f *fakeService) MarkRead(_ context.Context, userID, id string) error {
	for _, n := range f.items[userID] {
		if n.ID == id {
			f.read = append(f.read, id)
			return nil
		}
	}
	return notifications.ErrNotFound
}

func router(svc Service, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: userID, Role: auth.RoleEmployee}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestListIsScopedToCaller(t *testing.T) {
	svc := &fakeService{items: map[string][]notifications.Notification{
		"u1": {{ID: "n1", UserID: "u1", Type: notifications.TypePayslipPublished, Title: "Payslip ready"}},
	}}

	rec := httptest.NewRecorder()
	router(svc, "u1").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payslip ready")

	rec = httptest.NewRecorder()
	router(svc, "u2").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestMarkRead(t *testing.T) {
	svc := &fakeService{items: map[string][]notifications.Notification{"u1": {{ID: "n1", UserID: "u1"}}}}

	rec := httptest.NewRecorder()
	router(svc, "u1").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"n1"}, svc.read)

	rec = httptest.NewRecorder()
	router(svc, "u2").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
