package corehandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/middleware"
)

type fakeService struct {
	created core.EmployeeInput
	emp     core.Employee
}

func (f *fakeService) Create(_ context.Context, input core.EmployeeInput) (core.Employee, error) {
	f.created = input
	return core.Employee{ID: "e1", EmployeeCode: input.EmployeeCode}, nil
}

func (f *fakeService) Update(_ context.Context, id string, input core.EmployeeInput) (core.Employee, error) {
	if id != f.emp.ID {
		return core.Employee{}, core.ErrEmployeeNotFound
	}
	return f.emp, nil
}

func (f *fakeService) Get(_ context.Context, id string) (core.Employee, error) {
	if id != f.emp.ID {
		return core.Employee{}, core.ErrEmployeeNotFound
	}
	return f.emp, nil
}

func (f *fakeService) GetByUserID(_ context.Context, userID string) (core.Employee, error) {
	if userID != f.emp.UserID {
		return core.Employee{}, core.ErrEmployeeNotFound
	}
	return f.emp, nil
}

func (f *fakeService) List(context.Context, int, int) ([]core.Employee, int, error) {
	return []core.Employee{f.emp}, 1, nil
}

func router(svc Service, user auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestCreateEmployee(t *testing.T) {
	svc := &fakeService{}
	h := router(svc, auth.UserContext{UserID: "admin", Role: auth.RoleHR})

	body := `{"userId":"0b6c7a52-4f0e-4d4e-9a57-8f6f2a3f6a10","employeeCode":"EMP001","baseSalary":50000,"allowances":5000,"pfApplicable":true,"joinDate":"2024-01-15","bankAccount":"123456784931"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "EMP001", svc.created.EmployeeCode)
	assert.Equal(t, 15, svc.created.JoinDate.Day())
}

func TestCreateEmployeeValidation(t *testing.T) {
	h := router(&fakeService{}, auth.UserContext{UserID: "admin", Role: auth.RoleAdmin})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"userId":"nope","employeeCode":"","baseSalary":-1,"joinDate":"2024-01-15"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	for _, field := range []string{"userId", "employeeCode", "baseSalary"} {
		assert.Contains(t, rec.Body.String(), `"field":"`+field+`"`)
	}
}

func TestCreateEmployeeForbiddenForEmployee(t *testing.T) {
	h := router(&fakeService{}, auth.UserContext{UserID: "u2", Role: auth.RoleEmployee})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetEmployeeHidesPayForOtherManagers(t *testing.T) {
	svc := &fakeService{emp: core.Employee{ID: "e1", UserID: "u1", BaseSalary: 50000, BankDetails: "XXXX-XXXX-4931"}}
	h := router(svc, auth.UserContext{UserID: "mgr", Role: auth.RoleManager})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/e1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "4931")
	assert.Contains(t, rec.Body.String(), `"baseSalary":0`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployeeSeesOwnRecord(t *testing.T) {
	svc := &fakeService{emp: core.Employee{ID: "e1", UserID: "u1", BaseSalary: 50000, BankDetails: "XXXX-XXXX-4931"}}

	rec := httptest.NewRecorder()
	router(svc, auth.UserContext{UserID: "u1", Role: auth.RoleEmployee}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/me", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "4931")

	rec = httptest.NewRecorder()
	router(svc, auth.UserContext{UserID: "u9", Role: auth.RoleEmployee}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/me", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEmployeesPagination(t *testing.T) {
	svc := &fakeService{emp: core.Employee{ID: "e1", UserID: "u1"}}
	h := router(svc, auth.UserContext{UserID: "admin", Role: auth.RoleAdmin})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees?page=1&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees?limit=500", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
