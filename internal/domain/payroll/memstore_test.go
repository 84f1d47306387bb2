package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrms/internal/platform/lock"
)

type memStore struct {
	mu        sync.Mutex
	employees []Employee
	leave     map[string][]DateRange
	absences  map[string][]time.Time
	runs      map[string]Payrun
	lines     map[string][]PayrunLine
	payslips  map[string]Payslip // keyed by line id
	createErr error
}

func newMemStore(employees ...Employee) *memStore {
	return &memStore{
		employees: employees,
		leave:     map[string][]DateRange{},
		absences:  map[string][]time.Time{},
		runs:      map[string]Payrun{},
		lines:     map[string][]PayrunLine{},
		payslips:  map[string]Payslip{},
	}
}

func (m *memStore) ListEligibleEmployees(_ context.Context, periodEnd time.Time) ([]Employee, error) {
	var out []Employee
	for _, e := range m.employees {
		if !dateOnly(e.JoinDate).After(periodEnd) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListApprovedUnpaidLeave(_ context.Context, employeeID string, start, end time.Time) ([]DateRange, error) {
	var out []DateRange
	for _, r := range m.leave[employeeID] {
		if !r.From.After(end) && !r.To.Before(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListAbsentDates(_ context.Context, employeeID string, start, end time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, d := range m.absences[employeeID] {
		if inRange(d, start, end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memStore) CreatePayrun(_ context.Context, run Payrun, lines []PayrunLine) (Payrun, []PayrunLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return Payrun{}, nil, m.createErr
	}
	for _, existing := range m.runs {
		if existing.PeriodStart.Equal(run.PeriodStart) && existing.PeriodEnd.Equal(run.PeriodEnd) {
			return Payrun{}, nil, ErrPeriodAlreadyFinalized
		}
	}
	for _, line := range lines {
		if !m.knownEmployee(line.EmployeeID) {
			return Payrun{}, nil, ErrEmployeeNotFound
		}
	}
	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()
	saved := make([]PayrunLine, len(lines))
	for i, line := range lines {
		line.ID = uuid.NewString()
		line.PayrunID = run.ID
		saved[i] = line
	}
	m.runs[run.ID] = run
	m.lines[run.ID] = saved
	return run, saved, nil
}

func (m *memStore) knownEmployee(id string) bool {
	for _, e := range m.employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (m *memStore) employeeRef(id string) EmployeeRef {
	for _, e := range m.employees {
		if e.ID == id {
			return EmployeeRef{ID: e.ID, UserID: e.UserID, Name: e.Name, Email: e.Email,
				EmployeeCode: e.EmployeeCode, Department: e.Department, Designation: e.Designation}
		}
	}
	return EmployeeRef{ID: id}
}

func (m *memStore) linesWithRefs(runID string) []PayrunLine {
	out := make([]PayrunLine, 0, len(m.lines[runID]))
	for _, line := range m.lines[runID] {
		ref := m.employeeRef(line.EmployeeID)
		line.Employee = &ref
		if p, ok := m.payslips[line.ID]; ok {
			line.Payslip = &p
		}
		out = append(out, line)
	}
	return out
}

func (m *memStore) GetPayrun(_ context.Context, id string) (Payrun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return Payrun{}, ErrPayrunNotFound
	}
	run.Lines = m.linesWithRefs(id)
	return run, nil
}

func (m *memStore) ListPayruns(_ context.Context, filter ListFilter) ([]Payrun, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payrun
	for id, run := range m.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		run.Lines = m.linesWithRefs(id)
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	total := len(out)
	if filter.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (m *memStore) DeletePayrun(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrPayrunNotFound
	}
	if run.Status == StatusFinalized {
		return ErrPayrunFinalized
	}
	for _, line := range m.lines[id] {
		delete(m.payslips, line.ID)
	}
	delete(m.lines, id)
	delete(m.runs, id)
	return nil
}

func (m *memStore) ListPayslipDocuments(_ context.Context, payrunID string) ([]PayslipDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := m.runs[payrunID]
	var docs []PayslipDocument
	for _, line := range m.linesWithRefs(payrunID) {
		docs = append(docs, PayslipDocument{PayrunID: payrunID, PeriodStart: run.PeriodStart, PeriodEnd: run.PeriodEnd,
			Line: line, Employee: *line.Employee})
	}
	return docs, nil
}

func (m *memStore) UpsertPayslip(_ context.Context, lineID, filePath string, generatedAt time.Time) (Payslip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payslips[lineID]
	if !ok {
		p = Payslip{ID: uuid.NewString(), PayrunLineID: lineID}
	}
	p.FilePath = filePath
	p.GeneratedAt = generatedAt
	m.payslips[lineID] = p
	return p, nil
}

func (m *memStore) GetPayslip(_ context.Context, id string) (Payslip, PayslipDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for runID, run := range m.runs {
		for _, line := range m.linesWithRefs(runID) {
			if line.Payslip != nil && line.Payslip.ID == id {
				return *line.Payslip, PayslipDocument{PayrunID: runID, PeriodStart: run.PeriodStart, PeriodEnd: run.PeriodEnd,
					Line: line, Employee: *line.Employee}, nil
			}
		}
	}
	return Payslip{}, PayslipDocument{}, ErrPayslipNotFound
}

// fileRenderer writes a small placeholder file per document.
type fileRenderer struct {
	dir    string
	mu     sync.Mutex
	calls  int
	failOn string
}

func (r *fileRenderer) Render(_ context.Context, doc PayslipDocument) (string, error) {
	r.mu.Lock()
	r.calls++
	n := r.calls
	r.mu.Unlock()
	if doc.Employee.EmployeeCode == r.failOn {
		return "", errors.New("render failed")
	}
	path := filepath.Join(r.dir, fmt.Sprintf("payslip_%s_%d.pdf", doc.Employee.EmployeeCode, n))
	return path, os.WriteFile(path, []byte("%PDF"), 0o644)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []PayslipNotice
	failFor string
}

func (n *recordingNotifier) NotifyPayslip(_ context.Context, notice PayslipNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if notice.Employee.EmployeeCode == n.failFor {
		return errors.New("mailbox unavailable")
	}
	n.notices = append(n.notices, notice)
	return nil
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return nil, lock.ErrHeld
}

type recordingLocker struct {
	keys     []string
	released int
}

func (l *recordingLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, error) {
	l.keys = append(l.keys, key)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
