package payroll

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/platform/money"
)

func newFinalizeService(t *testing.T, store *memStore) (*Service, *fileRenderer, *recordingNotifier) {
	t.Helper()
	renderer := &fileRenderer{dir: t.TempDir()}
	notifier := &recordingNotifier{}
	return NewService(store, Options{Renderer: renderer, Notifier: notifier}), renderer, notifier
}

func twoEmployeeStore() *memStore {
	store := newMemStore(
		sampleEmployee("e1", "EMP001", "2023-06-01"),
		sampleEmployee("e2", "EMP002", "2024-01-15"),
	)
	store.leave["e1"] = []DateRange{{From: day("2024-01-08"), To: day("2024-01-09")}}
	return store
}

func TestFinalizePersistsRunAndLines(t *testing.T) {
	store := twoEmployeeStore()
	locker := &recordingLocker{}
	svc := NewService(store, Options{Locker: locker})

	run, lines, err := svc.Finalize(context.Background(), FinalizeInput{
		PeriodStart: day("2024-01-01"),
		PeriodEnd:   day("2024-01-31"),
		CreatedBy:   "admin",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusFinalized, run.Status)
	assert.Equal(t, "admin", run.CreatedBy)
	require.Len(t, lines, 2)
	assert.Equal(t, "Working days: 23, Unpaid days: 2", lines[0].Remarks)
	assert.Equal(t, "Working days: 13, Unpaid days: 0", lines[1].Remarks)

	var net []float64
	for _, line := range lines {
		assert.Equal(t, run.ID, line.PayrunID)
		net = append(net, line.Net)
	}
	assert.Equal(t, run.TotalNet, money.Sum(net...))
	assert.Equal(t, []string{"payroll:finalize:2024-01-01:2024-01-31"}, locker.keys)
	assert.Equal(t, 1, locker.released)
}

func TestFinalizeUsesSuppliedLines(t *testing.T) {
	store := twoEmployeeStore()
	svc := NewService(store, Options{})
	drafts := []LineDraft{{EmployeeID: "e1", Gross: 1000, PFEmployee: 120, Net: 880, ActualWorkingDays: 20, UnpaidDays: 1}}

	run, lines, err := svc.Finalize(context.Background(), FinalizeInput{
		PeriodStart: day("2024-01-01"),
		PeriodEnd:   day("2024-01-31"),
		Lines:       drafts,
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 880.0, run.TotalNet)
	assert.Equal(t, 120.0, run.TotalDeductions)
	assert.Equal(t, "Working days: 20, Unpaid days: 1", lines[0].Remarks)
}

func TestFinalizeSamePeriodTwiceConflicts(t *testing.T) {
	store := twoEmployeeStore()
	svc := NewService(store, Options{})
	in := FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")}

	_, _, err := svc.Finalize(context.Background(), in)
	require.NoError(t, err)
	_, _, err = svc.Finalize(context.Background(), in)
	assert.ErrorIs(t, err, ErrPeriodAlreadyFinalized)
	assert.Len(t, store.runs, 1)
}

func TestFinalizeConcurrentCallsCreateOneRun(t *testing.T) {
	store := twoEmployeeStore()
	svc := NewService(store, Options{})
	in := FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = svc.Finalize(context.Background(), in)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrPeriodAlreadyFinalized)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, store.runs, 1)
}

func TestFinalizeWhileLockHeld(t *testing.T) {
	store := twoEmployeeStore()
	svc := NewService(store, Options{Locker: heldLocker{}})

	_, _, err := svc.Finalize(context.Background(), FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")})
	assert.ErrorIs(t, err, ErrFinalizeInProgress)
	assert.Empty(t, store.runs)
}

func TestFinalizeRejectsBadInput(t *testing.T) {
	svc := NewService(twoEmployeeStore(), Options{})
	ctx := context.Background()

	_, _, err := svc.Finalize(ctx, FinalizeInput{PeriodStart: day("2024-02-01"), PeriodEnd: day("2024-01-01")})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, _, err = svc.Finalize(ctx, FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31"), Lines: []LineDraft{}})
	assert.ErrorIs(t, err, ErrNoEligibleEmployees)

	_, _, err = svc.Finalize(ctx, FinalizeInput{
		PeriodStart: day("2024-01-01"),
		PeriodEnd:   day("2024-01-31"),
		Lines:       []LineDraft{{EmployeeID: "e1"}, {EmployeeID: "e1"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateLine)
}

func TestFinalizeStoreFailureLeavesNothing(t *testing.T) {
	store := twoEmployeeStore()
	store.createErr = errors.New("insert payrun_lines: connection lost")
	svc := NewService(store, Options{})

	_, _, err := svc.Finalize(context.Background(), FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")})
	assert.Error(t, err)
	assert.Empty(t, store.runs)
	assert.Empty(t, store.lines)
}

func TestRunGeneratesPayslipsAndNotifies(t *testing.T) {
	store := twoEmployeeStore()
	svc, _, notifier := newFinalizeService(t, store)

	result, err := svc.Run(context.Background(), FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")})
	require.NoError(t, err)

	assert.Len(t, result.Payslips, 2)
	assert.Equal(t, 2, result.Summary.TotalEmployees)
	assert.Equal(t, result.Payrun.TotalNet, result.Summary.TotalNet)
	for _, p := range result.Payslips {
		_, statErr := os.Stat(p.FilePath)
		assert.NoError(t, statErr)
	}
	require.Len(t, result.Notifications, 2)
	assert.Equal(t, 0, countFailed(result))
	assert.Len(t, notifier.notices, 2)
}

func TestRunNotificationFailureDoesNotFailFinalize(t *testing.T) {
	store := twoEmployeeStore()
	svc, _, notifier := newFinalizeService(t, store)
	notifier.failFor = "EMP001"

	result, err := svc.Run(context.Background(), FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")})
	require.NoError(t, err)

	assert.Equal(t, 1, countFailed(result))
	assert.Len(t, notifier.notices, 1)
	assert.Equal(t, "EMP002", notifier.notices[0].Employee.EmployeeCode)
	assert.Len(t, store.runs, 1)
}

func countFailed(result FinalizeResult) int {
	n := 0
	for _, o := range result.Notifications {
		if !o.Delivered {
			n++
		}
	}
	return n
}

func onlyRunID(t *testing.T, store *memStore) string {
	t.Helper()
	require.Len(t, store.runs, 1)
	for id := range store.runs {
		return id
	}
	return ""
}

func TestRunRenderFailureCanBeCompletedLater(t *testing.T) {
	store := twoEmployeeStore()
	svc, renderer, notifier := newFinalizeService(t, store)
	renderer.failOn = "EMP002"
	in := FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31"), CreatedBy: "admin"}
	ctx := context.Background()

	_, err := svc.Run(ctx, in)
	require.Error(t, err)
	runID := onlyRunID(t, store)
	assert.Empty(t, store.payslips)

	// The period stays finalized: neither a retry nor a delete unblocks it.
	_, err = svc.Run(ctx, in)
	assert.ErrorIs(t, err, ErrPeriodAlreadyFinalized)
	assert.ErrorIs(t, svc.DeletePayrun(ctx, runID), ErrPayrunFinalized)

	renderer.failOn = ""
	result, err := svc.CompletePayrun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, runID, result.Payrun.ID)
	assert.Len(t, result.Payslips, 2)
	assert.Len(t, store.payslips, 2)
	assert.Len(t, notifier.notices, 2)
	assert.Equal(t, 2, result.Summary.TotalEmployees)
}

func TestCompletePayrunReplacesExistingPayslips(t *testing.T) {
	store := twoEmployeeStore()
	svc, _, _ := newFinalizeService(t, store)
	ctx := context.Background()

	first, err := svc.Run(ctx, FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")})
	require.NoError(t, err)

	again, err := svc.CompletePayrun(ctx, first.Payrun.ID)
	require.NoError(t, err)
	assert.Len(t, again.Payslips, 2)
	assert.Len(t, store.payslips, 2)
}

func TestCompletePayrunWhileLockHeld(t *testing.T) {
	store := twoEmployeeStore()
	run, _, err := NewService(store, Options{}).Finalize(context.Background(), FinalizeInput{PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-31")})
	require.NoError(t, err)

	_, err = NewService(store, Options{Locker: heldLocker{}}).CompletePayrun(context.Background(), run.ID)
	assert.ErrorIs(t, err, ErrFinalizeInProgress)
}

func TestCompletePayrunUnknownPayrun(t *testing.T) {
	svc, _, _ := newFinalizeService(t, twoEmployeeStore())

	_, err := svc.CompletePayrun(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrPayrunNotFound)
	_, err = svc.CompletePayrun(context.Background(), "0b6c7a52-4f0e-4d4e-9a57-8f6f2a3f6a10")
	assert.ErrorIs(t, err, ErrPayrunNotFound)
}

func TestFinalizeUnknownEmployeeIsNotFound(t *testing.T) {
	store := twoEmployeeStore()
	svc := NewService(store, Options{})

	_, _, err := svc.Finalize(context.Background(), FinalizeInput{
		PeriodStart: day("2024-01-01"),
		PeriodEnd:   day("2024-01-31"),
		Lines:       []LineDraft{{EmployeeID: "e1", Gross: 100, Net: 100}, {EmployeeID: "ghost", Gross: 100, Net: 100}},
	})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	assert.Empty(t, store.runs)
}
