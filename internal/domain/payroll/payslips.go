package payroll

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
)

// GeneratePayslips renders and records one payslip per line of the payrun.
// Any render or store failure aborts the batch and removes the files this
// call already wrote.
func (s *Service) GeneratePayslips(ctx context.Context, payrunID string) ([]Payslip, error) {
	payslips, _, err := s.generatePayslips(ctx, payrunID)
	return payslips, err
}

func (s *Service) generatePayslips(ctx context.Context, payrunID string) ([]Payslip, []PayslipDocument, error) {
	if _, err := s.GetPayrun(ctx, payrunID); err != nil {
		return nil, nil, err
	}
	docs, err := s.store.ListPayslipDocuments(ctx, payrunID)
	if err != nil {
		return nil, nil, fmt.Errorf("list payrun lines: %w", err)
	}

	paths := make([]string, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(payslipRenderConcurrency)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			path, err := s.renderer.Render(gctx, doc)
			if err != nil {
				return fmt.Errorf("render payslip for %s: %w", doc.Employee.EmployeeCode, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		removeFiles(paths)
		return nil, nil, err
	}

	generatedAt := s.now()
	payslips := make([]Payslip, 0, len(docs))
	for i, doc := range docs {
		p, err := s.store.UpsertPayslip(ctx, doc.Line.ID, paths[i], generatedAt)
		if err != nil {
			removeFiles(paths)
			return nil, nil, fmt.Errorf("record payslip for line %s: %w", doc.Line.ID, err)
		}
		payslips = append(payslips, p)
	}
	return payslips, docs, nil
}

// RegeneratePayslip replaces a payslip's document with a freshly rendered one.
func (s *Service) RegeneratePayslip(ctx context.Context, payslipID string) (Payslip, error) {
	current, doc, err := s.GetPayslip(ctx, payslipID)
	if err != nil {
		return Payslip{}, err
	}
	if err := os.Remove(current.FilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Payslip{}, fmt.Errorf("remove previous payslip: %w", err)
	}
	path, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return Payslip{}, fmt.Errorf("render payslip: %w", err)
	}
	updated, err := s.store.UpsertPayslip(ctx, doc.Line.ID, path, s.now())
	if err != nil {
		removeFiles([]string{path})
		return Payslip{}, err
	}
	s.metrics.PayslipRendered()
	return updated, nil
}

func removeFiles(paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("remove payslip file failed", "path", path, "err", err)
		}
	}
}
