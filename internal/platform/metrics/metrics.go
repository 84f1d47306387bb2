package metrics

import (
	"sync/atomic"
	"time"
)

// Collector holds process-lifetime counters exposed on /metrics.
type Collector struct {
	totalRequests     atomic.Uint64
	errorRequests     atomic.Uint64
	rateLimited       atomic.Uint64
	totalDurationMs   atomic.Uint64
	payrunsFinalized  atomic.Uint64
	payslipsRendered  atomic.Uint64
	notificationFails atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) PayrunFinalized(payslips int) {
	c.payrunsFinalized.Add(1)
	c.payslipsRendered.Add(uint64(payslips))
}

func (c *Collector) PayslipRendered() {
	c.payslipsRendered.Add(1)
}

func (c *Collector) NotificationsFailed(n int) {
	c.notificationFails.Add(uint64(n))
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":             total,
		"errorsTotal":               c.errorRequests.Load(),
		"rateLimitedTotal":          c.rateLimited.Load(),
		"avgDurationMs":             avg,
		"totalDurationMs":           totalMs,
		"payrunsFinalizedTotal":     c.payrunsFinalized.Load(),
		"payslipsRenderedTotal":     c.payslipsRendered.Load(),
		"notificationFailuresTotal": c.notificationFails.Load(),
	}
}
