// Package monitor periodically checks that the submissions worksheet is reachable
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Verifier checks the spreadsheet connection
type Verifier interface {
	Verify(ctx context.Context) error
}

// Status is the outcome of the most recent connection check
type Status struct {
	CheckedAt time.Time `json:"checked_at"`
	Connected bool      `json:"connected"`
	Error     string    `json:"error,omitempty"`
}

// Monitor runs connection checks on a cron schedule and remembers the last result
type Monitor struct {
	verifier Verifier
	cron     *cron.Cron
	now      func() time.Time

	mutex  sync.RWMutex
	last   *Status
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a monitor for the given cron spec (e.g. "@every 15m")
func New(verifier Verifier, schedule string) (*Monitor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Monitor{
		verifier: verifier,
		cron:     cron.New(),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}

	if _, err := m.cron.AddFunc(schedule, func() { m.Check() }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid check schedule %q: %w", schedule, err)
	}

	return m, nil
}

// Start begins running checks in the background
func (m *Monitor) Start() {
	m.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish
func (m *Monitor) Stop() {
	m.cancel()
	<-m.cron.Stop().Done()
}

// Check runs one connection check immediately and records the result
func (m *Monitor) Check() Status {
	err := m.verifier.Verify(m.ctx)

	status := Status{
		CheckedAt: m.now(),
		Connected: err == nil,
	}
	if err != nil {
		status.Error = err.Error()
		log.Printf("[MONITOR]: Sheet connection check failed: %v", err)
	}

	m.mutex.Lock()
	m.last = &status
	m.mutex.Unlock()

	return status
}

// Last returns the most recent check result, or false if none has run yet
func (m *Monitor) Last() (Status, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.last == nil {
		return Status{}, false
	}
	return *m.last, true
}
