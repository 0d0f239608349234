// Package healthcheck runs named dependency checks concurrently and folds
// them into one overall status
package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

const defaultTimeout = 10 * time.Second

// Check represents a health check
type Check struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ms"`
}

// Response represents the combined result
type Response struct {
	Status        Status        `json:"status"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck manages health checks
type HealthCheck struct {
	checkers map[string]Checker
	timeout  time.Duration
	logger   *zap.Logger
	mu       sync.RWMutex
}

// New creates a new health check instance
func New(logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		checkers: make(map[string]Checker),
		timeout:  defaultTimeout,
		logger:   logger.Named("healthcheck"),
	}
}

// Register registers a health checker
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Check runs every registered checker. Checks are sorted by name.
func (h *HealthCheck) Check(ctx context.Context) Response {
	start := time.Now()
	response := Response{
		Timestamp: start,
		Status:    StatusHealthy,
		Checks:    []Check{},
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var wg sync.WaitGroup
	h.mu.RLock()
	checksChan := make(chan Check, len(h.checkers))
	for name, checker := range h.checkers {
		wg.Add(1)
		go func(n string, c Checker) {
			defer wg.Done()
			check := c.Check(checkCtx)
			check.Name = n
			checksChan <- check
		}(name, checker)
	}
	h.mu.RUnlock()

	wg.Wait()
	close(checksChan)

	for check := range checksChan {
		response.Checks = append(response.Checks, check)

		if check.Status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if check.Status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
		if check.Status != StatusHealthy {
			h.logger.Warn("Health check failed",
				zap.String("check", check.Name),
				zap.String("status", string(check.Status)),
				zap.String("message", check.Message))
		}
	}
	sort.Slice(response.Checks, func(i, j int) bool {
		return response.Checks[i].Name < response.Checks[j].Name
	})

	response.TotalDuration = time.Since(start)
	return response
}

// KeyValueStore is the storage surface probed by StoreChecker
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ProbeKey is written and removed by StoreChecker.
const ProbeKey = "chef_ai_healthcheck"

// StoreChecker round-trips a probe entry through the store
type StoreChecker struct {
	store KeyValueStore
}

// NewStoreChecker creates a new store checker
func NewStoreChecker(store KeyValueStore) *StoreChecker {
	return &StoreChecker{store: store}
}

// Check writes, reads back and deletes ProbeKey
func (s *StoreChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "storage"}

	probe := []byte(start.UTC().Format(time.RFC3339Nano))
	err := s.store.Set(ctx, ProbeKey, probe)
	if err == nil {
		var got []byte
		got, err = s.store.Get(ctx, ProbeKey)
		if err == nil && string(got) != string(probe) {
			err = fmt.Errorf("read back %q, wrote %q", got, probe)
		}
	}
	if err == nil {
		err = s.store.Delete(ctx, ProbeKey)
	}
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}
	check.Status = StatusHealthy
	return check
}

// CustomChecker allows for custom health check logic
type CustomChecker struct {
	check func(ctx context.Context) (Status, string)
}

// NewCustomChecker creates a new custom checker
func NewCustomChecker(check func(ctx context.Context) (Status, string)) *CustomChecker {
	return &CustomChecker{check: check}
}

// Check performs custom health check
func (c *CustomChecker) Check(ctx context.Context) Check {
	start := time.Now()
	status, message := c.check(ctx)
	return Check{
		Status:   status,
		Message:  message,
		Duration: time.Since(start),
	}
}

// MarshalJSON reports the duration in milliseconds
func (c Check) MarshalJSON() ([]byte, error) {
	type Alias Check
	return json.Marshal(&struct {
		Duration float64 `json:"duration_ms"`
		*Alias
	}{
		Duration: float64(c.Duration.Milliseconds()),
		Alias:    (*Alias)(&c),
	})
}

// MarshalJSON reports the total duration in milliseconds
func (r Response) MarshalJSON() ([]byte, error) {
	type Alias Response
	return json.Marshal(&struct {
		TotalDuration float64 `json:"total_duration_ms"`
		*Alias
	}{
		TotalDuration: float64(r.TotalDuration.Milliseconds()),
		Alias:         (*Alias)(&r),
	})
}
