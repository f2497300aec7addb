package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/notehive/notehive/internal/config"
)

// RateLimitResult is the admission decision for a single request.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// RateLimitStore holds per-identifier fixed-window counters. The store is
// injected so a single-process memory store can be swapped for a shared
// Redis store without touching callers.
type RateLimitStore interface {
	// Check applies the fixed-window transition for identifier and returns
	// the decision. A denied request must not mutate stored state.
	Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) (RateLimitResult, error)
	// Cleanup discards records whose window has already expired. Expired
	// records self-correct on next access, so this is maintenance only.
	Cleanup(ctx context.Context) error
}

type rateLimitRecord struct {
	count     int
	resetTime time.Time
}

// MemoryRateLimitStore is the in-process store. Access is serialized per
// store, which makes check-and-increment atomic for concurrent requests
// on the same identifier.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	records map[string]*rateLimitRecord
	now     func() time.Time
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		records: make(map[string]*rateLimitRecord),
		now:     time.Now,
	}
}

func (s *MemoryRateLimitStore) Check(_ context.Context, identifier string, maxRequests int, window time.Duration) (RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record, ok := s.records[identifier]

	// No record, or the stored window has passed: start a fresh window.
	if !ok || now.After(record.resetTime) {
		resetTime := now.Add(window)
		s.records[identifier] = &rateLimitRecord{count: 1, resetTime: resetTime}
		return RateLimitResult{
			Allowed:   true,
			Limit:     maxRequests,
			Remaining: maxRequests - 1,
			ResetTime: resetTime,
		}, nil
	}

	// At the limit: deny without touching the record so the caller can
	// compute retry-after from the existing reset time.
	if record.count >= maxRequests {
		return RateLimitResult{
			Allowed:   false,
			Limit:     maxRequests,
			Remaining: 0,
			ResetTime: record.resetTime,
		}, nil
	}

	record.count++
	return RateLimitResult{
		Allowed:   true,
		Limit:     maxRequests,
		Remaining: maxRequests - record.count,
		ResetTime: record.resetTime,
	}, nil
}

func (s *MemoryRateLimitStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for identifier, record := range s.records {
		if now.After(record.resetTime) {
			delete(s.records, identifier)
		}
	}
	return nil
}

// RateLimitService bounds per-caller request rates with a fixed-window
// counter. Bursts are possible at window boundaries; this is a deliberate
// trade of precision for simplicity in an abuse deterrent, not a hard
// quota.
type RateLimitService struct {
	config *config.RateLimitConfig
	logger *logrus.Logger
	store  RateLimitStore

	decisions *prometheus.CounterVec

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewRateLimitService(cfg *config.RateLimitConfig, logger *logrus.Logger, store RateLimitStore) *RateLimitService {
	s := &RateLimitService{
		config:   cfg,
		logger:   logger,
		store:    store,
		stopChan: make(chan struct{}),
	}

	s.decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_decisions_total",
		Help: "Rate limit admission decisions by outcome",
	}, []string{"decision"})

	if err := prometheus.Register(s.decisions); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			logger.WithError(err).Warn("Failed to register rate_limit_decisions_total metric")
		}
	}

	if cfg.CleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupWorker()
	}

	return s
}

// Check applies the configured limit and window for identifier.
func (s *RateLimitService) Check(ctx context.Context, identifier string) (RateLimitResult, error) {
	return s.CheckN(ctx, identifier, s.config.MaxRequests, s.config.Window)
}

// CheckN applies an explicit limit and window for identifier.
func (s *RateLimitService) CheckN(ctx context.Context, identifier string, maxRequests int, window time.Duration) (RateLimitResult, error) {
	result, err := s.store.Check(ctx, identifier, maxRequests, window)
	if err != nil {
		return RateLimitResult{}, err
	}

	if result.Allowed {
		s.decisions.WithLabelValues("allowed").Inc()
	} else {
		s.decisions.WithLabelValues("denied").Inc()
		s.logger.WithFields(logrus.Fields{
			"identifier": identifier,
			"limit":      maxRequests,
			"reset_time": result.ResetTime,
		}).Warn("Rate limit exceeded")
	}

	return result, nil
}

func (s *RateLimitService) cleanupWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			if err := s.store.Cleanup(context.Background()); err != nil {
				s.logger.WithError(err).Warn("Rate limit store cleanup failed")
			}
		}
	}
}

func (s *RateLimitService) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
