package dispenser

import (
	"sync"

	"golang.org/x/time/rate"
)

type Limits struct {
	Rate  rate.Limit `json:"rate"`
	Burst int        `json:"burst"`
}

func (l Limits) validate() error {
	if l.Rate <= 0 {
		return invalidArgument("rate must be positive, got %v", float64(l.Rate))
	}
	if l.Burst < 1 {
		return invalidArgument("burst must be at least 1, got %d", l.Burst)
	}
	return nil
}

// RateLimiterStore throttles REST and gRPC requests per device id. Devices
// without an override share the default limits, each with its own bucket.
type RateLimiterStore struct {
	mu        sync.Mutex
	defaults  Limits
	overrides map[string]Limits
	limiters  map[string]*rate.Limiter
}

func NewRateLimiterStore(defaults Limits) *RateLimiterStore {
	return &RateLimiterStore{
		defaults:  defaults,
		overrides: make(map[string]Limits),
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (s *RateLimiterStore) limitsLocked(deviceID string) Limits {
	if l, ok := s.overrides[deviceID]; ok {
		return l
	}
	return s.defaults
}

func (s *RateLimiterStore) Limiter(deviceID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[deviceID]
	if !ok {
		l := s.limitsLocked(deviceID)
		limiter = rate.NewLimiter(l.Rate, l.Burst)
		s.limiters[deviceID] = limiter
	}
	return limiter
}

// Override replaces the device's limits and starts it on a full bucket.
func (s *RateLimiterStore) Override(deviceID string, limits Limits) error {
	if err := limits.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[deviceID] = limits
	s.limiters[deviceID] = rate.NewLimiter(limits.Rate, limits.Burst)
	return nil
}

// Reset forgets the device's override and bucket.
func (s *RateLimiterStore) Reset(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, deviceID)
	delete(s.limiters, deviceID)
}

func (s *RateLimiterStore) Limits(deviceID string) Limits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limitsLocked(deviceID)
}

func (s *RateLimiterStore) Allow(deviceID string) bool {
	return s.Limiter(deviceID).Allow()
}
