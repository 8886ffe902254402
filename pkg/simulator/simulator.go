// Package simulator stands in for a dispenser fleet during development. It
// publishes synthetic intake, heartbeat and hardware-error events on the bus
// at fixed intervals.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/metrics"
	"github.com/mzrn1122/SMD/pkg/models"
)

const (
	GeneratorIntake      string = "intake"
	GeneratorHeartbeat   string = "heartbeat"
	GeneratorError       string = "error"
	GeneratorScheduleAck string = "schedule_ack"
)

var ErrSimulationFault = errors.New("simulation fault")

type Simulator struct {
	pub       bus.Publisher
	opts      Options
	clock     Clock
	startedAt time.Time

	// rnd is not safe for concurrent use; ticks may come from Run and from tests.
	mu  sync.Mutex
	rnd Rand
}

func New(pub bus.Publisher, opts Options, rnd Rand, clock Clock) *Simulator {
	if clock == nil {
		clock = SystemClock{}
	}
	if rnd == nil {
		rnd = NewSeededRand(uint64(clock.Now().UnixNano()))
	}
	return &Simulator{
		pub:       pub,
		opts:      opts,
		clock:     clock,
		startedAt: clock.Now(),
		rnd:       rnd,
	}
}

func logger(generator string) *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameSimulator, zap.String(common.LoggerFieldGenerator, generator))
}

func (s *Simulator) chance(p float64) bool {
	return s.rnd.Float64() < p
}

func (s *Simulator) between(lo, hi int) (int, error) {
	if hi < lo {
		return 0, fmt.Errorf("%w: empty range [%d,%d]", ErrSimulationFault, lo, hi)
	}
	return lo + s.rnd.IntN(hi-lo+1), nil
}

func (s *Simulator) pickDevice() (string, error) {
	if len(s.opts.Devices) == 0 {
		return "", fmt.Errorf("%w: no devices configured", ErrSimulationFault)
	}
	return s.opts.Devices[s.rnd.IntN(len(s.opts.Devices))], nil
}

// tick runs one generator step. Build failures and panics are logged and the
// tick is skipped; nothing escapes to the caller.
func (s *Simulator) tick(generator, topic string, build func() ([]any, error)) (emitted int) {
	log := logger(generator)
	metrics.SimulatorTicks.WithLabelValues(generator).Inc()

	defer func() {
		if r := recover(); r != nil {
			metrics.SimulatorFaults.WithLabelValues(generator).Inc()
			log.Error("Simulator tick panicked", zap.Any("panic", r))
			emitted = 0
		}
	}()

	payloads, err := s.locked(build)
	if err != nil {
		metrics.SimulatorFaults.WithLabelValues(generator).Inc()
		log.Warn("Skipping simulator tick", zap.Error(err))
		return 0
	}

	for _, p := range payloads {
		if err := s.pub.Publish(topic, p); err != nil {
			metrics.SimulatorFaults.WithLabelValues(generator).Inc()
			log.Warn("Simulated event not published", zap.Error(err))
			continue
		}
		emitted++
	}
	return emitted
}

func (s *Simulator) locked(build func() ([]any, error)) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return build()
}

// IntakeTick emits at most one taken event.
func (s *Simulator) IntakeTick() int {
	return s.tick(GeneratorIntake, bus.TopicIntake, s.buildIntake)
}

// HeartbeatTick emits one heartbeat per configured device.
func (s *Simulator) HeartbeatTick() int {
	return s.tick(GeneratorHeartbeat, bus.TopicHeartbeat, s.buildHeartbeats)
}

// ErrorTick emits at most one hardware error.
func (s *Simulator) ErrorTick() int {
	return s.tick(GeneratorError, bus.TopicError, s.buildError)
}

func (s *Simulator) buildIntake() ([]any, error) {
	if !s.chance(s.opts.IntakeProbability) {
		return nil, nil
	}

	deviceID, err := s.pickDevice()
	if err != nil {
		return nil, err
	}

	event := models.IntakeEvent{
		DeviceID: deviceID,
		Event:    models.IntakeTaken,
		Verification: &models.Verification{
			Face: s.chance(s.opts.FacePassRate),
			IR:   s.chance(s.opts.IRPassRate),
			Load: s.chance(s.opts.LoadPassRate),
		},
		RemainingStockHint: s.rnd.IntN(60),
		Timestamp:          s.clock.Now(),
	}
	return []any{event}, nil
}

func (s *Simulator) buildHeartbeats() ([]any, error) {
	if len(s.opts.Devices) == 0 {
		return nil, fmt.Errorf("%w: no devices configured", ErrSimulationFault)
	}

	now := s.clock.Now()
	uptime := int64(now.Sub(s.startedAt) / time.Second)

	payloads := make([]any, 0, len(s.opts.Devices))
	for _, deviceID := range s.opts.Devices {
		rssi, err := s.between(s.opts.RSSIMin, s.opts.RSSIMax)
		if err != nil {
			return nil, err
		}
		battery, err := s.between(s.opts.BatteryMin, s.opts.BatteryMax)
		if err != nil {
			return nil, err
		}

		status := models.DeviceOnline
		if battery < s.opts.LowBatteryPercent {
			status = models.DeviceWarning
		}

		payloads = append(payloads, models.Heartbeat{
			DeviceID:       deviceID,
			RSSI:           rssi,
			BatteryPercent: battery,
			UptimeSeconds:  uptime,
			Status:         status,
			ObservedAt:     now,
		})
	}
	return payloads, nil
}

func (s *Simulator) buildError() ([]any, error) {
	if !s.chance(s.opts.ErrorProbability) {
		return nil, nil
	}
	if len(s.opts.ErrorCatalog) == 0 {
		return nil, fmt.Errorf("%w: empty error catalog", ErrSimulationFault)
	}

	deviceID, err := s.pickDevice()
	if err != nil {
		return nil, err
	}
	kind := s.opts.ErrorCatalog[s.rnd.IntN(len(s.opts.ErrorCatalog))]

	severity := models.SeverityError
	if s.chance(s.opts.WarningProbability) {
		severity = models.SeverityWarning
	}

	return []any{models.HardwareError{
		DeviceID:   deviceID,
		ErrorType:  kind.Type,
		Severity:   severity,
		Message:    kind.Message,
		OccurredAt: s.clock.Now(),
	}}, nil
}

func (s *Simulator) newTicker(d time.Duration) Ticker {
	if d <= 0 {
		return nil
	}
	return s.clock.NewTicker(d)
}

func tickC(t Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C()
}

// Run drives the three generators from a single loop until ctx is done. A
// non-positive interval disables that generator.
func (s *Simulator) Run(ctx context.Context) {
	log := common.GetLoggerWith(common.LoggerNameSimulator)

	intake := s.newTicker(s.opts.IntakeInterval)
	heartbeat := s.newTicker(s.opts.HeartbeatInterval)
	hwError := s.newTicker(s.opts.ErrorInterval)
	for _, t := range []Ticker{intake, heartbeat, hwError} {
		if t != nil {
			defer t.Stop()
		}
	}

	log.Info("Simulator started",
		zap.Strings("devices", s.opts.Devices),
		zap.Duration("intake_interval", s.opts.IntakeInterval),
		zap.Duration("heartbeat_interval", s.opts.HeartbeatInterval),
		zap.Duration("error_interval", s.opts.ErrorInterval),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("Simulator stopped")
			return
		case <-tickC(intake):
			s.IntakeTick()
		case <-tickC(heartbeat):
			s.HeartbeatTick()
		case <-tickC(hwError):
			s.ErrorTick()
		}
	}
}

// AttachScheduleAck makes the simulated fleet acknowledge schedule updates the
// way the firmware does: a success response on the response topic after a
// short delay. Once ctx is done the subscription is removed and acks that have
// not fired yet are dropped.
func (s *Simulator) AttachScheduleAck(ctx context.Context, sub bus.Subscriber) bus.Subscription {
	var (
		mu      sync.Mutex
		pending = map[Timer]struct{}{}
	)

	subscription := sub.Subscribe(bus.TopicScheduleSync, func(e bus.Event) {
		var update models.ScheduleSync
		switch p := e.Payload.(type) {
		case models.ScheduleSync:
			update = p
		case *models.ScheduleSync:
			if p == nil {
				return
			}
			update = *p
		default:
			logger(GeneratorScheduleAck).Warn("Unexpected schedule sync payload", zap.Any("payload", e.Payload))
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}

		var timer Timer
		timer = s.clock.AfterFunc(s.opts.ScheduleAckDelay, func() {
			mu.Lock()
			delete(pending, timer)
			mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			s.tick(GeneratorScheduleAck, bus.TopicScheduleSyncResponse, func() ([]any, error) {
				return []any{models.ScheduleSyncResponse{
					DeviceID: update.DeviceID,
					Status:   "success",
					Message:  "Schedule updated successfully",
				}}, nil
			})
		})
		pending[timer] = struct{}{}
	})

	go func() {
		<-ctx.Done()
		sub.Unsubscribe(subscription)

		mu.Lock()
		defer mu.Unlock()
		if n := len(pending); n > 0 {
			logger(GeneratorScheduleAck).Info("Pending schedule acks dropped", zap.Int("count", n))
		}
		for t := range pending {
			t.Stop()
		}
		clear(pending)
	}()

	return subscription
}
