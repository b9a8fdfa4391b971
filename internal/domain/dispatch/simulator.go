// internal/domain/dispatch/simulator.go
package dispatch

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/domain/order"
)

// Simulator advances active orders through the status pipeline on a
// fixed cadence, standing in for a real dispatch backend. Each tracked
// order owns at most one pending timer, so its transitions are strictly
// sequential; orders progress independently of each other.
type Simulator struct {
	orders   *order.Service
	interval time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// NewSimulator creates a simulator that advances orders one status step
// per interval through the order service's public mutation API.
func NewSimulator(orders *order.Service, interval time.Duration, logger *logrus.Logger) *Simulator {
	return &Simulator{
		orders:   orders,
		interval: interval,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Track schedules progression for an order. Tracking an order that is
// already tracked, unknown, or terminal is a no-op. New orders do not
// disturb the schedules of orders already in flight.
func (s *Simulator) Track(orderID string) {
	o, ok := s.orders.Get(orderID)
	if !ok || o.Status.IsTerminal() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if _, tracked := s.timers[orderID]; tracked {
		return
	}
	s.scheduleLocked(orderID)
}

// Untrack cancels the pending transition for one order. Idempotent.
func (s *Simulator) Untrack(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(orderID)
}

// Stop cancels every pending transition. Called on owner teardown so no
// orphaned timer mutates state afterwards. Idempotent.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id := range s.timers {
		s.cancelLocked(id)
	}
}

// scheduleLocked arms the next step for an order. Callers hold s.mu.
func (s *Simulator) scheduleLocked(orderID string) {
	s.timers[orderID] = time.AfterFunc(s.interval, func() {
		s.advance(orderID)
	})
}

// cancelLocked stops and forgets an order's timer. Callers hold s.mu.
func (s *Simulator) cancelLocked(orderID string) {
	if timer, ok := s.timers[orderID]; ok {
		timer.Stop()
		delete(s.timers, orderID)
	}
}

// advance fires one forward transition and re-arms the timer while the
// order remains non-terminal. It runs under s.mu so a chain cancelled by
// Untrack or Stop can never mutate an order afterwards, even if its
// timer had already fired.
func (s *Simulator) advance(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, tracked := s.timers[orderID]; !tracked {
		// Cancelled between firing and acquiring the lock.
		return
	}
	delete(s.timers, orderID)
	if s.stopped {
		return
	}

	o, ok := s.orders.Get(orderID)
	if !ok || o.Status.IsTerminal() {
		return
	}

	next, ok := order.NextStatus(o.Status, o.DeliveryMethod)
	if !ok {
		// delivered_by_shopper waits on the customer, nothing to schedule.
		return
	}

	s.orders.UpdateStatus(orderID, next)

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   next,
	}).Debug("Simulated dispatch step")

	if next.IsTerminal() {
		return
	}
	if _, hasNext := order.NextStatus(next, o.DeliveryMethod); !hasNext {
		return
	}
	s.scheduleLocked(orderID)
}
