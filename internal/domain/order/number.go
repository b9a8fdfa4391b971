// internal/domain/order/number.go
package order

import (
	"math/rand"
	"sync"
	"time"
)

// NumberSource yields order numbers. Injected so tests can assert
// determinism; production uses the random source.
type NumberSource interface {
	Next() int64
}

// randomSource generates large random order numbers. Uniqueness is not
// cryptographically guaranteed; the store re-rolls on collision.
type randomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a NumberSource seeded from the current time.
func NewRandomSource() NumberSource {
	return &randomSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *randomSource) Next() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Six digits, matching the human-facing identifier suffix.
	return 100000 + r.rng.Int63n(900000)
}

// SequenceSource yields consecutive order numbers starting at a fixed
// value. Intended for tests.
type SequenceSource struct {
	mu   sync.Mutex
	next int64
}

// NewSequenceSource creates a SequenceSource starting at start.
func NewSequenceSource(start int64) *SequenceSource {
	return &SequenceSource{next: start}
}

func (s *SequenceSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n
}
