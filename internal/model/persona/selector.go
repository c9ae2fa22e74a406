package persona

import (
	"math/rand"
	"sync"
	"time"
)

// Selector picks the interviewer for a new session. Selection happens exactly
// once per session; the result never changes afterwards.
type Selector interface {
	Pick() Persona
}

// RandomSelector draws uniformly from a fixed catalog.
type RandomSelector struct {
	mu    sync.Mutex
	items []Persona
	rng   *rand.Rand
}

// NewRandomSelector builds a selector over the supplied catalog. A nil rng
// falls back to a time-seeded source; tests inject a seeded one for
// deterministic picks.
func NewRandomSelector(items []Persona, rng *rand.Rand) *RandomSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomSelector{items: append([]Persona(nil), items...), rng: rng}
}

// Pick returns a uniformly random persona from the catalog.
func (s *RandomSelector) Pick() Persona {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[s.rng.Intn(len(s.items))]
}
