package picker

import (
	"math/rand"
	"sync"
)

// Source supplies uniform random values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source. The returned value is not safe for
// concurrent use; wrap it with Locked when it is shared.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Locked serializes access to src.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// globalSource draws from the math/rand top-level generator, which is safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

var defaultSource Source = globalSource{}

// DefaultSource returns the process-wide source used when Pick is given nil.
func DefaultSource() Source {
	return defaultSource
}
