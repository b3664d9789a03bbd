package notify

import (
	"sync"
	"time"
)

// Severity categorizes a notification for presentation.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is one ephemeral user-facing message.
type Notification struct {
	Text     string
	Severity Severity
	At       time.Time
}

// DefaultTTL is how long a notification stays active before it decays.
const DefaultTTL = 5 * time.Second

// Feed is a decaying stream of notifications. Push never blocks; listeners
// that fall behind miss entries rather than stalling the emitter.
type Feed struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []Notification
	updates chan Notification
	now     func() time.Time
}

// NewFeed creates a feed with the given decay duration; ttl <= 0 selects
// DefaultTTL.
func NewFeed(ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Feed{
		ttl:     ttl,
		updates: make(chan Notification, 16),
		now:     time.Now,
	}
}

// Push records a notification with its severity tag.
func (f *Feed) Push(severity Severity, text string) {
	n := Notification{Text: text, Severity: severity, At: f.now()}

	f.mu.Lock()
	f.prune(n.At)
	f.entries = append(f.entries, n)
	f.mu.Unlock()

	select {
	case f.updates <- n:
	default:
	}
}

// Active returns the notifications that have not yet decayed, oldest first.
func (f *Feed) Active() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune(f.now())

	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}

// Updates delivers each pushed notification to a single consumer.
func (f *Feed) Updates() <-chan Notification {
	return f.updates
}

// prune drops expired entries. Caller holds f.mu.
func (f *Feed) prune(now time.Time) {
	cutoff := now.Add(-f.ttl)
	kept := f.entries[:0]
	for _, n := range f.entries {
		if n.At.After(cutoff) {
			kept = append(kept, n)
		}
	}
	f.entries = kept
}
