package cache

import (
	"fmt"
	"sync"
	"time"

	"docnav/internal/locator"
	"docnav/internal/reference"
	"docnav/internal/resolver"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// DefaultTTL bounds how long a jump waits for its viewer.
const DefaultTTL = 5 * time.Minute

// Clock is the time source for TTL bookkeeping.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var systemClock = ClockFunc(time.Now)

// PendingJumps bridges "open at locator" requests and the later
// "viewer ready" callback. One instance serves one viewer family.
type PendingJumps struct {
	mu    sync.Mutex
	store Store
	ttl   time.Duration
	clock Clock
	log   commonlog.Logger
}

type Option func(*PendingJumps)

func WithTTL(ttl time.Duration) Option {
	return func(p *PendingJumps) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithClock(c Clock) Option {
	return func(p *PendingJumps) {
		if c != nil {
			p.clock = c
		}
	}
}

func NewPendingJumps(store Store, opts ...Option) *PendingJumps {
	p := &PendingJumps{
		store: store,
		ttl:   DefaultTTL,
		clock: systemClock,
		log:   commonlog.GetLogger("docnav.cache"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PendingJumps) TTL() time.Duration { return p.ttl }

// Record sweeps expired jumps and stores loc under every variant of ref.
func (p *PendingJumps) Record(ref reference.Reference, loc locator.Locator) (Jump, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.sweep(); err != nil {
		p.log.Warningf("sweep before record failed: %v", err)
	}

	keys := reference.Variants(ref)
	if len(keys) == 0 {
		return Jump{}, ErrInvalidKey
	}
	jump := Jump{
		ID:        uuid.NewString(),
		Locator:   loc,
		CreatedAt: p.clock.Now(),
	}
	if err := p.store.Put(keys, jump); err != nil {
		return Jump{}, fmt.Errorf("failed to record jump for %s: %w", ref.Raw, err)
	}
	p.log.Debugf("recorded %s for %s under %d keys", loc, ref.Raw, len(keys))
	return jump, nil
}

// Consume returns the locator waiting for ref, clamped to total (0 means
// unknown). A locator still encoded in ref itself wins and discards any
// cached jump. A consumed jump is removed under all its keys, so a repeated
// Consume for the same navigation returns nothing.
func (p *PendingJumps) Consume(ref reference.Reference, total int) (locator.Locator, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := reference.Variants(ref)

	if loc, ok := resolver.Resolve(resolver.Request{Reference: ref, Total: total}); ok {
		p.evict(keys)
		p.log.Debugf("direct locator %s for %s", loc, ref.Raw)
		return loc, true
	}

	now := p.clock.Now()
	for _, key := range keys {
		jump, ok, err := p.store.Get(key)
		if err != nil {
			p.log.Errorf("lookup of %q failed: %v", key, err)
			continue
		}
		if !ok || p.expired(jump, now) {
			continue
		}
		if err := p.store.Delete(jump.ID); err != nil {
			p.log.Errorf("could not delete consumed jump %s: %v", jump.ID, err)
		}
		loc, ok := resolver.Clamp(jump.Locator, total)
		if !ok {
			return locator.Locator{}, false
		}
		p.log.Debugf("consumed %s for %s via %q", loc, ref.Raw, key)
		return loc, true
	}
	return locator.Locator{}, false
}

// Sweep removes every jump older than the TTL.
func (p *PendingJumps) Sweep() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sweep()
}

// Len reports the number of jumps held, expired ones included until swept.
func (p *PendingJumps) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, err := p.store.Len()
	if err != nil {
		p.log.Errorf("len failed: %v", err)
		return 0
	}
	return n
}

func (p *PendingJumps) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Close()
}

func (p *PendingJumps) sweep() (int, error) {
	n, err := p.store.DeleteBefore(p.clock.Now().Add(-p.ttl))
	if n > 0 {
		p.log.Debugf("swept %d expired jumps", n)
	}
	return n, err
}

func (p *PendingJumps) expired(j Jump, now time.Time) bool {
	return now.Sub(j.CreatedAt) > p.ttl
}

func (p *PendingJumps) evict(keys []string) {
	for _, key := range keys {
		jump, ok, err := p.store.Get(key)
		if err != nil || !ok {
			continue
		}
		if err := p.store.Delete(jump.ID); err != nil {
			p.log.Errorf("could not evict jump %s: %v", jump.ID, err)
		}
	}
}
