// Package alert is the transient message surface shown under the form.
package alert

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Alert types.
const (
	TypeSuccess = "success"
	TypeWarning = "warning"
)

// DefaultDuration is how long an alert stays visible.
const DefaultDuration = 5 * time.Second

// Encouragement is the pool a successful alert draws its message from.
var Encouragement = []string{
	"Nice work, your dapp is on its way!",
	"Interfaces shipped. Go build something great.",
	"Looking good! The builder is ready for you.",
	"Another dapp in the making. Keep going!",
	"Smooth compile, smooth dapp.",
	"You're on a roll!",
	"Great contracts deserve a great frontend.",
}

// Alert is what is currently shown. The zero value means nothing is shown.
type Alert struct {
	Message string
	Type    string
}

// Empty reports whether the alert is hidden.
func (a Alert) Empty() bool { return a == Alert{} }

// Intn is the slice of *rand.Rand that Pick needs.
type Intn interface {
	IntN(n int) int
}

// Pick returns a random element of pool, or "" when the pool is empty.
func Pick(pool []string, rng Intn) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.IntN(len(pool))]
}

// Scheduler runs f once after d. time.AfterFunc satisfies it through
// RealScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// RealScheduler schedules with the runtime timer.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Presenter holds the current alert. Every Show schedules its own clear and
// that clear is unconditional: an older timer will hide a newer alert if it
// fires first.
type Presenter struct {
	mu       sync.Mutex
	current  Alert
	pool     []string
	rng      Intn
	sched    Scheduler
	duration time.Duration
	onChange func(Alert)
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithPool replaces the encouragement pool.
func WithPool(pool []string) Option { return func(p *Presenter) { p.pool = pool } }

// WithRand sets the random source used by Pick.
func WithRand(rng Intn) Option { return func(p *Presenter) { p.rng = rng } }

// WithScheduler sets the timer used to clear alerts.
func WithScheduler(s Scheduler) Option { return func(p *Presenter) { p.sched = s } }

// WithDuration sets how long an alert stays visible.
func WithDuration(d time.Duration) Option { return func(p *Presenter) { p.duration = d } }

// OnChange registers a callback run after every change, including clears.
func OnChange(f func(Alert)) Option { return func(p *Presenter) { p.onChange = f } }

// NewPresenter creates a Presenter with the default pool, a seeded random
// source and real timers.
func NewPresenter(opts ...Option) *Presenter {
	p := &Presenter{
		pool:     Encouragement,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		sched:    RealScheduler{},
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Show presents err as a warning, or an encouragement as a success when err
// is nil, and schedules the clear.
func (p *Presenter) Show(err error) Alert {
	p.mu.Lock()
	var a Alert
	if err == nil {
		a = Alert{Message: Pick(p.pool, p.rng), Type: TypeSuccess}
	} else {
		a = Alert{Message: err.Error(), Type: TypeWarning}
	}
	p.current = a
	p.mu.Unlock()

	p.notify(a)
	p.sched.AfterFunc(p.duration, p.clear)
	return a
}

// Current returns the alert being shown.
func (p *Presenter) Current() Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Presenter) clear() {
	p.mu.Lock()
	p.current = Alert{}
	p.mu.Unlock()
	p.notify(Alert{})
}

func (p *Presenter) notify(a Alert) {
	if p.onChange != nil {
		p.onChange(a)
	}
}
