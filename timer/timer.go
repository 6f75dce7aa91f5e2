// Package timer drives a player through a repeating play/pause cycle.
//
// A cycle alternates a play countdown and a pause countdown. Each countdown is
// a single chain of clock callbacks stepping at most Tick, tagged with the
// generation current when the phase began. Any operation that invalidates the
// cycle bumps the generation, so callbacks scheduled for an older cycle return
// without effect. Each callback measures what is left against the phase
// deadline, so late callbacks do not stretch a phase.
//
// Player commands are issued without holding the state lock. The state is
// advanced first, then the command is sent unless the generation moved on.
package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tubecycle/tubecycle/clock"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/player"
)

// Tick is the countdown resolution.
const Tick = 100 * time.Millisecond

const subscriberBuffer = 16

// Player is the part of a playback backend the timer drives.
type Player interface {
	Pause() error
	Resume() error
	OnStateChange(fn func(player.State)) (unsubscribe func())
}

// Timer is safe for concurrent use.
type Timer struct {
	// cmd serializes player commands. It is always acquired before mu.
	cmd    sync.Mutex
	mu     sync.Mutex
	player Player
	clock  clock.Clock

	cfg       Config
	phase     Phase
	remaining time.Duration
	total     time.Duration
	deadline  time.Time
	armed     bool

	gen     uint64
	pending clock.Timer

	lastState   player.State
	unsubscribe func()

	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

// New validates cfg and subscribes to the player's state changes.
// A nil clock means clock.System.
func New(p Player, cfg Config, clk clock.Clock) (*Timer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if clk == nil {
		clk = clock.System
	}

	t := &Timer{
		player: p,
		clock:  clk,
		cfg:    cfg,
		subs:   make(map[int]chan Snapshot),
	}
	t.unsubscribe = p.OnStateChange(t.observe)
	return t, nil
}

// Start arms the timer with cfg and begins the play phase immediately,
// replacing any running cycle. While held, only the config is replaced.
func (t *Timer) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.cfg = cfg
	t.armed = true

	if t.phase == Held {
		t.publish()
		return nil
	}

	t.invalidate()
	t.startCycle()
	return nil
}

// Arm is like Start but the cycle begins once the player reports playing.
func (t *Timer) Arm(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.cfg = cfg
	t.armed = true

	if t.phase == Held {
		t.publish()
		return nil
	}

	t.invalidate()
	if t.lastState == player.StatePlaying {
		t.startCycle()
		return nil
	}

	t.idle()
	return nil
}

// Cancel disarms the timer and drops any pending work.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.invalidate()
	t.armed = false
	t.idle()
}

// Hold pauses the player and suspends the cycle until Release.
func (t *Timer) Hold() {
	t.cmd.Lock()
	defer t.cmd.Unlock()

	t.mu.Lock()
	if t.closed || t.phase == Held {
		t.mu.Unlock()
		return
	}

	t.invalidate()
	t.enter(Held, 0)
	t.publish()
	gen := t.gen
	t.mu.Unlock()

	t.command(gen, "pause", t.player.Pause)
}

// Release resumes the player and restarts the cycle with a full play phase.
func (t *Timer) Release() {
	t.cmd.Lock()
	defer t.cmd.Unlock()

	t.mu.Lock()
	if t.closed || t.phase != Held {
		t.mu.Unlock()
		return
	}

	t.armed = true
	t.startCycle()
	gen := t.gen
	t.mu.Unlock()

	t.command(gen, "resume", t.player.Resume)
}

// UpdateConfig replaces the durations used by phases that start after this call.
func (t *Timer) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.cfg = cfg
	t.publish()
	return nil
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Subscribe returns a channel of snapshots, starting with the current one.
// Slow readers lose intermediate values. The channel is closed by unsubscribe or Close.
func (t *Timer) Subscribe() (<-chan Snapshot, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Snapshot, subscriberBuffer)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	ch <- t.snapshot()

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if sub, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(sub)
		}
	}
}

// Close cancels the cycle, detaches from the player and closes every subscription.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.invalidate()
	t.armed = false
	t.idle()
	t.closed = true

	if t.unsubscribe != nil {
		t.unsubscribe()
	}

	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

// observe re-derives the phase from what the player reports.
func (t *Timer) observe(state player.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.lastState = state

	switch state {
	case player.StatePlaying:
		switch {
		case t.phase == Idle && t.armed:
			t.startCycle()
		case t.phase == Paused || t.phase == CountingDownToResume:
			t.invalidate()
			t.startCycle()
		}
	case player.StatePaused:
		if t.phase == Playing || t.phase == CountingDownToPause {
			t.invalidate()
			t.idle()
		}
	case player.StateStopped:
		if t.phase != Held {
			t.invalidate()
			t.idle()
		}
	}
}

// invalidate makes every callback of the current cycle stale.
func (t *Timer) invalidate() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Timer) idle() {
	t.enter(Idle, 0)
	t.publish()
}

func (t *Timer) startCycle() {
	t.startCycleAt(t.clock.Now())
}

func (t *Timer) startCycleAt(at time.Time) {
	t.enter(Playing, 0)
	t.publish()
	t.countdown(at, CountingDownToPause, t.cfg.Play)
}

func (t *Timer) enter(phase Phase, d time.Duration) {
	if phase != t.phase {
		log.WithFields(logrus.Fields{
			"from":       t.phase.String(),
			"to":         phase.String(),
			"duration":   d.String(),
			"armed":      t.armed,
			"generation": t.gen,
		}).Debug("timer transition")
	}

	t.phase = phase
	t.total = d
	t.remaining = d
}

// countdown enters phase with a deadline d after from.
func (t *Timer) countdown(from time.Time, phase Phase, d time.Duration) {
	t.enter(phase, d)
	t.deadline = from.Add(d)
	t.remaining = min(max(t.deadline.Sub(t.clock.Now()), 0), d)
	t.schedule(t.gen)
	t.publish()
}

func (t *Timer) schedule(gen uint64) {
	t.pending = t.clock.AfterFunc(min(Tick, t.remaining), func() {
		t.tick(gen)
	})
}

// boundary is where the next phase starts: the deadline just reached, unless
// the callback came so late that catching up would skip whole phases.
func (t *Timer) boundary() time.Time {
	now := t.clock.Now()
	if now.Sub(t.deadline) > Tick {
		return now
	}
	return t.deadline
}

func (t *Timer) tick(gen uint64) {
	t.cmd.Lock()
	defer t.cmd.Unlock()

	t.mu.Lock()
	if t.closed || gen != t.gen {
		t.mu.Unlock()
		return
	}

	t.remaining = max(t.deadline.Sub(t.clock.Now()), 0)
	if t.remaining > 0 {
		t.schedule(gen)
		t.publish()
		t.mu.Unlock()
		return
	}

	t.pending = nil
	from := t.boundary()

	var (
		name string
		fn   func() error
	)

	switch t.phase {
	case CountingDownToPause:
		t.enter(Paused, 0)
		t.publish()
		t.countdown(from, CountingDownToResume, t.cfg.Pause)
		name, fn = "pause", t.player.Pause
	case CountingDownToResume:
		t.startCycleAt(from)
		name, fn = "resume", t.player.Resume
	}
	t.mu.Unlock()

	if fn != nil {
		t.command(gen, name, fn)
	}
}

// command sends a player command unless the cycle that decided it is gone.
func (t *Timer) command(gen uint64, name string, fn func() error) {
	t.mu.Lock()
	stale := t.closed || gen != t.gen
	t.mu.Unlock()

	if stale {
		return
	}
	t.act(name, fn)
}

// act issues a player command. Failures never stop the cycle.
func (t *Timer) act(name string, fn func() error) {
	err := fn()
	switch {
	case err == nil:
	case errors.Is(err, player.ErrUnavailable):
		log.Debugf("timer: %s skipped: %v", name, err)
	default:
		log.Warnf("timer: %s failed: %v", name, err)
	}
}

func (t *Timer) snapshot() Snapshot {
	return Snapshot{
		Phase:     t.phase,
		Remaining: t.remaining,
		Total:     t.total,
		Config:    t.cfg,
		Armed:     t.armed,
	}
}

// publish delivers the current snapshot, replacing the oldest buffered value when a reader lags.
func (t *Timer) publish() {
	if len(t.subs) == 0 {
		return
	}

	snap := t.snapshot()
	lo.ForEach(lo.Values(t.subs), func(ch chan Snapshot, _ int) {
		select {
		case ch <- snap:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}

		select {
		case ch <- snap:
		default:
		}
	})
}
