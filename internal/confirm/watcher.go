// Package confirm implements the client side of the payment confirmation
// protocol: a cancellable watcher polling the order's payment status until
// it leaves pending, with a bounded window and a manual re-check.
package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yansassi23/restaurapro/internal/models"
)

// State is the client-local confirmation state
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
	// StateTimedOut means no terminal status was observed within the
	// polling window. It is "unknown", not failed; the customer re-checks
	// manually or re-enters polling.
	StateTimedOut State = "timed_out"
)

var (
	ErrAlreadyPolling = errors.New("watcher is already polling")
	ErrConfirmed      = errors.New("payment already confirmed")
)

// StatusReader reads the order's payment status
type StatusReader interface {
	ReadStatus(ctx context.Context, num string) (string, error)
}

// Options tune the polling loop. Zero values fall back to the protocol
// defaults: 3s interval, 5min window, 1.5s success delay.
type Options struct {
	Interval     time.Duration
	Timeout      time.Duration
	ConfirmDelay time.Duration
}

const (
	defaultInterval     = 3 * time.Second
	defaultTimeout      = 5 * time.Minute
	defaultConfirmDelay = 1500 * time.Millisecond
)

// Watcher observes payment status for one order. It never writes the
// status; the webhook reconciler is the only writer.
type Watcher struct {
	reader       StatusReader
	number       string
	interval     time.Duration
	timeout      time.Duration
	confirmDelay time.Duration
	onConfirmed  func()

	mu           sync.Mutex
	state        State
	cancel       context.CancelFunc
	successTimer *time.Timer

	successOnce sync.Once
}

// NewWatcher creates new Watcher instance. onConfirmed advances the outer
// checkout flow; it is invoked at most once, after ConfirmDelay.
func NewWatcher(reader StatusReader, num string, onConfirmed func(), opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ConfirmDelay <= 0 {
		opts.ConfirmDelay = defaultConfirmDelay
	}

	return &Watcher{
		reader:       reader,
		number:       num,
		interval:     opts.Interval,
		timeout:      opts.Timeout,
		confirmDelay: opts.ConfirmDelay,
		onConfirmed:  onConfirmed,
		state:        StateIdle,
	}
}

// State returns the current confirmation state
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start enters polling. Allowed from idle, failed and timed_out; polling
// runs until a terminal status is observed, the window expires or ctx is
// cancelled. The loop issues one status read at a time.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	switch w.state {
	case StatePolling:
		w.mu.Unlock()
		return ErrAlreadyPolling
	case StateConfirmed:
		w.mu.Unlock()
		return ErrConfirmed
	}
	w.state = StatePolling

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	go w.loop(loopCtx)

	return nil
}

// Stop cancels polling and tears the watcher down. A watcher stopped
// mid-poll returns to idle and may be started again; a success callback
// still waiting out its delay is dropped. Safe to call in any state.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	if w.state == StatePolling {
		w.state = StateIdle
	}
	timer := w.successTimer
	w.successTimer = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if timer != nil {
		timer.Stop()
	}
}

// Check performs a single out-of-band status read with the same transition
// rules as automatic polling. Valid in any non-confirmed state.
func (w *Watcher) Check(ctx context.Context) (State, error) {
	if w.State() == StateConfirmed {
		// already terminal, re-reading must be side-effect-free
		return StateConfirmed, nil
	}

	return w.observe(ctx), nil
}

// finish releases the loop's context on exit. A loop that ends without a
// terminal observation, cancellation included, returns the watcher to idle
// so polling can be re-entered. The success timer is left running: a
// confirmed exit must still deliver its callback.
func (w *Watcher) finish() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	if w.state == StatePolling {
		w.state = StateIdle
	}
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.finish()

	// the window bounds wall-clock polling, not individual reads
	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// first check is immediate
	if st := w.observe(ctx); st != StatePolling {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			w.timeOut()
			return
		case <-ticker.C:
			if st := w.observe(ctx); st != StatePolling {
				return
			}
		}
	}
}

// observe issues one status read and applies the transition rules. A read
// failure observes as pending: no new information, never a failure report.
func (w *Watcher) observe(ctx context.Context) State {
	status, err := w.reader.ReadStatus(ctx, w.number)
	if err != nil {
		status = models.PaymentStatusPending
	}

	w.mu.Lock()
	switch status {
	case models.PaymentStatusConfirmed:
		w.state = StateConfirmed
	case models.PaymentStatusFailed:
		if w.state != StateConfirmed {
			w.state = StateFailed
		}
	default:
		// pending: observed-status updates carry no accumulation
	}
	st := w.state
	if st == StateConfirmed {
		// scheduled under mu so a racing Stop either sees the timer or
		// the state is not confirmed yet
		w.fireSuccess()
	}
	w.mu.Unlock()

	return st
}

func (w *Watcher) timeOut() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StatePolling {
		w.state = StateTimedOut
	}
}

// fireSuccess advances the outer flow exactly once, after a short delay so
// the confirmation can be shown first. Caller holds mu.
func (w *Watcher) fireSuccess() {
	w.successOnce.Do(func() {
		if w.onConfirmed == nil {
			return
		}
		w.successTimer = time.AfterFunc(w.confirmDelay, w.onConfirmed)
	})
}
