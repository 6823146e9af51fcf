/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btnmasher/random"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/errgroup"
)

// RunnerState is the runner's connection lifecycle state.
type RunnerState int32

const (
	Connecting RunnerState = iota
	Registering
	Running
	Reconnecting
	Terminated
)

func (s RunnerState) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Registering:
		return "Registering"
	case Running:
		return "Running"
	case Reconnecting:
		return "Reconnecting"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Status is the final outcome delivered to Run's caller and to anyone
// waiting via Control.WaitForReconnect.
type Status struct {
	Kind StatusKind
	Err  error
}

// StatusKind enumerates the terminal reasons a Run call returns.
type StatusKind int

const (
	StatusEof StatusKind = iota
	StatusCanceled
	StatusTimeout
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusEof:
		return "Eof"
	case StatusCanceled:
		return "Canceled"
	case StatusTimeout:
		return "Timeout"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// RetryDecision is the result of consulting a RetryStrategy after a
// connection attempt ends.
type RetryDecision struct {
	ShouldRetry bool
	Delay       time.Duration
}

// RetryStop tells RunWithRetry to give up and return the last Status.
var RetryStop = RetryDecision{}

// RetryAfter builds a decision to reconnect after delay.
func RetryAfter(delay time.Duration) RetryDecision {
	return RetryDecision{ShouldRetry: true, Delay: delay}
}

// RetryStrategy maps an attempt number (starting at 1) to a reconnect
// decision.
type RetryStrategy func(attempt int) RetryDecision

// RetryImmediately is the built-in strategy that reconnects with no delay,
// indefinitely.
func RetryImmediately(attempt int) RetryDecision {
	return RetryAfter(0)
}

// Connector dials a fresh transport for a (re)connection attempt.
type Connector func(ctx context.Context) (io.ReadWriteCloser, error)

// Runner drives a single logical connection: registration, frame decoding
// and dispatch, outbound draining through the rate limiter, and liveness
// checks. Build one with NewRunner.
type Runner struct {
	config     *UserConfig
	dispatcher *Dispatcher
	limiter    *RateLimiter
	encoder    Encoder
	log        *logrus.Entry

	state atomic.Int32

	outbound chan outboundFrame
	priority chan string

	quit     chan struct{}
	quitOnce sync.Once

	cancelMu sync.Mutex
	cancel   context.CancelFunc

	identity   atomic.Pointer[Identity]
	lastActive atomic.Int64 // unix nanos

	reconnect atomic.Pointer[reconnectSignal]
}

// reconnectSignal is the broadcast primitive backing Control.WaitForReconnect:
// ch is closed, and status populated, exactly once when the runner enters
// Reconnecting; Runner then swaps in a fresh reconnectSignal for the next
// transition.
type reconnectSignal struct {
	ch     chan struct{}
	status Status
}

type outboundFrame struct {
	class RateClass
	line  string
}

// NewRunner builds a Runner and its Control handle bound to config and
// dispatcher.
func NewRunner(config *UserConfig, dispatcher *Dispatcher) (*Runner, *Control) {
	r := &Runner{
		config:     config,
		dispatcher: dispatcher,
		limiter:    NewRateLimiter(config.RateLimits),
		encoder:    NewEncoder(),
		log:        config.Logger.WithField("component", "runner"),
		outbound:   make(chan outboundFrame, 64),
		priority:   make(chan string, 8),
		quit:       make(chan struct{}),
	}
	r.reconnect.Store(&reconnectSignal{ch: make(chan struct{})})
	return r, &Control{runner: r}
}

// broadcastReconnect wakes every Control.WaitForReconnect caller blocked on
// the current reconnectSignal with status, then installs a fresh signal for
// the next transition. Only Run's own goroutine calls this, so the write to
// status before the close is race-free; the channel close is the
// synchronization point that makes it visible to waiters.
func (r *Runner) broadcastReconnect(status Status) {
	cur := r.reconnect.Load()
	cur.status = status
	close(cur.ch)
	r.reconnect.Store(&reconnectSignal{ch: make(chan struct{})})
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() RunnerState {
	return RunnerState(r.state.Load())
}

func (r *Runner) setState(s RunnerState) {
	r.state.Store(int32(s))
}

func (r *Runner) updateIdentity(mutate func(*Identity)) {
	cur := Identity{Acked: r.config.Capabilities}
	if p := r.identity.Load(); p != nil {
		cur = *p
	}
	mutate(&cur)
	r.identity.Store(&cur)
}

func (r *Runner) idleTimeout() time.Duration {
	if r.config.IdleTimeout > 0 {
		return r.config.IdleTimeout
	}
	return DefaultIdleTimeout
}

func (r *Runner) pingGrace() time.Duration {
	if r.config.PingGrace > 0 {
		return r.config.PingGrace
	}
	return DefaultPingGrace
}

// Run drives a single connection attempt over rwc until it terminates,
// returning the final Status. It does not retry; see RunWithRetry.
func (r *Runner) Run(ctx context.Context, rwc io.ReadWriteCloser) Status {
	defer rwc.Close()

	r.setState(Connecting)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.cancelMu.Lock()
	r.cancel = cancel
	r.cancelMu.Unlock()

	framer := NewFramer(rwc, MaxFrameLength)
	defer framer.Close()

	r.setState(Registering)
	if err := r.register(ctx, rwc, framer); err != nil {
		return Status{Kind: StatusError, Err: fmt.Errorf("%w: %s", ErrRegistration, err)}
	}

	r.setState(Running)
	r.lastActive.Store(time.Now().UnixNano())

	group, gctx := errgroup.WithContext(ctx)
	wg := conc.NewWaitGroup()

	reconnected := make(chan struct{})
	var reconnectOnce sync.Once
	signalReconnect := func() {
		reconnectOnce.Do(func() { close(reconnected) })
	}

	group.Go(func() error { return r.readLoop(gctx, framer, signalReconnect) })
	group.Go(func() error { return r.writeLoop(gctx, rwc) })
	group.Go(func() error { return r.livenessLoop(gctx, rwc) })

	wg.Go(func() {
		select {
		case <-reconnected:
			cancel()
		case <-gctx.Done():
		}
		// Closing the transport unblocks readLoop's pending read.
		<-gctx.Done()
		rwc.Close()
	})

	err := group.Wait()
	wg.Wait()
	r.limiter.Close()

	switch {
	case errors.Is(err, context.Canceled) && isReconnectSignaled(reconnected):
		r.setState(Reconnecting)
		status := Status{Kind: StatusError, Err: ErrReconnectRequested}
		r.broadcastReconnect(status)
		return status
	case errors.Is(err, io.EOF):
		r.setState(Terminated)
		return Status{Kind: StatusEof}
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		r.setState(Terminated)
		return Status{Kind: StatusCanceled}
	case errors.Is(err, ErrTimeout):
		r.setState(Terminated)
		return Status{Kind: StatusTimeout, Err: err}
	case err != nil:
		r.setState(Terminated)
		return Status{Kind: StatusError, Err: err}
	default:
		r.setState(Terminated)
		return Status{Kind: StatusEof}
	}
}

func isReconnectSignaled(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// ErrReconnectRequested is returned (wrapped in Status) when the server
// sent RECONNECT and the runner is transitioning back to Connecting.
const ErrReconnectRequested Error = "server requested reconnect"

// RunWithRetry dials via connector, runs the connection, and on non-Canceled
// termination consults strategy to decide whether to reconnect. It returns
// when strategy says Stop, the context is canceled, or a registration
// failure occurs on the very first attempt.
func (r *Runner) RunWithRetry(ctx context.Context, connector Connector, strategy RetryStrategy) Status {
	if strategy == nil {
		strategy = r.config.Retry
	}
	attempt := 0
	var last Status
	for {
		attempt++
		rwc, err := connector(ctx)
		if err != nil {
			last = Status{Kind: StatusError, Err: err}
		} else {
			last = r.Run(ctx, rwc)
		}

		if attempt == 1 && errors.Is(last.Err, ErrRegistration) {
			return last
		}
		if last.Kind == StatusCanceled {
			return last
		}
		if ctx.Err() != nil {
			return last
		}

		decision := strategy(attempt)
		if !decision.ShouldRetry {
			return last
		}
		select {
		case <-time.After(decision.Delay):
		case <-ctx.Done():
			return last
		}
	}
}

// register performs the CAP REQ / PASS / NICK handshake over rw, reading
// the response through framer (shared with the post-registration readLoop
// so no buffered bytes are lost between the two phases) and blocks until
// IrcReady (001) arrives, ctx is done, or the default registration timeout
// elapses.
func (r *Runner) register(ctx context.Context, rw io.Writer, framer *Framer) error {
	send := func(line string) error {
		_, err := io.WriteString(rw, line)
		return err
	}

	for cap := range r.config.Capabilities {
		frame, ok := r.encoder.CapReq(cap)
		if !ok {
			continue
		}
		if err := send(frame); err != nil {
			return err
		}
	}
	if err := send(r.encoder.Pass(r.config.Token)); err != nil {
		return err
	}
	if err := send(r.encoder.Nick(r.config.Nick)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultRegistrationTimeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		for {
			frame, err := framer.Next()
			if err != nil {
				result <- err
				return
			}
			raw, err := Decode(frame)
			if err != nil {
				continue
			}
			if _, err := classify(r.dispatcher, raw); err != nil {
				continue
			}
			switch raw.Command() {
			case CmdReady:
				result <- nil
				return
			case CmdNotice:
				if msg, ok := raw.Data(); ok {
					result <- &RegistrationError{Reason: msg}
					return
				}
			}
		}
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return &RegistrationError{Reason: "timed out waiting for 001"}
	}
}

const defaultRegistrationTimeout = 15 * time.Second

// readLoop frames, decodes, and dispatches inbound messages until EOF, a
// decode-ending I/O error, or ctx is done. Ping is answered on the priority
// lane; Reconnect invokes onReconnect and returns context.Canceled to
// unwind the errgroup.
func (r *Runner) readLoop(ctx context.Context, framer *Framer, onReconnect func()) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		frame, err := framer.Next()
		if err != nil {
			var fe *FrameError
			if errors.As(err, &fe) && errors.Is(fe.Err, ErrFrameTooLong) {
				r.log.Warn("dropping oversized frame")
				continue
			}
			if errors.Is(err, ErrEOF) {
				return io.EOF
			}
			return err
		}

		r.lastActive.Store(time.Now().UnixNano())

		raw, err := Decode(frame)
		if err != nil {
			r.log.WithError(err).Warn("dropping unparseable frame")
			continue
		}

		typed, err := classify(r.dispatcher, raw)
		if err != nil {
			r.log.WithError(err).Warn("dropping frame that failed typed projection")
			continue
		}

		switch m := typed.(type) {
		case Ping:
			select {
			case r.priority <- r.encoder.Pong(m.Token):
			case <-ctx.Done():
				return ctx.Err()
			}
		case Reconnect:
			onReconnect()
			return context.Canceled
		case UserState:
			if m.IsModerator() {
				r.limiter.SetClass(Moderator)
			} else {
				r.limiter.SetClass(Normal)
			}
		case IrcReady:
			r.updateIdentity(func(id *Identity) { id.Nick = m.Nick })
		case GlobalUserState:
			r.updateIdentity(func(id *Identity) {
				if v, ok := m.Tag("user-id"); ok {
					id.UserID = v
				}
				if v, ok := m.Tag("display-name"); ok {
					id.DisplayName = v
				}
				if v, ok := m.Tag("color"); ok {
					id.Color = v
				}
			})
		}
	}
}

// writeLoop drains the priority (Ping/Pong) lane ahead of the user-submitted
// outbound queue, serializing every send through the rate limiter except
// priority frames, which bypass it entirely.
func (r *Runner) writeLoop(ctx context.Context, w io.Writer) error {
	for {
		select {
		case line := <-r.priority:
			if err := writeFrame(w, line); err != nil {
				return err
			}
			continue
		default:
		}

		select {
		case line := <-r.priority:
			if err := writeFrame(w, line); err != nil {
				return err
			}
		case frame := <-r.outbound:
			// The select above treats priority and outbound as equally
			// ready cases, so Go's random choice could pick outbound even
			// when a priority frame became ready in the same instant.
			// Re-check priority once more, non-blocking, before writing
			// the outbound frame so priority strictly precedes it.
			select {
			case line := <-r.priority:
				if err := writeFrame(w, line); err != nil {
					return err
				}
			default:
			}
			if err := r.limiter.Acquire(ctx, frame.class); err != nil {
				return err
			}
			if err := writeFrame(w, frame.line); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func writeFrame(w io.Writer, line string) error {
	_, err := io.WriteString(w, line)
	return err
}

// livenessLoop sends a proactive Ping after idleTimeout of silence and
// requires a reply within pingGrace, else returns ErrTimeout.
func (r *Runner) livenessLoop(ctx context.Context, w io.Writer) error {
	ticker := time.NewTicker(r.idleTimeout() / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			last := time.Unix(0, r.lastActive.Load())
			if time.Since(last) < r.idleTimeout() {
				continue
			}
			token := random.String(10)
			select {
			case r.priority <- r.encoder.Ping(token):
			case <-ctx.Done():
				return ctx.Err()
			}

			deadline := time.NewTimer(r.pingGrace())
			select {
			case <-deadline.C:
				return ErrTimeout
			case <-ctx.Done():
				deadline.Stop()
				return ctx.Err()
			case <-r.waitForPongAfter(last):
				deadline.Stop()
			}
		}
	}
}

// waitForPongAfter returns a channel that closes once lastActive advances
// past since, used to detect that any traffic (ideally the Pong) arrived.
func (r *Runner) waitForPongAfter(since time.Time) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(50 * time.Millisecond)
		defer t.Stop()
		for range t.C {
			if time.Unix(0, r.lastActive.Load()).After(since) {
				return
			}
		}
	}()
	return done
}

// Quit sends "QUIT :bye\r\n", best-effort, then cancels the run so it
// terminates promptly with Status.Kind == StatusCanceled.
func (r *Runner) Quit() {
	r.quitOnce.Do(func() {
		select {
		case r.priority <- r.encoder.Quit("bye"):
		default:
		}
		close(r.quit)
		r.cancelMu.Lock()
		if r.cancel != nil {
			r.cancel()
		}
		r.cancelMu.Unlock()
	})
}

// Control is the caller-facing handle returned alongside a Runner: it
// produces typed encoders bound to the runner's outbound queue and exposes
// cancellation.
type Control struct {
	runner *Runner
}

// Writer returns a RunnerWriter that enqueues frames through the owning
// runner's rate limiter.
func (c *Control) Writer() *RunnerWriter {
	return &RunnerWriter{r: c.runner}
}

// Quit requests a graceful shutdown of the underlying runner.
func (c *Control) Quit() {
	c.runner.Quit()
}

// WaitForReconnect blocks until the runner's current connection attempt
// transitions into Reconnecting, then returns the terminal Status that
// triggered it. It returns ctx.Err() if ctx is done first.
func (c *Control) WaitForReconnect(ctx context.Context) (Status, error) {
	sig := c.runner.reconnect.Load()
	select {
	case <-sig.ch:
		return sig.status, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Identity returns the most recently observed post-registration identity,
// if any.
func (c *Control) Identity() (Identity, bool) {
	p := c.runner.identity.Load()
	if p == nil {
		return Identity{}, false
	}
	return *p, true
}

// RunnerWriter produces typed encoders that enqueue onto a Runner's
// outbound queue instead of returning wire text directly.
type RunnerWriter struct {
	r *Runner
}

func (w *RunnerWriter) enqueue(class RateClass, line string) {
	select {
	case w.r.outbound <- outboundFrame{class: class, line: line}:
	case <-w.r.quit:
	}
}

// Join enqueues a JOIN, charged against the Join bucket.
func (w *RunnerWriter) Join(channel string) {
	w.enqueue(Join, w.r.encoder.Join(channel))
}

// Part enqueues a PART, charged against the Join bucket.
func (w *RunnerWriter) Part(channel string) {
	w.enqueue(Join, w.r.encoder.Part(channel))
}

// Privmsg enqueues one or more PRIVMSG frames, charged against whichever of
// Normal/Moderator is currently active.
func (w *RunnerWriter) Privmsg(channel, text string) {
	for _, line := range w.r.encoder.Privmsg(channel, text) {
		w.enqueue(w.r.limiter.Class(), line)
	}
}

// Reply enqueues a threaded reply, charged against the active class.
func (w *RunnerWriter) Reply(channel, parentID, text string) {
	w.enqueue(w.r.limiter.Class(), w.r.encoder.Reply(channel, parentID, text))
}

// Whisper enqueues a whisper, charged against the Whisper bucket.
func (w *RunnerWriter) Whisper(name, text string) {
	w.enqueue(Whisper, w.r.encoder.Whisper(name, text))
}

// Moderation enqueues one or more moderation slash-command frames, charged
// against the active class.
func (w *RunnerWriter) Moderation(channel, cmd string, args ...string) {
	for _, line := range w.r.encoder.Moderation(channel, cmd, args...) {
		w.enqueue(w.r.limiter.Class(), line)
	}
}

// Raw enqueues an arbitrary already-formatted line, charged against Normal.
func (w *RunnerWriter) Raw(line string) {
	w.enqueue(Normal, w.r.encoder.Raw(line))
}
