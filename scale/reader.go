// Package scale keeps a live reading for a serial attached load-cell scale.
//
// A Reader owns one Conn and one goroutine. The goroutine reads lines with a
// bounded timeout, parses "W:" frames and swaps the latest Reading under a
// short lock so any number of callers can poll Value without waiting on I/O.
package scale

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultReadTimeout  = time.Second
	DefaultPollInterval = 50 * time.Millisecond
	DefaultStopTimeout  = 3 * time.Second
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

type Reader struct {
	conn Conn
	name string
	log  *zap.Logger

	readTimeout  time.Duration
	pollInterval time.Duration
	stopTimeout  time.Duration

	mu      sync.RWMutex
	reading Reading

	frames  atomic.Uint64
	dropped atomic.Uint64

	// stateMu guards the lifecycle fields below; it is never taken by Value.
	stateMu sync.Mutex
	state   state
	stop    chan struct{}
	done    chan struct{}
}

type Option func(*Reader)

func WithName(name string) Option { return func(r *Reader) { r.name = name } }

func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(r *Reader) {
		if d > 0 {
			r.readTimeout = d
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(r *Reader) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

func WithStopTimeout(d time.Duration) Option {
	return func(r *Reader) {
		if d > 0 {
			r.stopTimeout = d
		}
	}
}

// New wraps conn. The connection is opened by Start.
func New(conn Conn, opts ...Option) *Reader {
	r := &Reader{
		conn:         conn,
		name:         "scale",
		log:          zap.NewNop(),
		readTimeout:  DefaultReadTimeout,
		pollInterval: DefaultPollInterval,
		stopTimeout:  DefaultStopTimeout,
		reading:      Reading{Unit: DefaultUnit},
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.With(zap.String("scale", r.name))
	return r
}

func (r *Reader) Name() string { return r.name }

// Start opens the connection and launches the poll loop. A stopped reader
// can be started again once its previous loop has exited.
func (r *Reader) Start() error {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	switch r.state {
	case stateRunning:
		return fmt.Errorf("%w: %s already started", ErrInvalidState, r.name)
	case stateStopped:
		select {
		case <-r.done:
		default:
			return fmt.Errorf("%w: %s poll loop from previous run still active", ErrInvalidState, r.name)
		}
	}

	if err := r.conn.Open(); err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrConnection, r.name, err)
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.state = stateRunning
	go r.loop(r.stop, r.done)
	r.log.Debug("poll loop started")
	return nil
}

// Stop signals the poll loop, waits up to the stop timeout for it to exit and
// closes the connection. A loop that already ended on its own is not an error.
func (r *Reader) Stop() error {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	if r.state != stateRunning {
		return fmt.Errorf("%w: %s not started", ErrInvalidState, r.name)
	}
	r.state = stateStopped
	close(r.stop)

	t := time.NewTimer(r.stopTimeout)
	defer t.Stop()
	select {
	case <-r.done:
	case <-t.C:
		r.log.Warn("poll loop did not exit in time, closing anyway", zap.Duration("timeout", r.stopTimeout))
	}

	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrConnection, r.name, err)
	}
	r.log.Debug("stopped", zap.Uint64("frames", r.frames.Load()), zap.Uint64("dropped", r.dropped.Load()))
	return nil
}

// Value returns the latest reading, or 0 g if no frame has been parsed yet.
func (r *Reader) Value() Reading {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reading
}

// Running reports whether the poll loop is alive.
func (r *Reader) Running() bool {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.state != stateRunning {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Stats returns the number of parsed frames and dropped lines so far.
func (r *Reader) Stats() (frames, dropped uint64) {
	return r.frames.Load(), r.dropped.Load()
}

func (r *Reader) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if err := r.conn.Discard(); err != nil {
		r.log.Debug("discard failed", zap.Error(err))
	}
	for {
		select {
		case <-stop:
			return
		default:
		}
		if !r.poll() {
			select {
			case <-stop:
			default:
				r.log.Warn("device disconnected, poll loop exiting")
			}
			return
		}
		select {
		case <-stop:
			return
		case <-time.After(r.pollInterval):
		}
	}
}

// poll reads and applies at most one line. It returns false only when the
// device is gone.
func (r *Reader) poll() bool {
	line, err := r.conn.ReadLine(r.readTimeout)
	if err != nil {
		if errors.Is(err, ErrDisconnected) {
			return false
		}
		r.log.Debug("read", zap.Error(err))
		return true
	}
	rd, ok := ParseFrame(line)
	if !ok {
		r.dropped.Add(1)
		r.log.Debug("line dropped", zap.String("line", line))
		return true
	}
	r.mu.Lock()
	r.reading = rd
	r.mu.Unlock()
	r.frames.Add(1)
	return true
}
