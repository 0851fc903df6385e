package scale

import (
	"errors"
	"time"
)

var (
	ErrConnection   = errors.New("scale connection error")
	ErrInvalidState = errors.New("scale reader in invalid state")
	ErrUnknownUnit  = errors.New("unknown weight unit")
)

// Conn is a configured, not yet opened, line oriented serial connection.
type Conn interface {
	Open() error
	Close() error
	// ReadLine returns the next complete line, or an error once timeout
	// elapses without one.
	ReadLine(timeout time.Duration) (string, error)
	// Discard drops anything received but not yet read.
	Discard() error
}

// ErrDisconnected is returned by a Conn when the device is gone for good.
// It is the only read error that ends a Reader's poll loop.
var ErrDisconnected = errors.New("scale disconnected")
