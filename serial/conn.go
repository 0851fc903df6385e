package serial

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/CK6170/Flatplates-go/scale"
	goserial "github.com/tarm/serial"
)

// readSlice bounds a single Read on the port so ReadLine can honor its own
// timeout and Close never waits long for the port lock.
const readSlice = 100 * time.Millisecond

var ErrTimeout = errors.New("serial read timeout")

// Conn is a line oriented scale.Conn over github.com/tarm/serial (8N1).
type Conn struct {
	cfg         *goserial.Config
	readTimeout time.Duration

	mu      sync.Mutex
	port    *goserial.Port
	pending []byte
	chunk   []byte
}

var _ scale.Conn = (*Conn)(nil)

// NewConn configures, but does not open, a port. readTimeout is used by
// ReadLine when called with a non-positive timeout.
func NewConn(name string, baud int, readTimeout time.Duration) *Conn {
	if readTimeout <= 0 {
		readTimeout = scale.DefaultReadTimeout
	}
	return &Conn{
		cfg: &goserial.Config{
			Name:        name,
			Baud:        baud,
			Parity:      goserial.ParityNone,
			Size:        8,
			StopBits:    goserial.Stop1,
			ReadTimeout: readSlice,
		},
		readTimeout: readTimeout,
		chunk:       make([]byte, 256),
	}
}

func (c *Conn) Name() string { return c.cfg.Name }

func (c *Conn) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port != nil {
		return fmt.Errorf("%s already open", c.cfg.Name)
	}
	p, err := goserial.OpenPort(c.cfg)
	if err != nil {
		return err
	}
	c.port = p
	c.pending = c.pending[:0]
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

func (c *Conn) Discard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = c.pending[:0]
	if c.port == nil {
		return fmt.Errorf("%w: %s not open", scale.ErrDisconnected, c.cfg.Name)
	}
	return c.port.Flush()
}

// ReadLine returns the next line without its line terminator. Bytes after the
// last newline are kept for the next call.
func (c *Conn) ReadLine(timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = c.readTimeout
	}
	deadline := time.Now().Add(timeout)
	for {
		line, ok, err := c.readSlice()
		if err != nil || ok {
			return line, err
		}
		if !time.Now().Before(deadline) {
			return "", fmt.Errorf("%w after %v on %s", ErrTimeout, timeout, c.cfg.Name)
		}
	}
}

func (c *Conn) readSlice() (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.takeLine(); ok {
		return line, true, nil
	}
	if c.port == nil {
		return "", false, fmt.Errorf("%w: %s not open", scale.ErrDisconnected, c.cfg.Name)
	}
	n, err := c.port.Read(c.chunk)
	if n > 0 {
		c.pending = append(c.pending, c.chunk[:n]...)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		if gone(err) {
			return "", false, fmt.Errorf("%w: %w", scale.ErrDisconnected, err)
		}
		return "", false, err
	}
	line, ok := c.takeLine()
	return line, ok, nil
}

func (c *Conn) takeLine() (string, bool) {
	i := bytes.IndexByte(c.pending, '\n')
	if i < 0 {
		return "", false
	}
	line := string(bytes.TrimRight(c.pending[:i], "\r"))
	c.pending = append(c.pending[:0], c.pending[i+1:]...)
	return line, true
}

// gone reports errors that mean the device was unplugged or the port closed.
func gone(err error) bool {
	return errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EIO) ||
		errors.Is(err, syscall.ENXIO) ||
		errors.Is(err, syscall.ENODEV)
}
