package modern

import (
	"context"
	"fmt"

	"github.com/CK6170/Flatplates-go/models"
	"github.com/CK6170/Flatplates-go/scale"
	serialpkg "github.com/CK6170/Flatplates-go/serial"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dialer builds a configured, unopened connection for one scale port.
type Dialer func(port string, ser *models.SERIAL) scale.Conn

func SerialDialer(port string, ser *models.SERIAL) scale.Conn {
	return serialpkg.NewConn(port, ser.BAUDRATE, seconds(ser.TIMEOUT))
}

type Session struct {
	Params  *models.PARAMETERS
	Ports   [3]string
	Readers [3]*scale.Reader
}

func Connect(ctx context.Context, p *models.PARAMETERS, log *zap.Logger) (*Session, error) {
	return ConnectWith(ctx, p, log, SerialDialer)
}

// ConnectWith starts one reader per scale. If any fails to start, the ones
// already running are stopped again.
func ConnectWith(ctx context.Context, p *models.PARAMETERS, log *zap.Logger, dial Dialer, opts ...scale.Option) (*Session, error) {
	if p == nil || p.SERIAL == nil {
		return nil, fmt.Errorf("missing serial section")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &Session{Params: p, Ports: p.Ports()}
	for i, port := range s.Ports {
		if port == "" {
			return nil, fmt.Errorf("scale %s: no port configured", models.ScaleNames[i])
		}
		ro := append([]scale.Option{
			scale.WithName(models.ScaleNames[i]),
			scale.WithLogger(log.With(zap.String("port", port))),
			scale.WithReadTimeout(seconds(p.SERIAL.TIMEOUT)),
		}, opts...)
		s.Readers[i] = scale.New(dial(port, p.SERIAL), ro...)
	}

	var started [3]bool
	var g errgroup.Group
	for i, r := range s.Readers {
		i, r := i, r
		g.Go(func() error {
			if err := r.Start(); err != nil {
				return fmt.Errorf("scale %s on %s: %w", r.Name(), s.Ports[i], err)
			}
			started[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i, r := range s.Readers {
			if started[i] {
				_ = r.Stop()
			}
		}
		return nil, err
	}
	log.Info("scales connected", zap.Strings("ports", s.Ports[:]))
	return s, nil
}

// Snapshot returns the current reading of every scale.
func (s *Session) Snapshot() [3]scale.Reading {
	var out [3]scale.Reading
	for i, r := range s.Readers {
		out[i] = r.Value()
	}
	return out
}

func (s *Session) Running() [3]bool {
	var out [3]bool
	for i, r := range s.Readers {
		out[i] = r.Running()
	}
	return out
}

// Close stops all readers concurrently and returns the first error.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var g errgroup.Group
	for _, r := range s.Readers {
		if r == nil {
			continue
		}
		g.Go(r.Stop)
	}
	return g.Wait()
}
