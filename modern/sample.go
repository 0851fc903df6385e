package modern

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CK6170/Flatplates-go/cg"
	"github.com/CK6170/Flatplates-go/models"
	"github.com/CK6170/Flatplates-go/scale"
)

const DefaultCaptureInterval = 50 * time.Millisecond

var ErrTriggerClosed = errors.New("capture trigger closed")

// EventPrompts are shown before each of the three sampling events.
var EventPrompts = [3]string{
	"Press enter to take first readings:",
	"Press enter to take second readings:",
	"Press enter to take third readings:",
}

type Snapshotter interface {
	Snapshot() [3]scale.Reading
}

// Capture polls src every interval, reporting each snapshot to onUpdate,
// until trigger fires. It returns the snapshot taken at the trigger.
func Capture(
	ctx context.Context,
	src Snapshotter,
	trigger <-chan struct{},
	interval time.Duration,
	onUpdate func([3]scale.Reading),
) ([3]scale.Reading, error) {
	if interval <= 0 {
		interval = DefaultCaptureInterval
	}
	emit := func(r [3]scale.Reading) {
		if onUpdate != nil {
			onUpdate(r)
		}
	}

	cur := src.Snapshot()
	emit(cur)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return cur, ctx.Err()
		case _, ok := <-trigger:
			if !ok {
				return cur, ErrTriggerClosed
			}
			return src.Snapshot(), nil
		case <-t.C:
			cur = src.Snapshot()
			emit(cur)
		}
	}
}

// SampleSet collects the three sampling events of one measurement, indexed
// [event][scale].
type SampleSet struct {
	events [][3]scale.Reading
}

func (s *SampleSet) Add(r [3]scale.Reading) error {
	if len(s.events) == len(EventPrompts) {
		return fmt.Errorf("sample set already has %d events", len(EventPrompts))
	}
	s.events = append(s.events, r)
	return nil
}

func (s *SampleSet) Len() int       { return len(s.events) }
func (s *SampleSet) Complete() bool { return len(s.events) == len(EventPrompts) }
func (s *SampleSet) Reset()         { s.events = s.events[:0] }

// Events returns a copy of the collected events.
func (s *SampleSet) Events() [][3]scale.Reading {
	return append([][3]scale.Reading(nil), s.events...)
}

// Triads converts the events into per scale mass triads in kilograms.
func (s *SampleSet) Triads() (a, b, c cg.Triad, err error) {
	if !s.Complete() {
		return a, b, c, fmt.Errorf("%w: %d of %d sampling events taken", cg.ErrInvalidInput, len(s.events), len(EventPrompts))
	}
	var out [3]cg.Triad
	for ev, readings := range s.events {
		for sc, r := range readings {
			kg, err := r.Kilograms()
			if err != nil {
				return a, b, c, fmt.Errorf("scale %s event %d: %w", models.ScaleNames[sc], ev+1, err)
			}
			out[sc][ev] = kg
		}
	}
	return out[0], out[1], out[2], nil
}
