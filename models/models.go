// Package models holds the configuration read from config.yaml.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CK6170/Flatplates-go/cg"
	"gopkg.in/yaml.v3"
)

// ScaleNames labels the three scales in the order they are configured.
var ScaleNames = [3]string{"A", "B", "C"}

type SERIAL struct {
	BAUDRATE int     `yaml:"baudrate"`
	TIMEOUT  float64 `yaml:"timeout"` // seconds
}

type PARAMETERS struct {
	GRAVITY  float64           `yaml:"gravity"`
	DISTANCE float64           `yaml:"sensor_distance"`
	PORTS    map[string]string `yaml:"scale_ports"`
	SERIAL   *SERIAL           `yaml:"serial,omitempty"`
	XDOM     OriginValue       `yaml:"x_dom,omitempty"`
	YDOM     OriginValue       `yaml:"y_dom,omitempty"`
	OUTDIR   string            `yaml:"output_dir,omitempty"`
	DEBUG    bool              `yaml:"debug,omitempty"`
}

// Constants returns gravity and sensor spacing for the CG computation.
func (p *PARAMETERS) Constants() cg.Constants {
	return cg.Constants{Gravity: p.GRAVITY, Spacing: p.DISTANCE}
}

// Ports returns the port of each scale. Keys "1".."3" and "a".."c" are both
// accepted; a missing scale yields an empty name.
func (p *PARAMETERS) Ports() [3]string {
	var out [3]string
	for k, v := range p.PORTS {
		if i, ok := portIndex(k); ok {
			out[i] = strings.TrimSpace(v)
		}
	}
	return out
}

// SetPort stores the port for scale i (0-based) under its numeric key.
func (p *PARAMETERS) SetPort(i int, name string) {
	if p.PORTS == nil {
		p.PORTS = make(map[string]string, 3)
	}
	for k := range p.PORTS {
		if j, ok := portIndex(k); ok && j == i {
			delete(p.PORTS, k)
		}
	}
	p.PORTS[strconv.Itoa(i+1)] = name
}

func portIndex(key string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "1", "a":
		return 0, true
	case "2", "b":
		return 1, true
	case "3", "c":
		return 2, true
	}
	return 0, false
}

// OriginValue is an origin offset written either as one number or as a list
// of three numbers.
type OriginValue []float64

func (o *OriginValue) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		*o = OriginValue{v}
	case yaml.SequenceNode:
		var vs []float64
		if err := n.Decode(&vs); err != nil {
			return err
		}
		*o = vs
	default:
		return fmt.Errorf("line %d: origin must be a number or a list of 3 numbers", n.Line)
	}
	return nil
}

func (o OriginValue) MarshalYAML() (interface{}, error) {
	if len(o) == 1 {
		return o[0], nil
	}
	return []float64(o), nil
}

// Origin converts the value into a cg.Origin. An empty value means 0.
func (o OriginValue) Origin() (cg.Origin, error) {
	if len(o) == 0 {
		return cg.Scalar(0), nil
	}
	return cg.OriginFrom(o)
}

// ParseOrigin reads "0.15" or "0.15, 0.14, 0.13" as typed by an operator.
func ParseOrigin(s string) (OriginValue, error) {
	parts := strings.Split(s, ",")
	out := make(OriginValue, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid origin value %q", part)
		}
		out = append(out, v)
	}
	if len(out) != 1 && len(out) != 3 {
		return nil, fmt.Errorf("%w: origin needs 1 or 3 values, got %d", cg.ErrInvalidInput, len(out))
	}
	return out, nil
}
