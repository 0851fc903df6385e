package serial

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/CK6170/Flatplates-go/scale"
	bugst "go.bug.st/serial"
)

// probeWindow is how long TestPort listens for a weight frame.
const probeWindow = 2 * time.Second

// ListPorts returns the serial ports known to the OS. When enumeration is not
// available it falls back to common device paths.
func ListPorts() []string {
	ports, err := bugst.GetPortsList()
	if err == nil && len(ports) > 0 {
		slices.Sort(ports)
		return ports
	}
	return globPorts()
}

func globPorts() []string {
	if runtime.GOOS == "windows" {
		return nil
	}
	candidates := make([]string, 0, 32)
	for _, pat := range []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*", "/dev/cu.*"} {
		matches, _ := filepath.Glob(pat)
		for _, m := range matches {
			if _, err := os.Stat(m); err == nil {
				candidates = append(candidates, m)
			}
		}
	}
	return candidates
}

// TestPort opens the port and reports whether it emits a scale weight frame
// within the probe window.
func TestPort(name string, baud int) bool {
	c := NewConn(name, baud, 300*time.Millisecond)
	if err := c.Open(); err != nil {
		return false
	}
	defer func() { _ = c.Close() }()

	deadline := time.Now().Add(probeWindow)
	for time.Now().Before(deadline) {
		line, err := c.ReadLine(0)
		if errors.Is(err, scale.ErrDisconnected) {
			return false
		}
		if err != nil {
			continue
		}
		if _, ok := scale.ParseFrame(line); ok {
			return true
		}
	}
	return false
}

// AutoDetectScales probes every port not in exclude and returns up to n that
// answer with weight frames, in port order.
func AutoDetectScales(n int, baud int, exclude []string) []string {
	found := make([]string, 0, n)
	for _, name := range ListPorts() {
		if len(found) == n {
			break
		}
		if slices.Contains(exclude, name) {
			continue
		}
		if TestPort(name, baud) {
			found = append(found, name)
		}
	}
	return found
}
