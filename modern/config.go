package modern

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CK6170/Flatplates-go/cg"
	"github.com/CK6170/Flatplates-go/models"
	serialpkg "github.com/CK6170/Flatplates-go/serial"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultBaudRate = 9600

// autoDetect is swapped out in tests.
var autoDetect = serialpkg.AutoDetectScales

func LoadParameters(path string) (*models.PARAMETERS, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p models.PARAMETERS
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	applyDefaults(&p)
	if err := Validate(&p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

func applyDefaults(p *models.PARAMETERS) {
	if p.GRAVITY == 0 {
		p.GRAVITY = cg.DefaultGravity
	}
	if p.DISTANCE == 0 {
		p.DISTANCE = cg.DefaultSpacing
	}
	if p.SERIAL == nil {
		p.SERIAL = &models.SERIAL{}
	}
	if p.SERIAL.BAUDRATE == 0 {
		p.SERIAL.BAUDRATE = DefaultBaudRate
	}
	if p.SERIAL.TIMEOUT == 0 {
		p.SERIAL.TIMEOUT = 1
	}
	if p.OUTDIR == "" {
		p.OUTDIR = "."
	}
}

func Validate(p *models.PARAMETERS) error {
	if p.GRAVITY <= 0 {
		return fmt.Errorf("gravity must be > 0, got %v", p.GRAVITY)
	}
	if p.DISTANCE <= 0 {
		return fmt.Errorf("sensor_distance must be > 0, got %v", p.DISTANCE)
	}
	if p.SERIAL == nil {
		return fmt.Errorf("missing serial section")
	}
	if p.SERIAL.BAUDRATE <= 0 {
		return fmt.Errorf("serial.baudrate must be > 0, got %d", p.SERIAL.BAUDRATE)
	}
	if p.SERIAL.TIMEOUT <= 0 {
		return fmt.Errorf("serial.timeout must be > 0, got %v", p.SERIAL.TIMEOUT)
	}
	if _, err := p.XDOM.Origin(); err != nil {
		return fmt.Errorf("x_dom: %w", err)
	}
	if _, err := p.YDOM.Origin(); err != nil {
		return fmt.Errorf("y_dom: %w", err)
	}
	return nil
}

func PersistParameters(path string, p *models.PARAMETERS) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureScalePorts auto-detects the ports of scales missing from the config
// and optionally persists them back into the config file.
func EnsureScalePorts(configPath string, p *models.PARAMETERS, persist bool, log *zap.Logger) (changed bool, err error) {
	if p == nil || p.SERIAL == nil {
		return false, fmt.Errorf("missing serial section")
	}
	if log == nil {
		log = zap.NewNop()
	}
	ports := p.Ports()
	var missing []int
	var known []string
	for i, name := range ports {
		if name == "" {
			missing = append(missing, i)
		} else {
			known = append(known, name)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}
	log.Info("auto-detecting scale ports", zap.Int("missing", len(missing)))
	found := autoDetect(len(missing), p.SERIAL.BAUDRATE, known)
	if len(found) < len(missing) {
		return false, fmt.Errorf("could not auto-detect %d scale port(s), found %v", len(missing), found)
	}
	for k, i := range missing {
		p.SetPort(i, found[k])
		log.Info("detected scale port", zap.String("scale", models.ScaleNames[i]), zap.String("port", found[k]))
	}
	if persist {
		if err := PersistParameters(configPath, p); err != nil {
			return true, err
		}
	}
	return true, nil
}

// OutputPath names the CSV file for a measurement run started at now.
func OutputPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("data.%d.csv", now.Unix()))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
