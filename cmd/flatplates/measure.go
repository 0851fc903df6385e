package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/CK6170/Flatplates-go/cg"
	"github.com/CK6170/Flatplates-go/models"
	"github.com/CK6170/Flatplates-go/modern"
	"github.com/CK6170/Flatplates-go/scale"
	"github.com/CK6170/Flatplates-go/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Console measurement loop",
	Long: `Connects the three scales and repeatedly takes a set of three readings,
computing the center of gravity after each set and appending it to
data.<unix time>.csv in the configured output directory.`,
	RunE: runMeasure,
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	fmt.Print("=== FlatPlates CoG Calculator ===\n\n")
	p, err := loadParameters()
	if err != nil {
		return err
	}
	printReport(p)

	sess, err := modern.Connect(ctx, p, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("closing scales", zap.Error(err))
		}
	}()

	out, err := modern.NewCSVWriter(p.OUTDIR, time.Now())
	if err != nil {
		return err
	}
	defer out.Close()
	ui.Greenf("Writing results to %s\n\n", out.Path())

	keys := ui.StartKeyEvents()
	defer ui.StopKeyEvents()

	xdom, ydom := p.XDOM, p.YDOM
	for {
		fmt.Printf("Current x_dom: %s\n", originText(xdom))
		fmt.Printf("Current y_dom: %s\n", originText(ydom))
		ui.Separator()

		if err := changeOrigins(keys, &xdom, &ydom); err != nil {
			if errors.Is(err, ui.ErrInterrupted) {
				return nil
			}
			return err
		}
		xo, _ := xdom.Origin()
		yo, _ := ydom.Origin()

		var set modern.SampleSet
		for _, q := range modern.EventPrompts {
			fmt.Println(q)
			ui.DrainKeys()
			r, err := modern.Capture(ctx, sess, waitEnter(ctx, keys, cancel), modern.DefaultCaptureInterval, func(r [3]scale.Reading) {
				ui.StatusLine(readingsText(r))
			})
			ui.EndStatusLine()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			if err := set.Add(r); err != nil {
				return err
			}
		}

		m, err := modern.EvaluateSet(&set, xo, yo, p.Constants())
		if err != nil {
			ui.Redf("Could not compute center of gravity: %v\n", err)
			logger.Warn("evaluate", zap.Error(err), zap.Any("events", set.Events()))
		} else {
			printMeasurement(m)
			if err := out.Write(m); err != nil {
				return fmt.Errorf("write %s: %w", out.Path(), err)
			}
			logger.Info("measurement saved", zap.String("file", out.Path()))
		}

		fmt.Println("Take another set of readings? (Y/n):")
		k, err := ui.WaitKey(keys)
		if err != nil {
			return nil
		}
		if k == 'n' || k == 'N' {
			return nil
		}
	}
}

// waitEnter fires once on Enter. Ctrl+C cancels the measurement instead.
func waitEnter(ctx context.Context, keys <-chan rune, cancel context.CancelFunc) <-chan struct{} {
	trig := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case k, ok := <-keys:
				if !ok || k == ui.KeyCtrlC {
					cancel()
					return
				}
				if k == ui.KeyEnter {
					trig <- struct{}{}
					return
				}
			}
		}
	}()
	return trig
}

func changeOrigins(keys <-chan rune, xdom, ydom *models.OriginValue) error {
	fmt.Println("Change x_dom and y_dom? (y/N):")
	k, err := ui.WaitKey(keys)
	if err != nil {
		return err
	}
	if k != 'y' && k != 'Y' {
		ui.Separator()
		return nil
	}
	x, err := promptOrigin(keys, "x_dom")
	if err != nil {
		return err
	}
	y, err := promptOrigin(keys, "y_dom")
	if err != nil {
		return err
	}
	*xdom, *ydom = x, y
	ui.Separator()
	return nil
}

func promptOrigin(keys <-chan rune, name string) (models.OriginValue, error) {
	for {
		fmt.Printf("Enter %s value(s) in m (example: 0.15, 0.14, 0.13):\n", name)
		line, err := ui.ReadLine(keys)
		if err != nil {
			return nil, err
		}
		o, err := models.ParseOrigin(line)
		if err == nil {
			return o, nil
		}
		ui.Warnf("%v\n", err)
	}
}

func printReport(p *models.PARAMETERS) {
	ports := p.Ports()
	fmt.Println("Constants loaded:")
	fmt.Printf("g (Gravity): %v m/s^2\n", p.GRAVITY)
	fmt.Printf("L (Sensor distance): %v m\n\n", p.DISTANCE)
	fmt.Println("Scales configured with serial ports:")
	for i, name := range models.ScaleNames {
		fmt.Printf("Scale %s: %s\n", name, ports[i])
	}
	ui.Separator()
}

func printMeasurement(m *modern.Measurement) {
	fmt.Print("Current set of results:\n\n")
	fmt.Println("Center of gravity (m):")
	for i, axis := range []string{"x", "y", "z"} {
		pair := m.CG.Pairs()[i]
		fmt.Printf("  %s1 = %9.5f   %s2 = %9.5f\n", axis, pair[0], axis, pair[1])
	}
	fmt.Println()
	fmt.Println("Calculated from measurements (kg):")
	for i, name := range models.ScaleNames {
		t := m.Masses[i]
		fmt.Printf("  Scale %s: %8.4f %8.4f %8.4f   total %8.4f\n", name, t[0], t[1], t[2], m.Totals[i])
	}
	fmt.Printf("  Average total: %.4f\n", m.AvgTotal)
	fmt.Printf("  x_dom: %s\n  y_dom: %s\n", triadText(m.XDom), triadText(m.YDom))
	ui.Separator()
}

func readingsText(r [3]scale.Reading) string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = fmt.Sprintf("%s: %s", models.ScaleNames[i], v)
	}
	return strings.Join(parts, "   ")
}

func originText(o models.OriginValue) string {
	v, err := o.Origin()
	if err != nil {
		return "invalid"
	}
	return triadText(v.Triad())
}

func triadText(t cg.Triad) string {
	return fmt.Sprintf("(%g, %g, %g)", t[0], t[1], t[2])
}
