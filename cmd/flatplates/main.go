package main

import (
	"fmt"
	"os"

	"github.com/CK6170/Flatplates-go/models"
	"github.com/CK6170/Flatplates-go/modern"
	"github.com/CK6170/Flatplates-go/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool
	logFile    string

	logger = zap.NewNop()
)

// interactive marks commands that own the terminal; they only log to --log-file.
const interactive = "interactive"

var rootCmd = &cobra.Command{
	Use:   "flatplates",
	Short: "FlatPlates CoG calculator",
	Long: `FlatPlates reads three serial load-cell scales placed under a flat plate,
takes three sets of readings and computes the plate's center of gravity
with the three point static moment method.

Run without arguments to start the interactive UI.`,
	Annotations:       map[string]string{interactive: "true"},
	SilenceUsage:      true,
	PersistentPreRunE: initLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.AddCommand(tuiCmd, measureCmd, portsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger(cmd *cobra.Command, args []string) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	switch {
	case logFile != "":
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	case cmd.Annotations[interactive] == "true":
		return nil
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// loadParameters reads the config and fills in any scale port that can be
// auto-detected, saving it back like the calibration tools do.
func loadParameters() (*models.PARAMETERS, error) {
	p, err := modern.LoadParameters(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w (ensure %s exists and is formatted properly)", err, configPath)
	}
	ui.Debugf(p.DEBUG, "Loaded config: %s\n", configPath)
	if _, err := modern.EnsureScalePorts(configPath, p, true, logger); err != nil {
		return nil, err
	}
	return p, nil
}
