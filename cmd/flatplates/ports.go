package main

import (
	"fmt"

	"github.com/CK6170/Flatplates-go/modern"
	serialpkg "github.com/CK6170/Flatplates-go/serial"
	"github.com/CK6170/Flatplates-go/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	probePorts bool
	probeBaud  int
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports, optionally probing them for scales",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports := serialpkg.ListPorts()
		if len(ports) == 0 {
			ui.Warnf("No serial ports found\n")
			return nil
		}
		for _, name := range ports {
			if !probePorts {
				fmt.Println(name)
				continue
			}
			logger.Debug("probing", zap.String("port", name), zap.Int("baud", probeBaud))
			if serialpkg.TestPort(name, probeBaud) {
				ui.Greenf("%s  scale\n", name)
			} else {
				fmt.Printf("%s  -\n", name)
			}
		}
		return nil
	},
}

func init() {
	portsCmd.Flags().BoolVar(&probePorts, "probe", false, "listen on each port for weight frames")
	portsCmd.Flags().IntVar(&probeBaud, "baud", modern.DefaultBaudRate, "baud rate used when probing")
}
