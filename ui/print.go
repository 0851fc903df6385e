package ui

import (
	"fmt"
	"strings"
	"sync"
)

func Debugf(enabled bool, format string, a ...interface{}) {
	if enabled {
		fmt.Print("\033[33m")
		fmt.Printf("[DEBUG] "+format, a...)
		fmt.Print("\033[0m")
	}
}

func Greenf(format string, a ...interface{}) {
	fmt.Print("\033[92m")
	fmt.Printf(format, a...)
	fmt.Print("\033[0m")
}

func Warnf(format string, a ...interface{}) {
	fmt.Print("\033[93m")
	fmt.Printf(format, a...)
	fmt.Print("\033[0m")
}

func Redf(format string, a ...interface{}) {
	fmt.Print("\033[91m")
	fmt.Printf(format, a...)
	fmt.Print("\033[0m")
}

func ClearScreen() {
	fmt.Print("\033[2J\033[1;1H")
}

func Separator() {
	fmt.Print("\n===\n\n")
}

var (
	statusMu  sync.Mutex
	statusLen int
)

// StatusLine rewrites the current terminal line with msg and hides the cursor
// until EndStatusLine.
func StatusLine(msg string) {
	statusMu.Lock()
	defer statusMu.Unlock()
	fmt.Print("\033[?25l")
	if pad := statusLen - len(msg); pad > 0 {
		msg += strings.Repeat(" ", pad)
	}
	fmt.Print(msg + "\r")
	statusLen = len(msg)
}

// EndStatusLine moves past the status line and shows the cursor again.
func EndStatusLine() {
	statusMu.Lock()
	defer statusMu.Unlock()
	fmt.Print("\n\033[?25h")
	statusLen = 0
}
