package ui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eiannone/keyboard"
)

const (
	KeyEnter     = '\r'
	KeyEsc       = 27
	KeyCtrlC     = 3
	KeyBackspace = '\b'
)

var ErrInterrupted = errors.New("interrupted")

// Single-key events via github.com/eiannone/keyboard (Linux, macOS, Windows).
var (
	keyCh     chan rune
	startOnce sync.Once
)

// StartKeyEvents returns a channel that emits single-key runes read without Enter.
// Enter, Esc, Ctrl+C and Backspace are mapped to the Key* constants.
func StartKeyEvents() chan rune {
	startOnce.Do(func() {
		keyCh = make(chan rune, 64)
		if err := keyboard.Open(); err != nil {
			// Keyboard not available; keep a buffered channel that will never emit.
			return
		}
		go func() {
			defer keyboard.Close()
			for {
				char, key, err := keyboard.GetKey()
				if err != nil {
					close(keyCh)
					return
				}
				r, ok := mapKey(char, key)
				if !ok {
					continue
				}
				select {
				case keyCh <- r:
				default:
				}
			}
		}()
	})
	if keyCh == nil {
		keyCh = make(chan rune, 64)
	}
	return keyCh
}

func mapKey(char rune, key keyboard.Key) (rune, bool) {
	switch key {
	case 0:
		return char, true
	case keyboard.KeyEnter:
		return KeyEnter, true
	case keyboard.KeyEsc:
		return KeyEsc, true
	case keyboard.KeyCtrlC:
		return KeyCtrlC, true
	case keyboard.KeySpace:
		return ' ', true
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return KeyBackspace, true
	}
	return 0, false
}

// StopKeyEvents restores the terminal.
func StopKeyEvents() {
	_ = keyboard.Close()
}

// DrainKeys consumes any immediately available keys to avoid accidental triggers.
func DrainKeys() {
	ch := StartKeyEvents()
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// WaitKey blocks for the next key.
func WaitKey(keys <-chan rune) (rune, error) {
	r, ok := <-keys
	if !ok {
		return 0, errors.New("keyboard closed")
	}
	if r == KeyCtrlC {
		return r, ErrInterrupted
	}
	return r, nil
}

// ReadLine echoes typed keys until Enter and returns the line.
func ReadLine(keys <-chan rune) (string, error) {
	var buf []rune
	for {
		r, err := WaitKey(keys)
		if err != nil {
			fmt.Println()
			return "", err
		}
		switch r {
		case KeyEnter:
			fmt.Println()
			return string(buf), nil
		case KeyEsc:
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Print("\b \b")
			}
		default:
			buf = append(buf, r)
			fmt.Print(string(r))
		}
	}
}
