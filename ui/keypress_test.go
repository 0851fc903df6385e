package ui

import (
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(keys ...rune) chan rune {
	ch := make(chan rune, len(keys))
	for _, k := range keys {
		ch <- k
	}
	return ch
}

func TestReadLine(t *testing.T) {
	line, err := ReadLine(feed('0', '.', '1', '5', 'x', KeyBackspace, ',', ' ', '2', KeyEnter))
	require.NoError(t, err)
	assert.Equal(t, "0.15, 2", line)

	_, err = ReadLine(feed('1', KeyCtrlC))
	assert.ErrorIs(t, err, ErrInterrupted)

	ch := feed('1')
	close(ch)
	_, err = ReadLine(ch)
	assert.Error(t, err)
}

func TestMapKey(t *testing.T) {
	r, ok := mapKey('y', 0)
	assert.True(t, ok)
	assert.Equal(t, 'y', r)

	r, ok = mapKey(0, keyboard.KeyEnter)
	assert.True(t, ok)
	assert.Equal(t, rune(KeyEnter), r)

	r, ok = mapKey(0, keyboard.KeyBackspace2)
	assert.True(t, ok)
	assert.Equal(t, rune(KeyBackspace), r)

	_, ok = mapKey(0, keyboard.KeyF1)
	assert.False(t, ok)
}
