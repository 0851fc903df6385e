package serial

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/CK6170/Flatplates-go/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeLine(t *testing.T) {
	c := NewConn("test", 9600, time.Second)

	_, ok := c.takeLine()
	assert.False(t, ok)

	c.pending = append(c.pending, "ST,GS,W:+12.5g\r\nW:-3"...)
	line, ok := c.takeLine()
	require.True(t, ok)
	assert.Equal(t, "ST,GS,W:+12.5g", line)
	assert.Equal(t, "W:-3", string(c.pending))

	_, ok = c.takeLine()
	assert.False(t, ok)

	c.pending = append(c.pending, ".0kg\n\n"...)
	line, ok = c.takeLine()
	require.True(t, ok)
	assert.Equal(t, "W:-3.0kg", line)
	line, ok = c.takeLine()
	require.True(t, ok)
	assert.Equal(t, "", line)
	assert.Empty(t, c.pending)
}

func TestConn_NotOpen(t *testing.T) {
	c := NewConn("test", 9600, 0)
	assert.Equal(t, scale.DefaultReadTimeout, c.readTimeout)
	assert.Equal(t, "test", c.Name())

	_, err := c.ReadLine(10 * time.Millisecond)
	assert.ErrorIs(t, err, scale.ErrDisconnected)
	assert.ErrorIs(t, c.Discard(), scale.ErrDisconnected)
	assert.NoError(t, c.Close())
}

func TestConn_OpenMissingPort(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ttyMissing0")
	c := NewConn(name, 9600, time.Second)
	assert.Error(t, c.Open())
	assert.False(t, TestPort(name, 9600))
}

func TestGone(t *testing.T) {
	assert.True(t, gone(os.ErrClosed))
	assert.True(t, gone(fmt.Errorf("read: %w", syscall.EIO)))
	assert.False(t, gone(fmt.Errorf("parity error")))
}
