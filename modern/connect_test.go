package modern

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CK6170/Flatplates-go/models"
	"github.com/CK6170/Flatplates-go/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testParams() *models.PARAMETERS {
	return &models.PARAMETERS{
		GRAVITY:  9.799,
		DISTANCE: 0.4,
		PORTS:    map[string]string{"1": "p1", "2": "p2", "3": "p3"},
		SERIAL:   &models.SERIAL{BAUDRATE: 9600, TIMEOUT: 0.01},
	}
}

func stubDialer(conns map[string]*stubConn) Dialer {
	return func(port string, _ *models.SERIAL) scale.Conn { return conns[port] }
}

func TestConnectWith(t *testing.T) {
	conns := map[string]*stubConn{
		"p1": {line: "W:+30g"},
		"p2": {line: "W:+35g"},
		"p3": {line: "ST,W:-0.045kg"},
	}
	s, err := ConnectWith(context.Background(), testParams(), zaptest.NewLogger(t), stubDialer(conns),
		scale.WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, [3]string{"p1", "p2", "p3"}, s.Ports)
	assert.Equal(t, "A", s.Readers[0].Name())
	assert.Equal(t, "C", s.Readers[2].Name())

	want := [3]scale.Reading{{Value: 30, Unit: "g"}, {Value: 35, Unit: "g"}, {Value: -0.045, Unit: "kg"}}
	require.Eventually(t, func() bool { return s.Snapshot() == want }, time.Second, time.Millisecond)
	assert.Equal(t, [3]bool{true, true, true}, s.Running())

	require.NoError(t, s.Close())
	for _, c := range conns {
		assert.False(t, c.isOpen())
	}
	assert.Equal(t, [3]bool{}, s.Running())
}

func TestConnectWith_OpenFailureStopsOthers(t *testing.T) {
	conns := map[string]*stubConn{
		"p1": {line: "W:+30g"},
		"p2": {openErr: errors.New("access denied")},
		"p3": {line: "W:+30g"},
	}
	s, err := ConnectWith(context.Background(), testParams(), zaptest.NewLogger(t), stubDialer(conns))
	require.ErrorIs(t, err, scale.ErrConnection)
	assert.Contains(t, err.Error(), "scale B on p2")
	assert.Nil(t, s)
	for _, c := range conns {
		assert.False(t, c.isOpen())
	}
}

func TestConnectWith_MissingPort(t *testing.T) {
	p := testParams()
	delete(p.PORTS, "3")
	_, err := ConnectWith(context.Background(), p, nil, stubDialer(nil))
	assert.ErrorContains(t, err, "scale C")
}

func TestConnectWith_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectWith(ctx, testParams(), nil, stubDialer(nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionClose_Nil(t *testing.T) {
	var s *Session
	assert.NoError(t, s.Close())
}
