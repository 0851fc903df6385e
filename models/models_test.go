package models

import (
	"testing"

	"github.com/CK6170/Flatplates-go/cg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOriginValue_YAML(t *testing.T) {
	var p PARAMETERS
	require.NoError(t, yaml.Unmarshal([]byte("x_dom: 0.1525\ny_dom: [0.15, 0.14, 0.13]\n"), &p))
	assert.Equal(t, OriginValue{0.1525}, p.XDOM)
	assert.Equal(t, OriginValue{0.15, 0.14, 0.13}, p.YDOM)

	x, err := p.XDOM.Origin()
	require.NoError(t, err)
	assert.True(t, x.IsScalar())
	y, err := p.YDOM.Origin()
	require.NoError(t, err)
	assert.Equal(t, cg.Triad{0.15, 0.14, 0.13}, y.Triad())

	out, err := yaml.Marshal(&p)
	require.NoError(t, err)
	var back PARAMETERS
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, p.XDOM, back.XDOM)
	assert.Equal(t, p.YDOM, back.YDOM)

	err = yaml.Unmarshal([]byte("x_dom: {a: 1}\n"), &p)
	assert.Error(t, err)
}

func TestOriginValue_Origin(t *testing.T) {
	o, err := OriginValue(nil).Origin()
	require.NoError(t, err)
	assert.Equal(t, cg.Triad{}, o.Triad())

	_, err = OriginValue{1, 2}.Origin()
	assert.ErrorIs(t, err, cg.ErrInvalidInput)
}

func TestParseOrigin(t *testing.T) {
	o, err := ParseOrigin(" 0.15 ")
	require.NoError(t, err)
	assert.Equal(t, OriginValue{0.15}, o)

	o, err = ParseOrigin("0.15, 0.14,0.13")
	require.NoError(t, err)
	assert.Equal(t, OriginValue{0.15, 0.14, 0.13}, o)

	_, err = ParseOrigin("0.15, 0.14")
	assert.ErrorIs(t, err, cg.ErrInvalidInput)
	_, err = ParseOrigin("abc")
	assert.Error(t, err)
	_, err = ParseOrigin("")
	assert.Error(t, err)
}

func TestPorts(t *testing.T) {
	p := PARAMETERS{PORTS: map[string]string{"1": "/dev/ttyUSB0", "B": " /dev/ttyUSB1 ", "x": "ignored"}}
	assert.Equal(t, [3]string{"/dev/ttyUSB0", "/dev/ttyUSB1", ""}, p.Ports())

	p.SetPort(1, "/dev/ttyUSB5")
	p.SetPort(2, "COM7")
	assert.Equal(t, [3]string{"/dev/ttyUSB0", "/dev/ttyUSB5", "COM7"}, p.Ports())
	assert.NotContains(t, p.PORTS, "B")

	var empty PARAMETERS
	empty.SetPort(0, "COM1")
	assert.Equal(t, "COM1", empty.PORTS["1"])
}
