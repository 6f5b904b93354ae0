package fiducials

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_Tokens(t *testing.T) {
	for s := ShapePoint; s <= ShapeShape; s++ {
		token := ShapeToString(s)
		require.NotEmpty(t, token)
		assert.Equal(t, s, ParseShape(token))
	}
	assert.Equal(t, "L_SHAPE", ShapeToString(ShapeLShape))
	assert.Equal(t, "", ShapeToString(ShapeInvalid))
	assert.Equal(t, ShapeInvalid, ParseShape("point"))
	assert.Equal(t, ShapeInvalid, ParseShape(""))
	assert.Equal(t, "INVALID", ShapeInvalid.String())
}

func TestShape_Text(t *testing.T) {
	b, err := json.Marshal(struct {
		Shape Shape        `json:"shape"`
		Kind  PrivateShape `json:"kind"`
	}{ShapeTShape, Cube})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"T_SHAPE","kind":"CUBE"}`, string(b))

	var s Shape
	require.NoError(t, s.UnmarshalText([]byte("RULER")))
	assert.Equal(t, ShapeRuler, s)
	assert.Error(t, s.UnmarshalText([]byte("CIRCLE")))
}

func TestPrivateShape_Parse(t *testing.T) {
	p, ok := ParsePrivateShape("SPHERE")
	assert.True(t, ok)
	assert.Equal(t, Sphere, p)
	p, ok = ParsePrivateShape("CUBE")
	assert.True(t, ok)
	assert.Equal(t, Cube, p)
	_, ok = ParsePrivateShape("sphere")
	assert.False(t, ok)
}

func TestColor_Encoding(t *testing.T) {
	assert.Equal(t, "1,0.5,0,1", Color{1, 0.5, 0, 1}.String())
	assert.Equal(t, "0.25,0.1,0.3,1", Color{0.25, 0.1, 0.3, 1}.String())

	c, err := ParseColor("1,0.5,0,1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, Color{1, 0.5, 0, 1}, *c)

	c, err = ParseColor("1,0.5,0")
	assert.NoError(t, err)
	assert.Nil(t, c)
	c, err = ParseColor("")
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = ParseColor("1,red,0,1")
	assert.Error(t, err)
}

func TestSize_Encoding(t *testing.T) {
	assert.Equal(t, "5.000000", formatSize(5))
	assert.Equal(t, "0.250000", formatSize(0.25))

	v, err := parseSize("12.5")
	require.NoError(t, err)
	assert.Equal(t, float32(12.5), v)
	_, err = parseSize("big")
	assert.Error(t, err)
}

func TestVisibility_Encoding(t *testing.T) {
	assert.True(t, parseVisibility(formatVisibility(true)))
	assert.False(t, parseVisibility(formatVisibility(false)))
	assert.False(t, parseVisibility("TRUE"))
	assert.False(t, parseVisibility("yes"))
}
