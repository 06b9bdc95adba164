package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaCodec(t *testing.T) {
	area := [][]float64{
		{6.93548, 79.84868},
		{6.93102, 79.85723},
		{6.92410, 79.84991},
	}

	encoded := encodeArea(area)
	require.NotEmpty(t, encoded)

	decoded := decodeArea(encoded)
	require.Len(t, decoded, len(area))
	for i := range area {
		assert.InDelta(t, area[i][0], decoded[i][0], 1e-4)
		assert.InDelta(t, area[i][1], decoded[i][1], 1e-4)
	}
}

func TestAreaCodecEmpty(t *testing.T) {
	assert.Empty(t, encodeArea(nil))
	assert.Empty(t, encodeArea([][]float64{}))
	assert.Nil(t, decodeArea(""))
}

func TestAreaCodecBadInput(t *testing.T) {
	assert.Nil(t, decodeArea("\xff not a polyline"))
}
