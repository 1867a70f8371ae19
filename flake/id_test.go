package flake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Encode(t *testing.T) {
	id := ID(123<<22 + 7)
	for _, format := range []Format{Decimal, Base2, Base32, Base36, Base58, Base64} {
		text, err := id.Encode(format)
		require.NoError(t, err, format)
		require.NotEmpty(t, text, format)
		actual, err := ParseID(format, text)
		require.NoError(t, err, format)
		assert.Equal(t, id, actual, format)
	}
	assert.Equal(t, "515899399", id.String())
	assert.Equal(t, uint64(515899399), id.Uint64())
}

func TestID_OutOfRange(t *testing.T) {
	id := ID(1 << 63)
	_, err := id.Encode(Base58)
	assert.True(t, errors.Is(err, ErrIDOutOfRange))
	assert.Equal(t, "", id.Base58())

	text, err := id.Encode(Decimal)
	require.NoError(t, err)
	actual, err := ParseID(Decimal, text)
	require.NoError(t, err)
	assert.Equal(t, id, actual)
}

func TestID_UnsupportedFormat(t *testing.T) {
	_, err := ID(1).Encode("roman")
	assert.Error(t, err)
	_, err = ParseID("roman", "I")
	assert.Error(t, err)
	_, err = ParseID(Decimal, "x")
	assert.Error(t, err)
}
