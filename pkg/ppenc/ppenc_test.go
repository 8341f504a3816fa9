package ppenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	fields := []uint64{40, 128, 10, 1024, 12, 4096, 17}
	buf := EncodeUint64s(fields...)
	assert.Len(t, buf, FieldBytes*len(fields))

	got, err := DecodeUint64s(buf, len(fields))
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestDecodeRejectsBadLength(t *testing.T) {
	_, err := DecodeUint64s([]byte{1, 2, 3}, 1)
	assert.Error(t, err)
}
