package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSolveBody(t *testing.T) {
	t.Run("bare string", func(t *testing.T) {
		got, err := decodeSolveBody("/solve", []byte(`"解：x = 4"`))
		require.NoError(t, err)
		assert.Equal(t, "解：x = 4", got)
	})

	t.Run("solution envelope", func(t *testing.T) {
		got, err := decodeSolveBody("/solve", []byte(`{"solution":"解题过程……"}`))
		require.NoError(t, err)
		assert.Equal(t, "解题过程……", got)
	})

	t.Run("review envelope", func(t *testing.T) {
		got, err := decodeSolveBody("/review", []byte(`{"review":"批改意见……"}`))
		require.NoError(t, err)
		assert.Equal(t, "批改意见……", got)
	})

	t.Run("solution preferred over review", func(t *testing.T) {
		got, err := decodeSolveBody("/solve", []byte(`{"solution":"a","review":"b"}`))
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("unknown object shape", func(t *testing.T) {
		_, err := decodeSolveBody("/solve", []byte(`{"answer":"x"}`))
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "/solve", decodeErr.Endpoint)
	})

	t.Run("non json body", func(t *testing.T) {
		_, err := decodeSolveBody("/solve", []byte(`<html>502</html>`))
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := decodeSolveBody("/solve", nil)
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})
}

func TestDecodeErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	err := &DecodeError{Endpoint: "/solve", Body: string(long)}
	assert.Less(t, len(err.Error()), 200)
}
