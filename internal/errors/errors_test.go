package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecError(t *testing.T) {
	underlying := errors.New("invalid character")
	err := NewDecodeError("base64url decode", 3, '!', underlying)

	assert.Equal(t, ErrorTypeDecode, err.Type)
	assert.Equal(t, 3, err.Position)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "base64url decode: invalid character: U+0021 at position 3", err.Error())
}

func TestCodecError_NoPosition(t *testing.T) {
	underlying := errors.New("bad length")
	err := NewEncodeError("uuid", NoPosition, 0, underlying)

	assert.Equal(t, ErrorTypeEncode, err.Type)
	assert.Equal(t, "uuid: bad length", err.Error())
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("unknown format")
	err := NewConfigError("uuid.format", "compat", underlying)

	assert.True(t, errors.Is(err, underlying))
	assert.False(t, err.Timestamp.IsZero())
	assert.Equal(t, "config error for field uuid.format (value compat): unknown format", err.Error())
}

func TestItemError(t *testing.T) {
	underlying := errors.New("boom")
	err := NewItemError(2, "abc", underlying)

	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, `batch item 2 ("abc"): boom`, err.Error())
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	t.Run("filters nil", func(t *testing.T) {
		multi := NewMultiError([]error{nil, err1, nil, err2})
		require.Len(t, multi.Errors, 2)
		assert.True(t, errors.Is(multi, err1))
		assert.True(t, errors.Is(multi, err2))
		assert.Equal(t, "2 errors: [first second]", multi.Error())
	})

	t.Run("single", func(t *testing.T) {
		multi := NewMultiError([]error{err1})
		assert.Equal(t, "first", multi.Error())
	})

	t.Run("empty", func(t *testing.T) {
		multi := NewMultiError(nil)
		assert.NoError(t, multi.ErrorOrNil())
		assert.Equal(t, "no errors", multi.Error())
	})
}
