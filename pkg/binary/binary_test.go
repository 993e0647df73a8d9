package binary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytes_CopiesInput(t *testing.T) {
	src := []byte("foo")
	b := FromBytes(src)
	src[0] = 'x'

	assert.Equal(t, []byte("foo"), b.Bytes())
	assert.Equal(t, "Zm9v", b.String())
	assert.Equal(t, 3, b.Len())
}

func TestParse(t *testing.T) {
	b, err := Parse("Zm9vYmE")
	require.NoError(t, err)
	assert.Equal(t, []byte("fooba"), b.Bytes())
	assert.True(t, b.Equal(FromBytes([]byte("fooba"))))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("Zm9v+")
	assert.ErrorIs(t, err, ErrInvalidChar)

	_, err = Parse("Zh")
	assert.ErrorIs(t, err, ErrInvalidPadding)
}

func TestZeroValue(t *testing.T) {
	var b Binary
	assert.Equal(t, "", b.String())
	assert.Equal(t, 0, b.Len())
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary("Zm9v"))
	assert.False(t, IsBinary("Zm9vY"))
}

func TestJSON(t *testing.T) {
	type payload struct {
		Data Binary `json:"data"`
	}

	out, err := json.Marshal(payload{Data: FromBytes([]byte{0xfb, 0xff})})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"-_8"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal(out, &in))
	assert.Equal(t, []byte{0xfb, 0xff}, in.Data.Bytes())

	assert.Error(t, json.Unmarshal([]byte(`{"data":"Zh"}`), &in))
}

func TestEncodeDecode(t *testing.T) {
	decoded, err := Decode(Encode([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), decoded)
}
