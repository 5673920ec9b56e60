package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupUTF8IsPassThrough(t *testing.T) {
	c, err := Lookup("UTF-8")
	require.NoError(t, err)
	require.Equal(t, "utf-8", c.Name())

	raw := []byte("\xEF\xBB\xBFab\xffc")
	out, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, []byte("ab\xffc"), out, "BOM stripped, malformed byte kept")

	enc, err := c.Encode([]byte("héllo"))
	require.NoError(t, err)
	require.Equal(t, []byte("héllo"), enc)
}

func TestLookupShiftJISRoundTrip(t *testing.T) {
	c, err := Lookup("shift_jis")
	require.NoError(t, err)
	require.Equal(t, "shift_jis", c.Name())

	raw := []byte{0x82, 0xa0, 0x41} // "あA"
	text, err := c.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "あA", string(text))

	back, err := c.Encode(text)
	require.NoError(t, err)
	require.Equal(t, raw, back)
}

func TestLookupLatin1(t *testing.T) {
	c, err := Lookup("ISO-8859-1")
	require.NoError(t, err)
	text, err := c.Decode([]byte{0x63, 0x61, 0x66, 0xe9})
	require.NoError(t, err)
	require.Equal(t, "café", string(text))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("no-such-charset")
	require.ErrorIs(t, err, ErrUnknownCodec)
}

func TestEncodeUnrepresentable(t *testing.T) {
	c, err := Lookup("iso-8859-1")
	require.NoError(t, err)
	_, err = c.Encode([]byte("日本"))
	require.Error(t, err)
}
