// Package codec converts file bytes in a named character set to and from the
// UTF-8 text the editor works with.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var ErrUnknownCodec = errors.New("unknown codec")

type Codec struct {
	name string
	enc  encoding.Encoding
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// UTF8 passes bytes through unchanged, apart from stripping a byte order mark
// on decode. Malformed sequences are left for the line parser.
func UTF8() *Codec {
	return &Codec{name: "utf-8"}
}

// Lookup resolves an IANA or MIME charset name such as "shift_jis" or
// "iso-8859-1".
func Lookup(name string) (*Codec, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf-8", "utf8":
		return UTF8(), nil
	}
	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil || enc == nil {
		enc, err = ianaindex.MIME.Encoding(n)
	}
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = n
	}
	return &Codec{name: strings.ToLower(canonical), enc: enc}, nil
}

func (c *Codec) Name() string {
	return c.name
}

// Decode converts raw file bytes to UTF-8.
func (c *Codec) Decode(raw []byte) ([]byte, error) {
	if c.enc == nil {
		return bytes.TrimPrefix(raw, utf8BOM), nil
	}
	out, _, err := transform.Bytes(c.enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return out, nil
}

// Encode converts UTF-8 text to the codec's charset. Characters the charset
// cannot represent are an error.
func (c *Codec) Encode(text []byte) ([]byte, error) {
	if c.enc == nil {
		return text, nil
	}
	out, _, err := transform.Bytes(c.enc.NewEncoder(), text)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}
