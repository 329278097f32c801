package irc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultFallbackEncoding is the codec applied to inbound free-text bytes
// that are not valid UTF-8, matching IRC's lack of any mandated charset.
var DefaultFallbackEncoding encoding.Encoding = charmap.ISO8859_15

// decoder converts the raw bytes of an inbound parameter into a Go string,
// preferring UTF-8 and falling back to a configured legacy codec otherwise.
type decoder struct {
	fallback     encoding.Encoding
	fallbackName string
}

func newDecoder() *decoder {
	return &decoder{fallback: DefaultFallbackEncoding, fallbackName: "ISO-8859-15"}
}

// SetFallback installs name as the codec used for non-UTF-8 bytes. Unknown
// names are rejected and the previous codec is kept; the caller's logger
// (if any) should report the rejection.
func (d *decoder) SetFallback(name string) error {
	enc, ok := encodingByName[name]
	if !ok {
		return errUnknownEncoding(name)
	}
	d.fallback = enc
	d.fallbackName = name
	return nil
}

// FallbackName reports the currently configured fallback codec's name.
func (d *decoder) FallbackName() string { return d.fallbackName }

// Decode returns b as a string, decoding it with the fallback codec if b
// is not valid UTF-8.
func (d *decoder) Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := d.fallback.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

var encodingByName = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.ISO8859_1,
	"ISO-8859-15":  charmap.ISO8859_15,
	"CP1252":       charmap.Windows1252,
	"WINDOWS-1252": charmap.Windows1252,
}

type errUnknownEncoding string

func (e errUnknownEncoding) Error() string { return "irc: unknown fallback encoding " + string(e) }
