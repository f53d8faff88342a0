// Package encoding provides text decoding for PLY header lines.
package encoding

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// HeaderTextToUTF8 converts free text from a header line to a UTF-8 string.
// Valid UTF-8 passes through; anything else was written by a legacy tool and
// is decoded as Windows-1252.
func HeaderTextToUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return Windows1252ToUTF8(data)
}

// Windows1252ToUTF8 converts Windows-1252 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Windows1252ToUTF8(data []byte) string {
	decoder := charmap.Windows1252.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}
