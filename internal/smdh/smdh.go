// Package smdh decodes the SMDH resource block appended to installable
// packages: localized titles, the publisher and the two icons.
package smdh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Layout of an SMDH block. All integers are little endian.
const (
	Size = 0x36C0

	magicOffset     = 0x0000
	versionOffset   = 0x0004
	titlesOffset    = 0x0008
	titleSize       = 0x200
	settingsOffset  = 0x2008
	SettingsSize    = 0x30
	smallIconOffset = 0x2040
	SmallIconSize   = 0x480
	largeIconOffset = 0x24C0
	LargeIconSize   = 0x1200

	shortDescriptionSize = 0x80
	longDescriptionSize  = 0x100
	publisherSize        = 0x80
)

// Icon dimensions in pixels
const (
	SmallIconDim = 24
	LargeIconDim = 48
)

// Magic opens every SMDH block
var Magic = [4]byte{'S', 'M', 'D', 'H'}

var (
	ErrBadMagic  = errors.New("smdh: bad magic")
	ErrTruncated = errors.New("smdh: truncated block")
)

// Title is one decoded title record
type Title struct {
	ShortDescription string
	LongDescription  string
	Publisher        string
}

// SMDH is a validated block. Title strings are decoded on demand.
type SMDH struct {
	Version uint16

	raw [Size]byte
}

// Parse validates data and returns the block it holds. data may be longer
// than Size; only the first Size bytes are used.
func Parse(data []byte) (*SMDH, error) {
	if len(data) < Size {
		return nil, fmt.Errorf("%w: %d of %d bytes", ErrTruncated, len(data), Size)
	}
	if !bytes.Equal(data[magicOffset:magicOffset+4], Magic[:]) {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, data[magicOffset:magicOffset+4])
	}
	s := &SMDH{Version: binary.LittleEndian.Uint16(data[versionOffset:])}
	copy(s.raw[:], data[:Size])
	return s, nil
}

// Title decodes the record for lang. Selectors outside the record table
// fall back to English.
func (s *SMDH) Title(lang Language) Title {
	if !lang.Valid() {
		lang = English
	}
	rec := s.raw[titlesOffset+int(lang)*titleSize:][:titleSize]
	return Title{
		ShortDescription: decodeUTF16(rec[:shortDescriptionSize]),
		LongDescription:  decodeUTF16(rec[shortDescriptionSize : shortDescriptionSize+longDescriptionSize]),
		Publisher:        decodeUTF16(rec[shortDescriptionSize+longDescriptionSize:]),
	}
}

// LargeIcon returns the 48x48 tiled RGB565 icon
func (s *SMDH) LargeIcon() []byte {
	return s.raw[largeIconOffset : largeIconOffset+LargeIconSize]
}

// decodeUTF16 converts a NUL-terminated UTF-16LE field to UTF-8
func decodeUTF16(field []byte) string {
	end := len(field) &^ 1
	for i := 0; i+1 < len(field); i += 2 {
		if field[i] == 0 && field[i+1] == 0 {
			end = i
			break
		}
	}
	if end == 0 {
		return ""
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(field[:end])
	if err != nil {
		return ""
	}
	return string(out)
}
