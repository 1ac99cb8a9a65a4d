package testutils

import (
	"encoding/binary"
	"unicode/utf16"
)

// SMDHTitle holds the strings written into one SMDH title record
type SMDHTitle struct {
	Short     string
	Long      string
	Publisher string
}

const smdhSize = 0x36C0

// BuildSMDH returns an SMDH block with the given title records, indexed by
// language. icon, when non-nil, is copied into the large icon area.
func BuildSMDH(titles map[int]SMDHTitle, icon []byte) []byte {
	buf := make([]byte, smdhSize)
	copy(buf, "SMDH")
	binary.LittleEndian.PutUint16(buf[4:], 0)
	for lang, title := range titles {
		rec := buf[0x8+lang*0x200:]
		putUTF16(rec[:0x80], title.Short)
		putUTF16(rec[0x80:0x180], title.Long)
		putUTF16(rec[0x180:0x200], title.Publisher)
	}
	if icon != nil {
		copy(buf[0x24C0:0x24C0+0x1200], icon)
	}
	return buf
}

// putUTF16 writes s as UTF-16LE, leaving at least one NUL unit
func putUTF16(field []byte, s string) {
	units := utf16.Encode([]rune(s))
	max := len(field)/2 - 1
	if len(units) > max {
		units = units[:max]
	}
	for i, u := range units {
		binary.LittleEndian.PutUint16(field[i*2:], u)
	}
}

// CIA describes a synthetic install archive
type CIA struct {
	TitleID      uint64
	Version      uint16
	ContentSizes []uint64
	// SMDH, when set, is stored at the end of the meta section
	SMDH []byte
	// SignatureType selects the TMD signature block; zero means RSA-2048
	SignatureType uint32
}

func align64(n int) int {
	return (n + 63) &^ 63
}

// Bytes encodes the archive. Content sections are declared in the title
// metadata only, so the result stays small.
func (c CIA) Bytes() []byte {
	const (
		headerSize = 0x2020
		certSize   = 0xA00
		ticketSize = 0x350
	)

	sigType := c.SignatureType
	if sigType == 0 {
		sigType = 0x010004
	}
	sigLen := 0x100 + 0x3C
	switch sigType {
	case 0x010000, 0x010003:
		sigLen = 0x200 + 0x3C
	case 0x010002, 0x010005:
		sigLen = 0x3C + 0x40
	}

	contents := c.ContentSizes
	if len(contents) == 0 {
		contents = []uint64{0x1000}
	}
	bodyStart := 4 + sigLen
	chunks := bodyStart + 0xC4 + 64*0x24
	tmd := make([]byte, chunks+len(contents)*0x30)
	be := binary.BigEndian
	be.PutUint32(tmd, sigType)
	body := tmd[bodyStart:]
	be.PutUint64(body[0x4C:], c.TitleID)
	be.PutUint16(body[0x9C:], c.Version)
	be.PutUint16(body[0x9E:], uint16(len(contents)))
	for i, size := range contents {
		rec := tmd[chunks+i*0x30:]
		be.PutUint32(rec[0x00:], uint32(i))
		be.PutUint16(rec[0x04:], uint16(i))
		be.PutUint64(rec[0x08:], size)
	}

	var meta []byte
	if c.SMDH != nil {
		meta = make([]byte, 0x400+len(c.SMDH))
		copy(meta[0x400:], c.SMDH)
	}

	tmdOffset := align64(headerSize) + align64(certSize) + align64(ticketSize)
	metaOffset := tmdOffset + align64(len(tmd))
	out := make([]byte, metaOffset+len(meta))

	le := binary.LittleEndian
	le.PutUint32(out[0x00:], headerSize)
	le.PutUint32(out[0x08:], certSize)
	le.PutUint32(out[0x0C:], ticketSize)
	le.PutUint32(out[0x10:], uint32(len(tmd)))
	le.PutUint32(out[0x14:], uint32(len(meta)))
	copy(out[tmdOffset:], tmd)
	copy(out[metaOffset:], meta)
	return out
}

// TiledIcon returns 48x48 tiled RGB565 pixel data filled with one color
func TiledIcon(rgb565 uint16) []byte {
	buf := make([]byte, 48*48*2)
	for i := 0; i < 48*48; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], rgb565)
	}
	return buf
}
