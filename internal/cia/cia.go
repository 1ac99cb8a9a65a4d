// Package cia reads the header and title metadata of CIA install archives
// and estimates how much space installing one would take.
package cia

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Media is an install destination
type Media int

const (
	MediaSD Media = iota
	MediaNAND
)

func (m Media) String() string {
	switch m {
	case MediaSD:
		return "sd"
	case MediaNAND:
		return "nand"
	default:
		return fmt.Sprintf("media(%d)", int(m))
	}
}

// blockSize returns the allocation unit used to round content sizes
func (m Media) blockSize() uint64 {
	if m == MediaNAND {
		return 0x4000
	}
	return 0x8000
}

// HeaderSize is the fixed size of a CIA header including its content index
const HeaderSize = 0x2020

const (
	alignment   = 64
	maxContents = 0x1000

	tmdBodySize       = 0xC4
	tmdInfoRecords    = 64
	tmdInfoRecordSize = 0x24
	tmdChunkSize      = 0x30

	tmdTitleIDOffset      = 0x4C
	tmdTitleVersionOffset = 0x9C
	tmdContentCountOffset = 0x9E

	maxTMDSize = 4 + 0x200 + 0x3C + tmdBodySize + tmdInfoRecords*tmdInfoRecordSize + maxContents*tmdChunkSize
)

// TitleID high words
const (
	CategoryApplication = 0x00040000
	CategoryDLC         = 0x0004008C
	CategorySystem      = 0x00040010
)

var (
	ErrBadHeader        = errors.New("cia: bad header")
	ErrBadTMD           = errors.New("cia: bad title metadata")
	ErrUnsupportedMedia = errors.New("cia: title cannot be installed to media")
)

// Header is the fixed part of a CIA header
type Header struct {
	HeaderSize  uint32
	Type        uint16
	Version     uint16
	CertSize    uint32
	TicketSize  uint32
	TMDSize     uint32
	MetaSize    uint32
	ContentSize uint64
}

// Content is one content chunk record of the title metadata
type Content struct {
	ID    uint32
	Index uint16
	Type  uint16
	Size  uint64
}

// TitleEntry is what an inspection reports about a package
type TitleEntry struct {
	TitleID uint64
	Version uint16
	Size    uint64
}

// Category returns the high word of the title id
func (e TitleEntry) Category() uint32 {
	return uint32(e.TitleID >> 32)
}

func align(n uint64) uint64 {
	return (n + alignment - 1) &^ (alignment - 1)
}

// TMDOffset returns where the title metadata starts in the archive
func (h Header) TMDOffset() uint64 {
	return align(uint64(h.HeaderSize)) + align(uint64(h.CertSize)) + align(uint64(h.TicketSize))
}

// ReadHeader reads and validates the CIA header at the start of r
func ReadHeader(r io.ReaderAt) (Header, error) {
	var buf [0x20]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	le := binary.LittleEndian
	h := Header{
		HeaderSize:  le.Uint32(buf[0x00:]),
		Type:        le.Uint16(buf[0x04:]),
		Version:     le.Uint16(buf[0x06:]),
		CertSize:    le.Uint32(buf[0x08:]),
		TicketSize:  le.Uint32(buf[0x0C:]),
		TMDSize:     le.Uint32(buf[0x10:]),
		MetaSize:    le.Uint32(buf[0x14:]),
		ContentSize: le.Uint64(buf[0x18:]),
	}
	if h.HeaderSize != HeaderSize {
		return Header{}, fmt.Errorf("%w: header size %#x", ErrBadHeader, h.HeaderSize)
	}
	if h.TMDSize == 0 || h.TMDSize > maxTMDSize {
		return Header{}, fmt.Errorf("%w: title metadata size %#x", ErrBadHeader, h.TMDSize)
	}
	return h, nil
}

// signatureLength returns the signature and padding length for a TMD
// signature type
func signatureLength(sigType uint32) (int, bool) {
	switch sigType {
	case 0x010000, 0x010003: // RSA-4096
		return 0x200 + 0x3C, true
	case 0x010001, 0x010004: // RSA-2048
		return 0x100 + 0x3C, true
	case 0x010002, 0x010005: // ECDSA
		return 0x3C + 0x40, true
	}
	return 0, false
}

// TMD is the decoded title metadata
type TMD struct {
	TitleID  uint64
	Version  uint16
	Contents []Content
}

// ReadTMD reads the title metadata described by h
func ReadTMD(r io.ReaderAt, h Header) (*TMD, error) {
	data := make([]byte, h.TMDSize)
	if _, err := r.ReadAt(data, int64(h.TMDOffset())); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTMD, err)
	}

	be := binary.BigEndian
	sigLen, ok := signatureLength(be.Uint32(data))
	if !ok {
		return nil, fmt.Errorf("%w: signature type %#x", ErrBadTMD, be.Uint32(data))
	}
	bodyStart := 4 + sigLen
	if len(data) < bodyStart+tmdBodySize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrBadTMD, len(data))
	}
	body := data[bodyStart:]

	t := &TMD{
		TitleID: be.Uint64(body[tmdTitleIDOffset:]),
		Version: be.Uint16(body[tmdTitleVersionOffset:]),
	}
	count := int(be.Uint16(body[tmdContentCountOffset:]))
	if count == 0 || count > maxContents {
		return nil, fmt.Errorf("%w: %d contents", ErrBadTMD, count)
	}

	chunks := bodyStart + tmdBodySize + tmdInfoRecords*tmdInfoRecordSize
	if len(data) < chunks+count*tmdChunkSize {
		return nil, fmt.Errorf("%w: %d content records do not fit", ErrBadTMD, count)
	}
	t.Contents = make([]Content, count)
	for i := range t.Contents {
		rec := data[chunks+i*tmdChunkSize:]
		t.Contents[i] = Content{
			ID:    be.Uint32(rec[0x00:]),
			Index: be.Uint16(rec[0x04:]),
			Type:  be.Uint16(rec[0x06:]),
			Size:  be.Uint64(rec[0x08:]),
		}
	}
	return t, nil
}

// Inspector reads install information from CIA archives
type Inspector struct{}

// Inspect returns the title id, version and estimated installed size of the
// archive in r for media.
func (Inspector) Inspect(media Media, r io.ReaderAt) (TitleEntry, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return TitleEntry{}, err
	}
	t, err := ReadTMD(r, h)
	if err != nil {
		return TitleEntry{}, err
	}

	entry := TitleEntry{TitleID: t.TitleID, Version: t.Version}
	if media == MediaNAND && entry.Category() == CategoryDLC {
		return TitleEntry{}, fmt.Errorf("%w: dlc to %s", ErrUnsupportedMedia, media)
	}

	block := media.blockSize()
	for _, c := range t.Contents {
		if c.Size > math.MaxUint64-block {
			return TitleEntry{}, fmt.Errorf("%w: content %d size %#x", ErrBadTMD, c.Index, c.Size)
		}
		rounded := (c.Size + block - 1) / block * block
		if entry.Size > math.MaxUint64-rounded {
			return TitleEntry{}, fmt.Errorf("%w: installed size overflows", ErrBadTMD)
		}
		entry.Size += rounded
	}
	return entry, nil
}
