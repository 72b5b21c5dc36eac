package swf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// RECT is an SWF RECT record: four bit-packed signed values (in twips)
// sharing a common field width. Only its byte length matters here since
// no rendering is performed.
type RECT struct {
	NBits                  uint
	XMin, XMax, YMin, YMax int32
}

// bitReader reads big-endian, MSB-first bitfields out of a byte slice,
// the packing SWF uses for RECT and a handful of other records.
type bitReader struct {
	buf    []byte
	bitPos uint
}

func (r *bitReader) readBits(n uint) (uint32, error) {
	var v uint32
	for i := uint(0); i < n; i++ {
		byteIdx := r.bitPos / 8
		if int(byteIdx) >= len(r.buf) {
			return 0, fmt.Errorf("swf: rect bitfield runs past buffer: %w", io.ErrUnexpectedEOF)
		}
		bit := (r.buf[byteIdx] >> (7 - r.bitPos%8)) & 1
		v = v<<1 | uint32(bit)
		r.bitPos++
	}
	return v, nil
}

func (r *bitReader) bytesConsumed() int {
	if r.bitPos%8 == 0 {
		return int(r.bitPos / 8)
	}
	return int(r.bitPos/8) + 1
}

func signExtend(v uint32, bits uint) int32 {
	if bits == 0 {
		return 0
	}
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// readRECT parses a RECT starting at data[0] and reports how many bytes
// it consumed.
func readRECT(data []byte) (RECT, int, error) {
	br := &bitReader{buf: data}
	nbits, err := br.readBits(5)
	if err != nil {
		return RECT{}, 0, err
	}
	var fields [4]int32
	for i := range fields {
		raw, err := br.readBits(uint(nbits))
		if err != nil {
			return RECT{}, 0, err
		}
		fields[i] = signExtend(raw, uint(nbits))
	}
	return RECT{
		NBits: uint(nbits),
		XMin:  fields[0],
		XMax:  fields[1],
		YMin:  fields[2],
		YMax:  fields[3],
	}, br.bytesConsumed(), nil
}

// Sniff reports whether data begins with a recognized SWF signature byte
// followed by the "WS" magic, without fully parsing it.
func Sniff(data []byte) bool {
	if len(data) < 3 {
		return false
	}
	switch Signature(data[0]) {
	case SignatureUncompressed, SignatureZlib, SignatureLZMA:
		return data[1] == 'W' && data[2] == 'S'
	default:
		return false
	}
}

// Parse reads the SWF header, decompresses the body per its signature,
// and returns the frame header plus the raw tag list.
func Parse(data []byte) (*File, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("swf: file shorter than header: %w", io.ErrUnexpectedEOF)
	}
	sig := Signature(data[0])
	if data[1] != 'W' || data[2] != 'S' {
		return nil, fmt.Errorf("swf: bad magic %q", data[1:3])
	}
	// data[3] is the SWF version; data[4:8] is the little-endian file
	// length, both uninteresting once we have decompressed bytes in hand.
	body, err := decompress(sig, data[8:])
	if err != nil {
		return nil, err
	}
	rect, consumed, err := readRECT(body)
	if err != nil {
		return nil, err
	}
	body = body[consumed:]
	if len(body) < 4 {
		return nil, fmt.Errorf("swf: truncated frame header: %w", io.ErrUnexpectedEOF)
	}
	frameRate := uint16(body[0]) | uint16(body[1])<<8
	frameCount := uint16(body[2]) | uint16(body[3])<<8
	body = body[4:]
	tags, err := readTags(body)
	if err != nil {
		return nil, err
	}
	return &File{
		FrameSize:  rect,
		FrameRate:  frameRate,
		FrameCount: frameCount,
		Tags:       tags,
	}, nil
}

// decompress returns the post-header SWF body as an uncompressed byte
// slice, per the signature byte's compression scheme.
func decompress(sig Signature, rest []byte) ([]byte, error) {
	switch sig {
	case SignatureUncompressed:
		return rest, nil
	case SignatureZlib:
		zr, err := zlib.NewReader(bytes.NewReader(rest))
		if err != nil {
			return nil, fmt.Errorf("swf: zlib: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case SignatureLZMA:
		return decompressLZMA(rest)
	default:
		return nil, fmt.Errorf("swf: unrecognized signature byte %#x", byte(sig))
	}
}

// decompressLZMA reconstructs the classic 13-byte .lzma stream header
// (5 property bytes plus an 8-byte "unknown size" marker) that
// ulikunitz/xz/lzma expects, from the 5 property bytes SWF stores after
// its own 4-byte compressed-length field. Mirrors the byte-juggling in
// original_source/avm2/swf/parser.py's decompress.
func decompressLZMA(rest []byte) ([]byte, error) {
	if len(rest) < 9 {
		return nil, fmt.Errorf("swf: lzma stream too short: %w", io.ErrUnexpectedEOF)
	}
	props := rest[4:9] // rest[:4] is the compressed-length field, unused here
	unknownSize := bytes.Repeat([]byte{0xFF}, 8)
	header := append(append([]byte{}, props...), unknownSize...)
	stream := append(header, rest[9:]...)
	lr, err := lzma.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, fmt.Errorf("swf: lzma: %w", err)
	}
	return io.ReadAll(lr)
}

// readTags splits a decompressed tag stream into individual Tags,
// stopping after (and including) the END tag.
func readTags(data []byte) ([]Tag, error) {
	var tags []Tag
	pos := 0
	for {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("swf: truncated tag header: %w", io.ErrUnexpectedEOF)
		}
		codeAndLength := uint16(data[pos]) | uint16(data[pos+1])<<8
		pos += 2
		length := int(codeAndLength & 0x3F)
		tagType := TagType(codeAndLength >> 6)
		if length == 0x3F {
			if pos+4 > len(data) {
				return nil, fmt.Errorf("swf: truncated long tag header: %w", io.ErrUnexpectedEOF)
			}
			length = int(uint32(data[pos]) | uint32(data[pos+1])<<8 | uint32(data[pos+2])<<16 | uint32(data[pos+3])<<24)
			pos += 4
		}
		if pos+length > len(data) {
			return nil, fmt.Errorf("swf: tag body runs past end of stream: %w", io.ErrUnexpectedEOF)
		}
		raw := data[pos : pos+length]
		pos += length
		tags = append(tags, Tag{Type: tagType, Raw: raw})
		if tagType == TagEnd {
			break
		}
	}
	return tags, nil
}
