package swf

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"uncompressed", []byte{'F', 'W', 'S', 0x06}, true},
		{"zlib", []byte{'C', 'W', 'S', 0x06}, true},
		{"lzma", []byte{'Z', 'W', 'S', 0x0D}, true},
		{"bad magic", []byte{'F', 'X', 'S', 0x06}, false},
		{"too short", []byte{'F', 'W'}, false},
		{"not swf at all", []byte{0x4D, 0x5A}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.in); got != tt.want {
				t.Errorf("Sniff(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadRECT(t *testing.T) {
	// nbits=8 (5 bits: 01000), then four 8-bit fields: 0, 10, 0, 20,
	// packed MSB-first and padded to a byte boundary.
	data := []byte{0b01000000, 0b00000000, 0b01010000, 0b00000000, 0b10100000}
	rect, consumed, err := readRECT(data)
	if err != nil {
		t.Fatalf("readRECT failed: %v", err)
	}
	if rect.NBits != 8 {
		t.Errorf("NBits = %d, want 8", rect.NBits)
	}
	if rect.XMin != 0 || rect.XMax != 10 || rect.YMin != 0 || rect.YMax != 20 {
		t.Errorf("rect = %+v, want XMin=0 XMax=10 YMin=0 YMax=20", rect)
	}
	// 5 bits header + 4*8 bits = 37 bits -> 5 bytes.
	if consumed != 5 {
		t.Errorf("consumed = %d, want 5", consumed)
	}
}

func TestReadTagsStopsAtEnd(t *testing.T) {
	// ShowFrame (type 1, length 0) then End (type 0, length 0).
	showFrame := uint16(TagShowFrame)<<6 | 0
	end := uint16(TagEnd)<<6 | 0
	data := []byte{
		byte(showFrame), byte(showFrame >> 8),
		byte(end), byte(end >> 8),
	}
	tags, err := readTags(data)
	if err != nil {
		t.Fatalf("readTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Type != TagShowFrame || tags[1].Type != TagEnd {
		t.Fatalf("readTags = %+v", tags)
	}
}

func TestReadTagsLongHeader(t *testing.T) {
	body := bytes.Repeat([]byte{0xAB}, 100)
	codeAndLength := uint16(TagDoABC)<<6 | 0x3F
	data := []byte{byte(codeAndLength), byte(codeAndLength >> 8)}
	data = append(data, 100, 0, 0, 0) // u32 length = 100
	data = append(data, body...)
	end := uint16(TagEnd) << 6
	data = append(data, byte(end), byte(end>>8))

	tags, err := readTags(data)
	if err != nil {
		t.Fatalf("readTags failed: %v", err)
	}
	if len(tags) != 2 || len(tags[0].Raw) != 100 || tags[0].Type != TagDoABC {
		t.Fatalf("long-header tag decoded as %+v", tags[0])
	}
}

func TestParseDoABC(t *testing.T) {
	raw := []byte{0x01, 0x00, 0x00, 0x00} // flags = LAZY_INITIALIZE
	raw = append(raw, 'm', 'o', 'd', 0)
	raw = append(raw, 0xDE, 0xAD, 0xBE, 0xEF)

	tag, err := ParseDoABC(raw)
	if err != nil {
		t.Fatalf("ParseDoABC failed: %v", err)
	}
	if tag.Flags != DoABCTagFlagsLazyInitialize {
		t.Errorf("Flags = %v, want LazyInitialize", tag.Flags)
	}
	if tag.Name != "mod" {
		t.Errorf("Name = %q, want %q", tag.Name, "mod")
	}
	if !bytes.Equal(tag.ABCBody, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("ABCBody = %v, want [0xDE 0xAD 0xBE 0xEF]", tag.ABCBody)
	}
}

func TestParseUncompressed(t *testing.T) {
	var frameBody bytes.Buffer
	frameBody.WriteByte(0b00000000)     // RECT: nbits=0, no fields -> 1 byte
	frameBody.Write([]byte{0x01, 0x00}) // frame rate
	frameBody.Write([]byte{0x01, 0x00}) // frame count
	end := uint16(TagEnd) << 6
	frameBody.Write([]byte{byte(end), byte(end >> 8)})

	header := []byte{'F', 'W', 'S', 0x06, 0, 0, 0, 0}
	data := append(header, frameBody.Bytes()...)

	file, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(file.Tags) != 1 || file.Tags[0].Type != TagEnd {
		t.Fatalf("Parse.Tags = %+v", file.Tags)
	}
}

func TestParseZlib(t *testing.T) {
	var body bytes.Buffer
	body.WriteByte(0b00000000) // RECT nbits=0
	body.Write([]byte{0x01, 0x00, 0x01, 0x00})
	end := uint16(TagEnd) << 6
	body.Write([]byte{byte(end), byte(end >> 8)})

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(body.Bytes())
	zw.Close()

	header := []byte{'C', 'W', 'S', 0x06, 0, 0, 0, 0}
	data := append(header, compressed.Bytes()...)

	file, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(zlib) failed: %v", err)
	}
	if len(file.Tags) != 1 || file.Tags[0].Type != TagEnd {
		t.Fatalf("Parse(zlib).Tags = %+v", file.Tags)
	}
}
