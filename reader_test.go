package avm2

import "testing"

func TestReaderU30(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  uint32
	}{
		{"zero", []byte{0x00}, 0},
		{"one byte", []byte{0x7F}, 0x7F},
		{"two bytes", []byte{0x80, 0x01}, 0x80},
		{"three bytes", []byte{0xFF, 0xFF, 0x03}, 0xFFFF},
		{"five bytes max", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, 0xFFFFFFFF},
		{"five bytes high bit set", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.in)
			got, err := r.U30()
			if err != nil {
				t.Fatalf("U30() failed: %v", err)
			}
			if got != tt.out {
				t.Errorf("U30() = %#x, want %#x", got, tt.out)
			}
		})
	}
}

func TestReaderS32SignExtension(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  int32
	}{
		{"positive one byte", []byte{0x01}, 1},
		{"negative one byte", []byte{0x7F}, -1},
		{"negative two bytes", []byte{0xFF, 0x7F}, -1},
		{"min int32 five bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x08}, -2147483648},
		{"max positive five bytes", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}, 2147483647},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.in)
			got, err := r.S32()
			if err != nil {
				t.Fatalf("S32() failed: %v", err)
			}
			if got != tt.out {
				t.Errorf("S32() = %d, want %d", got, tt.out)
			}
		})
	}
}

func TestReaderS24SignExtension(t *testing.T) {
	r := NewReader([]byte{0xFE, 0xFF, 0xFF})
	got, err := r.S24()
	if err != nil {
		t.Fatalf("S24() failed: %v", err)
	}
	if got != -2 {
		t.Errorf("S24() = %d, want -2", got)
	}
}

func TestReaderD64(t *testing.T) {
	// 1.5 in little-endian IEEE-754.
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x3F})
	got, err := r.D64()
	if err != nil {
		t.Fatalf("D64() failed: %v", err)
	}
	if got != 1.5 {
		t.Errorf("D64() = %v, want 1.5", got)
	}
}

func TestReaderStringRoundTrip(t *testing.T) {
	r := NewReader([]byte{0x05, 'h', 'e', 'l', 'l', 'o'})
	got, err := r.String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("String() = %q, want %q", got, "hello")
	}
}

func TestReaderEndOfBuffer(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.U32(); err == nil {
		t.Fatal("U32() on a 1-byte buffer should fail")
	}
}
