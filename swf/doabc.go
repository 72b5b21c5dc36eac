package swf

import (
	"bytes"
	"fmt"
)

// ErrNoABC is returned by FirstDoABC when a file contains no DoABC (or
// DoAction, which this package does not treat as a module source) tag.
var ErrNoABC = fmt.Errorf("swf: no DoABC tag found")

// ParseDoABC decodes a DoABC tag body: a u32 flags field, a
// null-terminated name, and the remaining bytes as the ABC file.
func ParseDoABC(raw []byte) (DoABCTag, error) {
	if len(raw) < 4 {
		return DoABCTag{}, fmt.Errorf("swf: truncated DoABC tag")
	}
	flags := DoABCTagFlags(uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24)
	rest := raw[4:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return DoABCTag{}, fmt.Errorf("swf: DoABC name is not null-terminated")
	}
	name := string(rest[:nul])
	body := rest[nul+1:]
	return DoABCTag{Flags: flags, Name: name, ABCBody: body}, nil
}

// DoABCTags returns every DoABC tag in the file, parsed.
func (f *File) DoABCTags() ([]DoABCTag, error) {
	var out []DoABCTag
	for _, tag := range f.Tags {
		if tag.Type != TagDoABC {
			continue
		}
		parsed, err := ParseDoABC(tag.Raw)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// FirstDoABC returns the first DoABC tag's parsed body, the common case
// for a file with a single embedded ABC module (§4.B's entry point).
func (f *File) FirstDoABC() (DoABCTag, error) {
	for _, tag := range f.Tags {
		if tag.Type == TagDoABC {
			return ParseDoABC(tag.Raw)
		}
	}
	return DoABCTag{}, ErrNoABC
}
