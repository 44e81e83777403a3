package voxel

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// TestParseRawFormat verifies the format name mapping
func TestParseRawFormat(t *testing.T) {
	cases := []struct {
		name string
		want RawFormat
	}{
		{"uint8", RawUint8},
		{"uint16", RawUint16},
		{"int32", RawInt32},
	}
	for _, c := range cases {
		got, err := ParseRawFormat(c.name)
		if err != nil {
			t.Errorf("ParseRawFormat(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("ParseRawFormat(%q): expected %v, got %v", c.name, c.want, got)
		}
	}

	for _, bad := range []string{"", "float32", "Uint8"} {
		if _, err := ParseRawFormat(bad); err == nil {
			t.Errorf("Expected error for format %q", bad)
		}
	}
}

// TestDecodeRaw verifies little-endian decoding for every element width
func TestDecodeRaw(t *testing.T) {
	labels := []int32{0, 1, 255, 7, 42, 0, 3, 100}

	var u8 bytes.Buffer
	for _, v := range labels {
		u8.WriteByte(byte(v))
	}
	var u16 bytes.Buffer
	for _, v := range labels {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		u16.Write(b[:])
	}
	var i32 bytes.Buffer
	for _, v := range labels {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		i32.Write(b[:])
	}

	cases := []struct {
		name   string
		buf    *bytes.Buffer
		format RawFormat
	}{
		{"uint8", &u8, RawUint8},
		{"uint16", &u16, RawUint16},
		{"int32", &i32, RawInt32},
	}
	for _, c := range cases {
		g, err := DecodeRaw(c.buf, 2, 2, 2, c.format)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", c.name, err)
		}
		for i, want := range labels {
			if g.Data[i] != want {
				t.Errorf("%s: voxel %d: expected %d, got %d", c.name, i, want, g.Data[i])
			}
		}
	}
}

// TestDecodeRawShortData verifies that truncated volumes are rejected
func TestDecodeRawShortData(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 7)) // one byte short of 2x2x2 uint8
	if _, err := DecodeRaw(buf, 2, 2, 2, RawUint8); err == nil {
		t.Error("Expected error for truncated volume data")
	}
}

// TestRawRoundTrip verifies that a written volume reads back identically
func TestRawRoundTrip(t *testing.T) {
	g, err := NewGrid(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Data {
		g.Data[i] = int32(i * 31 % 7)
	}

	path := filepath.Join(t.TempDir(), "labels.raw")
	if err := WriteRaw(path, g); err != nil {
		t.Fatalf("WriteRaw failed: %v", err)
	}

	got, err := ReadRaw(path, 3, 2, 2, RawInt32)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	for i := range g.Data {
		if got.Data[i] != g.Data[i] {
			t.Errorf("Voxel %d: expected %d, got %d", i, g.Data[i], got.Data[i])
		}
	}
}

// TestReadRawMissingFile verifies the error path for absent files
func TestReadRawMissingFile(t *testing.T) {
	if _, err := ReadRaw(filepath.Join(os.TempDir(), "does-not-exist.raw"), 2, 2, 2, RawUint8); err == nil {
		t.Error("Expected error for missing file")
	}
}
