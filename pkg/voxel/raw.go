package voxel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// RawFormat identifies the element width of a raw label volume on disk.
// Values are stored little-endian in x-fastest order, matching Grid.Data.
type RawFormat int

const (
	RawUint8 RawFormat = iota
	RawUint16
	RawInt32
)

// ParseRawFormat converts a configuration string ("uint8", "uint16", "int32")
// into a RawFormat.
func ParseRawFormat(s string) (RawFormat, error) {
	switch s {
	case "uint8":
		return RawUint8, nil
	case "uint16":
		return RawUint16, nil
	case "int32":
		return RawInt32, nil
	}
	return 0, fmt.Errorf("unknown raw format %q (expected uint8, uint16 or int32)", s)
}

func (f RawFormat) elementSize() int {
	switch f {
	case RawUint8:
		return 1
	case RawUint16:
		return 2
	default:
		return 4
	}
}

// ReadRaw loads a raw label volume with the given dimensions from a file.
func ReadRaw(path string, sizeX, sizeY, sizeZ int, format RawFormat) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume file: %w", err)
	}
	defer file.Close()

	grid, err := DecodeRaw(bufio.NewReader(file), sizeX, sizeY, sizeZ, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return grid, nil
}

// DecodeRaw reads a raw label volume from a stream.
func DecodeRaw(r io.Reader, sizeX, sizeY, sizeZ int, format RawFormat) (*Grid, error) {
	grid, err := NewGrid(sizeX, sizeY, sizeZ)
	if err != nil {
		return nil, err
	}

	n := grid.NumVoxels()
	buf := make([]byte, n*format.elementSize())
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("short volume data: %w", err)
	}

	switch format {
	case RawUint8:
		for i := 0; i < n; i++ {
			grid.Data[i] = int32(buf[i])
		}
	case RawUint16:
		for i := 0; i < n; i++ {
			grid.Data[i] = int32(binary.LittleEndian.Uint16(buf[2*i:]))
		}
	case RawInt32:
		for i := 0; i < n; i++ {
			grid.Data[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
		}
	}
	return grid, nil
}

// WriteRaw saves a grid as a raw int32 little-endian volume.
func WriteRaw(path string, grid *Grid) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create volume file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	buf := make([]byte, 4)
	for _, v := range grid.Data {
		binary.LittleEndian.PutUint32(buf, uint32(v))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write volume data: %w", err)
		}
	}
	return w.Flush()
}
