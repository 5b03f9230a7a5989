package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cfranzen/eightball/pkg/domain"
)

const (
	// Magic bytes to identify the snapshot file format
	MagicBytes = "EBDB"
	// Current version
	FormatVersion = 1
	// File extension for snapshot files
	FileExtension = ".ebdb"

	// FlagUncompressed marks a payload stored without lz4 compression,
	// used when the payload is too small or dense to compress
	FlagUncompressed uint8 = 1
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "EBDB"
	Version  uint8   // Format version
	Flags    uint8   // Reserved for future use
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:   [4]byte{'E', 'B', 'D', 'B'},
		Version: FormatVersion,
		Flags:   flags,
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// SnapshotData is the on-disk structure of a snapshot payload
type SnapshotData struct {
	Collections map[string]map[string]domain.Record `msgpack:"collections"`
	Counters    map[string]uint64                   `msgpack:"counters"`
}

// NewSnapshotData creates a new empty snapshot payload
func NewSnapshotData() *SnapshotData {
	return &SnapshotData{
		Collections: make(map[string]map[string]domain.Record),
		Counters:    make(map[string]uint64),
	}
}
