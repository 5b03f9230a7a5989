package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cfranzen/eightball/pkg/domain"
)

// SaveToFile saves all collections to a snapshot file. The snapshot is
// written to a temporary file and renamed so a failed save never corrupts
// the previous one.
func (se *Engine) SaveToFile(filename string) error {
	se.mu.RLock()
	snapshot := se.snapshotLocked()
	se.mu.RUnlock()
	return writeSnapshotFile(snapshot, filename)
}

// snapshotLocked builds a snapshot payload; callers must hold se.mu
func (se *Engine) snapshotLocked() *SnapshotData {
	snapshot := NewSnapshotData()
	for collName, collection := range se.collections {
		recs := make(map[string]domain.Record, len(collection.Records))
		for id, rec := range collection.Records {
			recs[id] = rec.Copy()
		}
		snapshot.Collections[collName] = recs
	}
	for collName, counter := range se.idCounters {
		snapshot.Counters[collName] = counter
	}
	return snapshot
}

// writeSnapshotFile encodes and writes a snapshot payload to disk
func writeSnapshotFile(snapshot *SnapshotData, filename string) error {
	msgpackData, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	// CompressBlock reports incompressible input as n == 0; store the raw
	// payload in that case and mark it in the header
	var flags uint8
	if n == 0 {
		flags = FlagUncompressed
		compressedData = msgpackData
	} else {
		compressedData = compressedData[:n]
	}

	tmpName := filename + ".tmp"
	file, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteHeader(file, flags); err != nil {
		file.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := file.Write(compressedData); err != nil {
		file.Close()
		return fmt.Errorf("failed to write compressed data: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return os.Rename(tmpName, filename)
}

// LoadFromFile replaces the engine's contents with the given snapshot file.
// A missing file is not an error; the engine starts empty.
func (se *Engine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	compressedData, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read compressed data: %w", err)
	}

	decompressedData := compressedData
	if header.Flags&FlagUncompressed == 0 {
		decompressedData, err = uncompressBlock(compressedData)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
	}

	var snapshot SnapshotData
	if err := msgpack.Unmarshal(decompressedData, &snapshot); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	se.collections = make(map[string]*domain.Collection, len(snapshot.Collections))
	se.idCounters = make(map[string]uint64, len(snapshot.Counters))

	for collName, recs := range snapshot.Collections {
		collection := domain.NewCollection(collName)
		for id, rec := range recs {
			collection.Records[id] = rec
		}
		se.collections[collName] = collection
	}
	for collName, counter := range snapshot.Counters {
		se.idCounters[collName] = counter
	}
	return nil
}

// uncompressBlock decompresses an lz4 block of unknown original size,
// growing the target buffer until it fits
func uncompressBlock(compressed []byte) ([]byte, error) {
	size := len(compressed) * 10
	if size == 0 {
		return nil, nil
	}
	for {
		decompressed := make([]byte, size)
		n, err := lz4.UncompressBlock(compressed, decompressed)
		if err == nil {
			return decompressed[:n], nil
		}
		if size > 1<<30 {
			return nil, err
		}
		size *= 2
	}
}

// DataFilePath returns the snapshot path for the configured data dir and
// file, defaulting to eightball_data.ebdb in the data dir
func DataFilePath(dataDir, dataFile string) string {
	if dataFile == "" {
		dataFile = "eightball_data" + FileExtension
	}
	if filepath.IsAbs(dataFile) {
		return dataFile
	}
	return filepath.Join(dataDir, dataFile)
}

// saveAfterWriteLocked persists a snapshot after a write when per-write
// saves are enabled. Callers must hold se.mu for writing so the snapshot
// includes the mutation and a failed save can be rolled back before any
// reader observes it.
func (se *Engine) saveAfterWriteLocked() error {
	if !se.transactionSave || se.dataFile == "" {
		return nil
	}
	if err := writeSnapshotFile(se.snapshotLocked(), se.dataFile); err != nil {
		return fmt.Errorf("failed to persist write: %w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (se *Engine) saveSnapshot() error {
	return se.SaveToFile(se.dataFile)
}
