package storage

import "time"

type Option func(*Engine)

func WithDataDir(dir string) Option {
	return func(engine *Engine) {
		engine.dataDir = dir
	}
}

// WithDataFile sets the snapshot file used for persistence. Without a data
// file the engine is purely in-memory.
func WithDataFile(filename string) Option {
	return func(engine *Engine) {
		engine.dataFile = filename
	}
}

// WithTransactionSave enables saving after every write (default: true)
func WithTransactionSave(enabled bool) Option {
	return func(engine *Engine) {
		engine.transactionSave = enabled
	}
}

func WithBackgroundSave(interval time.Duration) Option {
	return func(engine *Engine) {
		engine.backgroundSave = true
		engine.saveInterval = interval
		engine.transactionSave = false // Background saves replace per-write saves
	}
}
