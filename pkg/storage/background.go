package storage

import (
	"log"
	"time"
)

// StartBackgroundWorkers starts the periodic snapshot worker if background
// saves are enabled
func (se *Engine) StartBackgroundWorkers() {
	if !se.backgroundSave || se.dataFile == "" {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		ticker := time.NewTicker(se.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := se.saveSnapshot(); err != nil {
					log.Printf("ERROR: Background save failed: %v", err)
				}
			case <-se.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers and waits for them to exit
func (se *Engine) StopBackgroundWorkers() {
	select {
	case <-se.stopChan:
		// Channel already closed, do nothing
	default:
		close(se.stopChan)
	}
	se.backgroundWg.Wait()
}
