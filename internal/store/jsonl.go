package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"yqhp/chain-engine/pkg/types"
)

// FileHistorySink appends finished results to a JSON-lines file, one result
// per line. It is safe for concurrent use.
type FileHistorySink struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewFileHistorySink opens (or creates) the history file in append mode.
func NewFileHistorySink(path string) (*FileHistorySink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file '%s': %w", path, err)
	}
	return &FileHistorySink{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Append writes one result as a JSON line.
func (s *FileHistorySink) Append(result *types.ExecutionResult) error {
	if result == nil {
		return fmt.Errorf("cannot record a nil result")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return fmt.Errorf("history sink is closed")
	}
	return s.enc.Encode(result)
}

// Close flushes and closes the underlying file.
func (s *FileHistorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.enc = nil
	return err
}

// TeeHistory fans one result out to several history sinks. The first error
// is returned after every sink has been offered the result.
type TeeHistory []interface {
	Append(result *types.ExecutionResult) error
}

// Append offers the result to every sink.
func (t TeeHistory) Append(result *types.ExecutionResult) error {
	var firstErr error
	for _, sink := range t {
		if err := sink.Append(result); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
