package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists each thread as a JSON-lines file under a base directory.
// Thread ids are embedded in file names, so they must be plain identifiers;
// path separators are rejected.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the base directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(threadID string) (string, error) {
	if threadID == "" || strings.ContainsAny(threadID, `/\`) {
		return "", fmt.Errorf("history: invalid thread id %q", threadID)
	}
	return filepath.Join(s.dir, threadID+".jsonl"), nil
}

// Append implements Store.
func (s *FileStore) Append(_ context.Context, threadID string, msg Message) error {
	p, err := s.path(threadID)
	if err != nil {
		return err
	}

	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("history: marshal message: %w", err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("history: open thread file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("history: append message: %w", err)
	}
	return nil
}

// Messages implements Store.
func (s *FileStore) Messages(_ context.Context, threadID string) ([]Message, error) {
	p, err := s.path(threadID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("history: open thread file: %w", err)
	}
	defer f.Close()

	var msgs []Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("history: decode message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("history: read thread file: %w", err)
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context, threadID string) error {
	p, err := s.path(threadID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("history: remove thread file: %w", err)
	}
	return nil
}
