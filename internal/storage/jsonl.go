package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"yieldDesk/internal/model"
)

// JsonlStorage writes TVL snapshots to a JSONL file, or to stdout when path is "-".
type JsonlStorage struct {
	path   string
	stdout io.Writer
	mu     sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path, stdout: os.Stdout}
}

// PutSnapshotBatch appends a batch of snapshots as JSON lines.
func (s *JsonlStorage) PutSnapshotBatch(snapshots []model.TVLSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out io.Writer
	if s.path == "" || s.path == "-" {
		out = s.stdout
	} else {
		dir := filepath.Dir(s.path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	writer := bufio.NewWriter(out)
	for _, snap := range snapshots {
		line, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// ReadPoolsJsonl loads pools from a JSONL file, one pool per line. Blank lines are skipped.
func ReadPoolsJsonl(path string) ([]model.Pool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pools file: %w", err)
	}
	defer file.Close()

	var pools []model.Pool
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var pool model.Pool
		if err := json.Unmarshal(raw, &pool); err != nil {
			return nil, fmt.Errorf("pools file line %d: %w", line, err)
		}
		if err := pool.Validate(); err != nil {
			return nil, fmt.Errorf("pools file line %d: %w", line, err)
		}
		if pool.ID == "" {
			pool.ID = fmt.Sprintf("line-%d", line)
		}
		pools = append(pools, pool)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pools file: %w", err)
	}
	return pools, nil
}
