// Package eventlog exports game event logs as zstd-compressed JSON lines.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// Writer appends JSON values, one per line, to a zstd stream.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends v as one JSON line.
func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("eventlog: write on closed writer")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes and closes the stream. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.w, w.enc, w.f = nil, nil, nil
	return err
}

// PathFor returns where a game's log lives under dir.
func PathFor(dir, gameID string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.jsonl.zst", gameID))
}

// WriteGame writes every event of a finished game and returns the file path.
func WriteGame(dir, gameID string, events []gpuwars.GameEvent) (string, error) {
	path := PathFor(dir, gameID)
	w, err := Create(path)
	if err != nil {
		return "", fmt.Errorf("create event log: %w", err)
	}
	for _, ev := range events {
		if err := w.Write(ev); err != nil {
			_ = w.Close()
			return "", fmt.Errorf("write event %d: %w", ev.Seq, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close event log: %w", err)
	}
	return path, nil
}

// ReadGame decodes a log written by WriteGame.
func ReadGame(path string) ([]gpuwars.GameEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var events []gpuwars.GameEvent
	jd := json.NewDecoder(dec)
	for {
		var ev gpuwars.GameEvent
		if err := jd.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, ev)
	}
}
