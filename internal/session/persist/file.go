package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// ErrSnapshotCorrupted indicates the session file exists but is unreadable.
var ErrSnapshotCorrupted = errors.New("session file corrupted")

// FileVersion is the current schema version of the session file.
const FileVersion = 1

// Lockfile tuning.
const (
	lockMaxRetries = 10
	lockRetryDelay = 100 * time.Millisecond
	staleLockAge   = 30 * time.Second
)

// fileDocument is the serialized form of the session file.
type fileDocument struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// File stores every session key in one JSON document. Writes go through a
// temp file and rename, and a lockfile coordinates processes sharing the file.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a File adapter for path. Nothing is read until Load.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the session file path.
func (f *File) Path() string {
	return f.path
}

// Load implements session.Persistence. A missing file yields no entries. A
// corrupted file yields ErrSnapshotCorrupted.
func (f *File) Load(_ context.Context, keys []string) (map[string][]byte, error) {
	unlock, err := f.acquireFileLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := doc.Entries[k]; ok {
			out[k] = []byte(v)
		}
	}
	return out, nil
}

// Save implements session.Persistence. Entries are merged into the existing
// document; a corrupted document is replaced.
func (f *File) Save(_ context.Context, entries map[string][]byte) error {
	unlock, err := f.acquireFileLock()
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		if !errors.Is(err, ErrSnapshotCorrupted) {
			return err
		}
		doc = fileDocument{Version: FileVersion, Entries: make(map[string]string)}
	}
	for k, v := range entries {
		doc.Entries[k] = string(v)
	}

	return f.write(doc)
}

// Close is a no-op; the file is not held open between calls.
func (f *File) Close() error {
	return nil
}

func (f *File) read() (fileDocument, error) {
	empty := fileDocument{Version: FileVersion, Entries: make(map[string]string)}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return fileDocument{}, fmt.Errorf("reading session file: %w", err)
	}

	var doc fileDocument
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return fileDocument{}, fmt.Errorf("%w: %w", ErrSnapshotCorrupted, unmarshalErr)
	}
	if doc.Version != FileVersion {
		return fileDocument{}, fmt.Errorf("%w: unsupported version %d (expected %d)",
			ErrSnapshotCorrupted, doc.Version, FileVersion)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	return doc, nil
}

func (f *File) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session file: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(f.path), 0o750); mkdirErr != nil {
		return fmt.Errorf("creating session directory: %w", mkdirErr)
	}

	tmpPath := f.path + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing session temp file: %w", writeErr)
	}
	if renameErr := os.Rename(tmpPath, f.path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming session temp file: %w", renameErr)
	}
	return nil
}

func (f *File) lockFilePath() string {
	return f.path + ".lock"
}

// acquireFileLock takes a cross-process advisory lockfile and returns its
// release func. Locks older than staleLockAge whose owner is gone are broken.
func (f *File) acquireFileLock() (func(), error) {
	lockPath := f.lockFilePath()

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	for range lockMaxRetries {
		lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = fmt.Fprintf(lf, "%d", os.Getpid())
			_ = lf.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}

		if removeStaleLock(lockPath, staleLockAge) {
			continue
		}
		time.Sleep(lockRetryDelay)
	}

	return nil, fmt.Errorf("could not acquire lock on %s after retries", lockPath)
}

// removeStaleLock reports whether a stale lock was removed.
func removeStaleLock(lockPath string, maxAge time.Duration) bool {
	info, statErr := os.Stat(lockPath)
	if statErr != nil || time.Since(info.ModTime()) <= maxAge {
		return false
	}
	if isLockHeldByLiveProcess(lockPath) {
		return false
	}
	_ = os.Remove(lockPath)
	return true
}

func isLockHeldByLiveProcess(lockPath string) bool {
	pidData, readErr := os.ReadFile(lockPath)
	if readErr != nil || len(pidData) == 0 {
		return false
	}
	var pid int
	if _, scanErr := fmt.Sscanf(string(pidData), "%d", &pid); scanErr != nil || pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}
