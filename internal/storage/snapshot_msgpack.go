package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"studyclock/internal/core/timekeeper"
)

// Bump when snapshotPayload changes shape.
const snapshotSchemaVersion uint16 = 1

const snapshotFileName = "timer.msgpack"

// ErrNoSnapshot is returned when no usable snapshot exists.
var ErrNoSnapshot = errors.New("no timer snapshot")

type snapshotPayload struct {
	Schema uint16                    `msgpack:"schema"`
	State  timekeeper.PersistedState `msgpack:"state"`
}

// SnapshotPath resolves the snapshot file inside the per-user cache directory.
func SnapshotPath(appName string) (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(cacheDir, appName, snapshotFileName), nil
}

// SaveSnapshot writes state atomically to path.
func SaveSnapshot(path string, state timekeeper.PersistedState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	data, err := msgpack.Marshal(snapshotPayload{Schema: snapshotSchemaVersion, State: state})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a state written by SaveSnapshot. A missing file or an
// older schema yields ErrNoSnapshot.
func LoadSnapshot(path string) (timekeeper.PersistedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return timekeeper.PersistedState{}, ErrNoSnapshot
		}
		return timekeeper.PersistedState{}, fmt.Errorf("read snapshot: %w", err)
	}

	var payload snapshotPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return timekeeper.PersistedState{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return timekeeper.PersistedState{}, ErrNoSnapshot
	}
	return payload.State, nil
}
