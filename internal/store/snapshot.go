/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package store

import (
    "encoding/json"
    "os"
    "path/filepath"

    "github.com/HamedShams/bug-pulse/internal/domain"
    "github.com/rs/zerolog"
)

// SnapshotStore persists the dashboard snapshot as one flat JSON file. Each
// write fully replaces the previous snapshot; there is no history.
type SnapshotStore struct {
    path string
    log  zerolog.Logger
}

// NewSnapshotStore resolves a relative path against the binary's own
// directory, so the artifact lands next to the program the way the dashboard
// expects, regardless of the working directory the scheduler uses.
func NewSnapshotStore(path string, log zerolog.Logger) *SnapshotStore {
    if !filepath.IsAbs(path) {
        if exe, err := os.Executable(); err == nil {
            path = filepath.Join(filepath.Dir(exe), path)
        }
    }
    return &SnapshotStore{path: path, log: log}
}

func (st *SnapshotStore) Path() string { return st.path }

// Write serializes the snapshot to a temp file and renames it into place, so
// a reader never observes a half-written file.
func (st *SnapshotStore) Write(snap domain.Snapshot) error {
    b, err := json.MarshalIndent(snap, "", "  ")
    if err != nil { return err }
    tmp := st.path + ".tmp"
    if err := os.WriteFile(tmp, b, 0o644); err != nil { return err }
    if err := os.Rename(tmp, st.path); err != nil {
        _ = os.Remove(tmp)
        return err
    }
    return nil
}

// Load reads the current snapshot back. A missing file is returned as-is so
// callers can distinguish "no run yet" from a corrupt artifact.
func (st *SnapshotStore) Load() (*domain.Snapshot, error) {
    b, err := os.ReadFile(st.path)
    if err != nil { return nil, err }
    var snap domain.Snapshot
    if err := json.Unmarshal(b, &snap); err != nil { return nil, err }
    return &snap, nil
}
