package store

import (
    "os"
    "path/filepath"
    "testing"

    "github.com/HamedShams/bug-pulse/internal/domain"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/require"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
    path := filepath.Join(t.TempDir(), "data.json")
    st := NewSnapshotStore(path, zerolog.Nop())

    matrix := domain.NewMatrix()
    matrix[domain.PlatformLGTV][domain.StatusOpen] = 4
    matrix[domain.PlatformWeb][domain.StatusParked] = 1
    snap := domain.Snapshot{
        Data:               matrix,
        UpdatedAt:          "2025-08-31T10:00:00Z",
        TotalIssuesFetched: 5,
        Project:            "VZY",
    }
    require.NoError(t, st.Write(snap))

    got, err := st.Load()
    require.NoError(t, err)
    require.Equal(t, snap, *got)

    // full shape survives serialization even for all-zero rows
    require.Len(t, got.Data, len(domain.Platforms()))
    for _, p := range domain.Platforms() {
        require.Len(t, got.Data[p], len(domain.Statuses()))
    }
}

func TestSnapshotStore_WriteReplacesPrevious(t *testing.T) {
    path := filepath.Join(t.TempDir(), "data.json")
    st := NewSnapshotStore(path, zerolog.Nop())

    first := domain.Snapshot{Data: domain.NewMatrix(), UpdatedAt: "2025-08-30T10:00:00Z", TotalIssuesFetched: 10, Project: "VZY"}
    require.NoError(t, st.Write(first))

    second := domain.Snapshot{Data: domain.NewMatrix(), UpdatedAt: "2025-08-31T10:00:00Z", TotalIssuesFetched: 2, Project: "VZY"}
    require.NoError(t, st.Write(second))

    got, err := st.Load()
    require.NoError(t, err)
    require.Equal(t, "2025-08-31T10:00:00Z", got.UpdatedAt)
    require.Equal(t, 2, got.TotalIssuesFetched)

    // no temp file is left behind
    _, err = os.Stat(path + ".tmp")
    require.True(t, os.IsNotExist(err))
}

func TestSnapshotStore_LoadMissingFile(t *testing.T) {
    st := NewSnapshotStore(filepath.Join(t.TempDir(), "data.json"), zerolog.Nop())
    _, err := st.Load()
    require.True(t, os.IsNotExist(err))
}
