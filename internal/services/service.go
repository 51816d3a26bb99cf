/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "sync/atomic"
    "time"

    "github.com/HamedShams/bug-pulse/internal/config"
    "github.com/HamedShams/bug-pulse/internal/domain"
    "github.com/HamedShams/bug-pulse/internal/store"
    "github.com/rs/zerolog"
)

// ErrRunInProgress is returned when a run is requested while another one is
// still fetching or writing.
var ErrRunInProgress = errors.New("collection run already in progress")

type IssueSource interface {
    ProjectBugs(ctx context.Context, projectKey string) ([]map[string]any, error)
}

type Service struct {
    cfg   config.Config
    log   zerolog.Logger
    jira  IssueSource
    store *store.SnapshotStore

    running atomic.Bool
    mu      sync.Mutex
    lastRun *domain.RunInfo
}

func New(cfg config.Config, log zerolog.Logger, jira IssueSource, st *store.SnapshotStore) *Service {
    return &Service{cfg: cfg, log: log, jira: jira, store: st}
}

// Run executes one full fetch → classify/aggregate → write cycle. Any fatal
// error leaves the previous snapshot untouched; the write is the last step
// and only happens on full success.
func (s *Service) Run(ctx context.Context) error {
    if !s.running.CompareAndSwap(false, true) { return ErrRunInProgress }
    defer s.running.Store(false)

    info := domain.RunInfo{StartedAt: time.Now().UTC()}
    var runErr error
    defer func() {
        info.FinishedAt = time.Now().UTC()
        info.OK = runErr == nil
        if runErr != nil { info.Error = runErr.Error() }
        s.mu.Lock()
        s.lastRun = &info
        s.mu.Unlock()
    }()

    s.log.Info().Str("domain", s.cfg.JiraDomain).Str("project", s.cfg.ProjectKey).Msg("run: fetching issues")
    issues, err := s.jira.ProjectBugs(ctx, s.cfg.ProjectKey)
    if err != nil {
        runErr = fmt.Errorf("fetch: %w", err)
        return runErr
    }
    fetchedAt := time.Now().UTC()
    info.IssuesFetched = len(issues)
    s.log.Info().Int("total", len(issues)).Msg("run: fetch complete")

    matrix, diag := Aggregate(issues)
    info.CellsCounted = matrix.Total()
    info.UnmatchedPlatform = diag.UnmatchedPlatform
    info.UntrackedStatus = diag.UntrackedStatus
    s.logDiagnostics(len(issues), diag)

    snap := domain.Snapshot{
        Data:               matrix,
        UpdatedAt:          fetchedAt.Format("2006-01-02T15:04:05Z"),
        TotalIssuesFetched: len(issues),
        Project:            s.cfg.ProjectKey,
    }
    if err := s.store.Write(snap); err != nil {
        runErr = fmt.Errorf("write snapshot: %w", err)
        return runErr
    }
    s.log.Info().Str("path", s.store.Path()).Int("cells_counted", matrix.Total()).Msg("run: snapshot written")
    return nil
}

// logDiagnostics is the operator-facing debug block: distinct raw values seen
// this run and how many issues fell outside the matrix. Purely informational.
func (s *Service) logDiagnostics(total int, d domain.Diagnostics) {
    s.log.Debug().
        Int("total_issues", total).
        Strs("statuses_seen", d.SeenStatuses).
        Strs("labels_seen", d.SeenLabels).
        Strs("components_seen", d.SeenComponents).
        Msg("run: raw values observed")
    s.log.Info().
        Int("platform_unmatched", d.UnmatchedPlatform).
        Int("status_untracked", d.UntrackedStatus).
        Int("type_skipped", d.SkippedType).
        Msg("run: classification diagnostics")
}

// LastRun returns a copy of the most recent run record, or nil before any run.
func (s *Service) LastRun() *domain.RunInfo {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.lastRun == nil { return nil }
    cp := *s.lastRun
    return &cp
}

// Snapshot loads the current persisted snapshot for the HTTP surface.
func (s *Service) Snapshot() (*domain.Snapshot, error) {
    return s.store.Load()
}
