/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"
    "os"

    "github.com/HamedShams/bug-pulse/internal/config"
    "github.com/HamedShams/bug-pulse/internal/domain"
    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"
)

type service interface {
    Run(ctx context.Context) error
    LastRun() *domain.RunInfo
    Snapshot() (*domain.Snapshot, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Snapshot serves the current dashboard artifact. 404 until the first
// successful run has written one.
func (h *Handlers) Snapshot(c *gin.Context) {
    snap, err := h.svc.Snapshot()
    if err != nil {
        if os.IsNotExist(err) {
            c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot yet"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, snap)
}

func (h *Handlers) LastRun(c *gin.Context) {
    lr := h.svc.LastRun()
    if lr == nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "no run yet"})
        return
    }
    c.JSON(http.StatusOK, lr)
}

func (h *Handlers) RunNow(c *gin.Context) {
    // Run in background detached from the HTTP request to avoid context cancellation
    go func() {
        if err := h.svc.Run(context.Background()); err != nil {
            h.log.Error().Err(err).Msg("http: triggered run failed")
        }
    }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
