/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/HamedShams/bug-pulse/internal/adapters/jira"
    "github.com/HamedShams/bug-pulse/internal/config"
    httpx "github.com/HamedShams/bug-pulse/internal/http"
    "github.com/HamedShams/bug-pulse/internal/jobs"
    "github.com/HamedShams/bug-pulse/internal/logger"
    "github.com/HamedShams/bug-pulse/internal/services"
    "github.com/HamedShams/bug-pulse/internal/store"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)

    if err := cfg.Validate(); err != nil {
        log.Error().Err(err).Msg("configuration invalid; set credentials via environment")
        os.Exit(1)
    }

    jc := jira.NewClient(cfg, log)
    st := store.NewSnapshotStore(cfg.OutputPath, log)
    svc := services.New(cfg, log, jc, st)

    // Default mode: one collection run for the external scheduler, non-zero
    // exit on any fatal error so the trigger can alert.
    if cfg.CronSpec == "" {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
        defer cancel()
        if err := svc.Run(ctx); err != nil {
            log.Error().Err(err).Msg("collection run failed")
            os.Exit(1)
        }
        return
    }

    // Serve mode: in-process schedule plus the HTTP surface for the dashboard.
    router := httpx.NewRouter(cfg, log, svc)
    cr := jobs.NewCron(cfg, log, svc)
    cr.Start()
    defer cr.Stop()

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
