package jobs

import (
    "context"
    "errors"
    "time"

    "github.com/HamedShams/bug-pulse/internal/config"
    "github.com/HamedShams/bug-pulse/internal/services"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface{ Run(ctx context.Context) error }

type Cron struct {
    cfg config.Config
    log zerolog.Logger
    svc service
    c   *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
    c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
    if _, err := c.AddFunc(cfg.CronSpec, cr.collect); err != nil {
        log.Error().Err(err).Str("spec", cfg.CronSpec).Msg("cron: invalid spec")
    }
    return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) collect() {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
    defer cancel()
    cr.log.Info().Msg("cron: collection run")
    if err := cr.svc.Run(ctx); err != nil {
        if errors.Is(err, services.ErrRunInProgress) {
            cr.log.Info().Msg("cron: previous run still in progress, skipping")
            return
        }
        cr.log.Error().Err(err).Msg("cron: run failed")
    }
}
