package auth

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor periodically removes expired sessions.
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
}

// NewJanitor schedules PurgeExpired on a standard cron spec ("@hourly",
// "*/15 * * * *", ...).
func NewJanitor(m *Manager, spec string) (*Janitor, error) {
	j := &Janitor{cron: cron.New(), manager: m}
	if _, err := j.cron.AddFunc(spec, j.purge); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Janitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.manager.PurgeExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge expired sessions")
		return
	}
	if n > 0 {
		log.Info().Int64("removed", n).Msg("Purged expired sessions")
	}
}

func (j *Janitor) Start() {
	log.Info().Msg("Starting session janitor")
	j.cron.Start()
}

// Stop halts scheduling and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	log.Info().Msg("Session janitor stopped")
}
