package jobs

import (
	"fmt"

	config "github.com/anjiri1684/coded/configs"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/services"
	"github.com/robfig/cron/v3"
)

// Schedule registers the maintenance jobs on c. The caller starts and stops c.
func Schedule(c *cron.Cron, cfg *config.Config, auth *services.AuthService, baseLog *logger.Logger) error {
	log := baseLog.With("component", "jobs")
	if _, err := c.AddFunc(cfg.StreakJobSpec, DecayLoginStreaks(auth, log)); err != nil {
		return fmt.Errorf("schedule streak job %q: %w", cfg.StreakJobSpec, err)
	}
	if _, err := c.AddFunc(cfg.SessionPurgeJobSpec, PurgeExpiredSessions(auth, log)); err != nil {
		return fmt.Errorf("schedule session purge job %q: %w", cfg.SessionPurgeJobSpec, err)
	}
	return nil
}
