package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/services"
)

const jobTimeout = 5 * time.Minute

// DecayLoginStreaks zeroes the streaks of users who did not log in yesterday
// or today.
func DecayLoginStreaks(auth *services.AuthService, log *logger.Logger) func() {
	return func() {
		log.Debug("running job", "job", "DecayLoginStreaks")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := auth.DecayStreaks(ctx)
		if err != nil {
			log.Error("error decaying login streaks", "error", err)
			return
		}
		if n > 0 {
			log.Info("login streaks reset", "users", n)
		}
	}
}
