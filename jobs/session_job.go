package jobs

import (
	"context"

	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/services"
)

func PurgeExpiredSessions(auth *services.AuthService, log *logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		n, err := auth.PurgeExpiredSessions(ctx)
		if err != nil {
			log.Error("error purging expired sessions", "error", err)
			return
		}
		if n > 0 {
			log.Info("expired sessions purged", "sessions", n)
		}
	}
}
