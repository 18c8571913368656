package handlers

import (
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/services"
	"github.com/anjiri1684/coded/websocket"
	"github.com/cloudinary/cloudinary-go/v2"
)

// Deps are the services the HTTP layer is a thin boundary around.
type Deps struct {
	Auth         *services.AuthService
	Profile      *services.ProfileService
	Learning     *services.LearningService
	Progress     *services.ProgressService
	Games        *services.GameService
	Rewards      *services.RewardService
	Dashboard    *services.DashboardService
	Projects     *services.ProjectService
	Certificates *services.CertificateService
	Hub          *websocket.Hub
	// Cloudinary is nil when uploads are not configured.
	Cloudinary   *cloudinary.Cloudinary
	CookieSecure bool
}

type Handler struct {
	Deps
	log *logger.Logger
}

func New(deps Deps, baseLog *logger.Logger) *Handler {
	return &Handler{Deps: deps, log: baseLog.With("component", "handlers")}
}
