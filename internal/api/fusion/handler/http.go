package fusionHandler

import (
	fusionService "ProjectFusion/internal/api/fusion/service"
	"ProjectFusion/internal/middleware"
	"ProjectFusion/pkg/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FusionHandler struct {
	log           *logrus.Logger
	middleware    middleware.Middleware
	fusionService fusionService.IFusionService
	utils         utils.IUtils

	runTimeout time.Duration
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	fs fusionService.IFusionService,
	utils utils.IUtils,
) *FusionHandler {
	return &FusionHandler{
		log:           log,
		middleware:    middleware,
		fusionService: fs,
		utils:         utils,

		runTimeout: 120 * time.Second,
	}
}

func (h *FusionHandler) Start(srv fiber.Router) {
	fusion := srv.Group("/fusion")
	fusion.Post("/run", h.middleware.NewTokenMiddleware, h.middleware.NewRateLimiter, h.Run)
}
