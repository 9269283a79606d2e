package ageHandler

import (
	ageService "ProjectFusion/internal/api/age/service"
	"ProjectFusion/internal/middleware"
	"ProjectFusion/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AgeHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware middleware.Middleware
	ageService ageService.IAgeService
	utils      utils.IUtils

	maxFrameSize int64
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as ageService.IAgeService,
	u utils.IUtils,
) *AgeHandler {
	return &AgeHandler{
		log:        log,
		validator:  validator,
		middleware: middleware,
		ageService: as,
		utils:      u,

		maxFrameSize: utils.MaxUploadSize,
	}
}

func (h *AgeHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	age := srv.Group("/age")
	age.Post("/predict", h.middleware.NewRateLimiter, h.PredictAge)
	age.Use("/ws", wsMiddleware)
	age.Get("/ws", websocket.New(h.handleWebSocket))
}
