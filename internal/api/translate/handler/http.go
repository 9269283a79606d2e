package translateHandler

import (
	translateService "ProjectFusion/internal/api/translate/service"
	"ProjectFusion/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TranslateHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	translateService translateService.ITranslateService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ts translateService.ITranslateService,
) *TranslateHandler {
	return &TranslateHandler{
		log:              log,
		validator:        validator,
		middleware:       middleware,
		translateService: ts,
	}
}

func (h *TranslateHandler) Start(srv fiber.Router) {
	srv.Post("/translate", h.middleware.NewRateLimiter, h.Translate)
}
