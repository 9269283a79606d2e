package filesHandler

import (
	filesService "ProjectFusion/internal/api/files/service"
	"ProjectFusion/internal/middleware"
	"ProjectFusion/pkg/utils"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FilesHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	filesService filesService.IFilesService
	utils        utils.IUtils

	uploadTimeout time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	fs filesService.IFilesService,
	utils utils.IUtils,
) *FilesHandler {
	return &FilesHandler{
		log:          log,
		validator:    validator,
		middleware:   middleware,
		filesService: fs,
		utils:        utils,

		uploadTimeout: 30 * time.Second,
	}
}

func (h *FilesHandler) Start(srv fiber.Router) {
	srv.Post("/files", h.middleware.NewRateLimiter, h.UploadFile)
	srv.Delete("/files", h.middleware.NewTokenMiddleware, h.DeleteFile)

	files := srv.Group("/files")
	files.Get("/bytes", h.GetBytes)
	files.Get("/base64", h.GetBase64)
	files.Get("/url", h.GetURL)
	files.Get("/index", h.ListIndex)
}
