package translateHandler

import (
	"ProjectFusion/internal/api/translate"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/handlerUtil"
	"ProjectFusion/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *TranslateHandler) Translate(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req translate.TranslateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, translate.ErrInvalidRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"length":     len(req.Prompt),
	}).Debug("Processing translate request")

	result := h.translateService.Translate(c, req.Prompt)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, translate.TranslateResponse{
			Data: result,
		})
	}
}
