package fusionHandler

import (
	"ProjectFusion/internal/api/fusion"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/handlerUtil"
	"ProjectFusion/pkg/log"
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *FusionHandler) Run(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.runTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	format, err := filestore.ParseFormat(ctx.FormValue("format"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, fusion.ErrInvalidFormat, ctx.Path(), "parse_format")
	}

	sourceFile, err := ctx.FormFile("source")
	if err != nil {
		return errHandler.Handle(ctx, requestID, fusion.ErrMissingImages, ctx.Path(), "form_file_source")
	}
	targetFile, err := ctx.FormFile("target")
	if err != nil {
		return errHandler.Handle(ctx, requestID, fusion.ErrMissingImages, ctx.Path(), "form_file_target")
	}

	source, err := h.utils.ReadImageFile(sourceFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_source")
	}
	target, err := h.utils.ReadImageFile(targetFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_target")
	}

	outputFile, err := h.fusionService.RunUpload(c, source, target, format)
	if err != nil {
		if c.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
			return errHandler.HandleRequestTimeout(ctx)
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "run_fusion")
	}

	// The output is already stored, so a late finish still answers with it.
	fields := log.Fields{
		"request_id": requestID,
		"subject":    h.middleware.GetSubject(ctx),
		"filename":   outputFile.Filename,
	}
	if c.Err() != nil {
		h.log.WithFields(fields).Warn("Fusion run completed after deadline")
	} else {
		h.log.WithFields(fields).Info("Fusion run completed")
	}
	return errHandler.HandleSuccess(ctx, fiber.StatusCreated, fusion.RunResponse{
		Data: outputFile,
	})
}
