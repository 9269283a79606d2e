package filesHandler

import (
	"ProjectFusion/internal/api/files"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/handlerUtil"
	"ProjectFusion/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *FilesHandler) UploadFile(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.uploadTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	format, err := filestore.ParseFormat(ctx.FormValue("format"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, files.ErrInvalidFormat, ctx.Path(), "parse_format")
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.Handle(ctx, requestID, files.ErrInvalidImage, ctx.Path(), "form_file")
	}

	data, err := h.utils.ReadImageFile(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image_file")
	}

	outputFile, err := h.filesService.Save(c, data, format)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "save_file")
	}

	// Once saved, the file is reported even if the deadline has passed.
	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"filename":   outputFile.Filename,
		"late":       c.Err() != nil,
	}).Info("Output file saved")
	return errHandler.HandleSuccess(ctx, fiber.StatusCreated, files.FileResponse{
		Data: outputFile,
	})
}

func (h *FilesHandler) parseFileQuery(ctx *fiber.Ctx) (files.FileQuery, filestore.Format, error) {
	var query files.FileQuery
	if err := ctx.QueryParser(&query); err != nil {
		return query, "", files.ErrInvalidFilename
	}

	if err := h.validator.Struct(query); err != nil {
		return query, "", err
	}

	format, err := filestore.ParseFormat(query.Format)
	if err != nil {
		return query, "", files.ErrInvalidFormat
	}

	return query, format, nil
}

func (h *FilesHandler) GetBytes(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	query, format, err := h.parseFileQuery(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	data, err := h.filesService.ReadBytes(c, query.Filename, format)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_bytes")
	}

	ctx.Set(fiber.HeaderContentType, format.ContentType())
	return ctx.Status(fiber.StatusOK).Send(data)
}

func (h *FilesHandler) GetBase64(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	query, format, err := h.parseFileQuery(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	encoded, err := h.filesService.ReadBase64(c, query.Filename, format)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_base64")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, files.Base64Response{
		Data: files.Base64Data{
			Filename: query.Filename,
			Format:   string(format),
			Base64:   encoded,
		},
	})
}

func (h *FilesHandler) GetURL(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	query, _, err := h.parseFileQuery(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, files.URLResponse{
		Data: files.URLData{
			Filename: query.Filename,
			URL:      h.filesService.URL(query.Filename),
		},
	})
}

func (h *FilesHandler) ListIndex(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var query files.IndexQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	date := time.Now()
	if query.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", query.Date, time.Local)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		date = parsed
	}

	outputFiles, err := h.filesService.ListByDate(c, date)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_index")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, files.IndexResponse{
			Data: outputFiles,
		})
	}
}

func (h *FilesHandler) DeleteFile(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	query, _, err := h.parseFileQuery(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	deleted := h.filesService.Delete(c, query.Filename)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"filename":   query.Filename,
		"deleted":    deleted,
		"subject":    h.middleware.GetSubject(ctx),
	}).Info("Output file delete requested")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, files.DeleteResponse{Deleted: deleted})
}
