package ageHandler

import (
	"ProjectFusion/internal/api/age"
	contextPkg "ProjectFusion/pkg/context"
	"ProjectFusion/pkg/handlerUtil"
	"ProjectFusion/pkg/log"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

func (h *AgeHandler) PredictAge(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var data []byte

	file, err := ctx.FormFile("image")
	if err == nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Debug("Processing file upload")

		data, err = h.utils.ReadUpload(file)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_upload")
		}
	} else {
		var req age.PredictRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, age.ErrNoImage, ctx.Path(), "parse_request_body")
		}

		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		data, err = base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return errHandler.Handle(ctx, requestID, age.ErrInvalidBase64, ctx.Path(), "decode_base64")
		}
	}

	prediction := h.ageService.PredictAge(c, data)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"label":      prediction.Label,
			"fallback":   prediction.Fallback,
		}).Info("Age prediction completed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, age.PredictResponse{
			Data: prediction,
		})
	}
}

func (h *AgeHandler) handleWebSocket(c *websocket.Conn) {
	h.log.Info("Age WebSocket client connected")
	defer h.log.Info("Age WebSocket client disconnected")

	c.SetReadLimit(h.maxFrameSize)

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Age WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		prediction := h.ageService.PredictAge(ctx, message)
		cancel()

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(prediction); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
