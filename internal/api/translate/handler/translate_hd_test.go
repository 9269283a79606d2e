package translateHandler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ProjectFusion/internal/api/translate"
	"ProjectFusion/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	got string
}

func (s *stubService) Translate(ctx context.Context, text string) translate.Result {
	s.got = text
	return translate.Result{Text: "hello", Source: "es", Translated: true}
}

func (s *stubService) Close() error { return nil }

func newTestApp(svc *stubService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	mw := middleware.New(logger)
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app.Group("/api/v1"))
	return app
}

func TestTranslateHandler(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(`{"prompt":"hola"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body translate.TranslateResponse
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "hola", svc.got)
	assert.Equal(t, "hello", body.Data.Text)
	assert.True(t, body.Data.Translated)
}

func TestTranslateHandlerRejectsEmptyPrompt(t *testing.T) {
	app := newTestApp(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(`{"prompt":""}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
