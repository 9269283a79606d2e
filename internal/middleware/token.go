package middleware

import (
	"ProjectFusion/pkg/handlerUtil"
	jwtPkg "ProjectFusion/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const SubjectKey = "subject"

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)

	claims, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.AccessTokenSecret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"client_ip":  ctx.IP(),
			"error":      err.Error(),
		}).Warn("Token verification failed")

		return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, "Unauthorized, access token invalid or expired")
	}

	ctx.Locals(SubjectKey, claims.Subject)

	m.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"subject":    claims.Subject,
	}).Debug("Authentication successful")

	return ctx.Next()
}

func (m *middleware) GetSubject(ctx *fiber.Ctx) string {
	subject, _ := ctx.Locals(SubjectKey).(string)
	return subject
}
