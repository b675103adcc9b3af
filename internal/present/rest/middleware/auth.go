package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/internal/present/rest/presenter"
	"github.com/totegamma/saucebox/internal/service"
)

var tracer = otel.Tracer("auth")

const maxPeekBody = 1 << 20

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// RequireAuth rejects the request unless it carries a valid bearer token.
// A userId in a JSON body must match the token.
func (s *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireAuth")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")
		split := strings.Split(authHeader, " ")
		if len(split) != 2 {
			span.RecordError(fmt.Errorf("invalid authentication header"))
			return presenter.Unauthorized(c)
		}

		authType, token := split[0], split[1]
		if authType != "Bearer" {
			span.RecordError(fmt.Errorf("only Bearer is acceptable"))
			return presenter.Unauthorized(c)
		}

		result, err := s.auth.AuthJwt(ctx, token)
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireAuth: s.auth.AuthJwt failed"))
			return presenter.Unauthorized(c)
		}

		bodyUserID, present, err := peekBodyUserID(c)
		if err != nil {
			span.RecordError(err)
			return presenter.BadRequestMessage(c, "unreadable request body")
		}
		if present && bodyUserID != result.UserID {
			span.RecordError(fmt.Errorf("userId in body does not match token"))
			return presenter.Unauthorized(c)
		}

		span.SetAttributes(attribute.String("RequesterId", result.UserID))
		ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, result.UserID)
		c.Set(domain.RequesterIdCtxKey, result.UserID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequesterID returns the user authenticated by RequireAuth.
func RequesterID(c echo.Context) string {
	id, _ := c.Get(domain.RequesterIdCtxKey).(string)
	return id
}

// peekBodyUserID reads the userId of a JSON body and restores the body for
// the handler. Empty or null values count as absent.
func peekBodyUserID(c echo.Context) (string, bool, error) {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return "", false, nil
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBody+1))
	if err != nil {
		return "", false, err
	}
	if len(raw) > maxPeekBody {
		return "", false, fmt.Errorf("request body too large")
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))

	// same decoder as echo's binder, which ignores anything after the first value
	var body struct {
		UserID any `json:"userId"`
	}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&body); err != nil {
		// left to the handler's binder
		return "", false, nil
	}

	switch v := body.UserID.(type) {
	case nil:
		return "", false, nil
	case string:
		if v == "" {
			return "", false, nil
		}
		return v, true, nil
	default:
		return fmt.Sprint(v), true, nil
	}
}
