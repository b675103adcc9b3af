package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/jwt"
)

var tracer = otel.Tracer("auth")

type AuthService struct {
	config domain.Config
}

func NewAuthService(config domain.Config) *AuthService {
	return &AuthService{
		config: config,
	}
}

type AuthResult struct {
	UserID string
}

// AuthJwt verifies a bearer token against the configured secret.
func (s *AuthService) AuthJwt(ctx context.Context, token string) (*AuthResult, error) {
	_, span := tracer.Start(ctx, "Auth.Service.AuthJwt")
	defer span.End()

	_, claims, err := jwt.Validate(token, s.config.TokenSecret)
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return nil, errors.Wrap(domain.ErrUnauthenticated, err.Error())
	}

	if claims.UserID == "" {
		err := fmt.Errorf("jwt has no userId claim")
		span.RecordError(err)
		return nil, errors.Wrap(domain.ErrUnauthenticated, err.Error())
	}

	return &AuthResult{UserID: claims.UserID}, nil
}
