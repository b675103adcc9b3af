package usecase

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/jwt"
)

type UserUsecase struct {
	repo   UserRepository
	config domain.Config
}

func NewUserUsecase(repo UserRepository, config domain.Config) *UserUsecase {
	return &UserUsecase{repo: repo, config: config}
}

func (uc *UserUsecase) Signup(ctx context.Context, email, password string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.Usecase.Signup")
	defer span.End()

	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, domain.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if password == "" {
		return domain.User{}, domain.ValidationError{Field: "password", Reason: "is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "failed to hash password")
	}

	user, err := uc.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	return user, nil
}

// Login checks the credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (domain.Session, error) {
	ctx, span := tracer.Start(ctx, "User.Usecase.Login")
	defer span.End()

	user, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, domain.ErrUnauthenticated
		}
		return domain.Session{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return domain.Session{}, domain.ErrUnauthenticated
	}

	now := time.Now()
	token, err := jwt.Create(jwt.Claims{
		UserID:         user.ID,
		IssuedAt:       now.Unix(),
		ExpirationTime: now.Add(uc.config.TokenTTL).Unix(),
	}, uc.config.TokenSecret)
	if err != nil {
		span.RecordError(err)
		return domain.Session{}, errors.Wrap(err, "failed to issue token")
	}

	return domain.Session{UserID: user.ID, Token: token}, nil
}
