package usecase

import (
	"context"
	"io"

	"github.com/totegamma/saucebox/internal/domain"
)

// SauceRepository defines storage operations for sauces.
type SauceRepository interface {
	List(ctx context.Context) ([]domain.Sauce, error)
	Get(ctx context.Context, id string) (domain.Sauce, error)
	Create(ctx context.Context, sauce domain.Sauce) (domain.Sauce, error)
	// Update writes the set fields of update, and imageURL when it is not
	// empty.
	Update(ctx context.Context, id string, update domain.SauceUpdate, imageURL string) (domain.Sauce, error)
	Delete(ctx context.Context, id string) error
	// ApplyVote runs fn against the current tally and stores its result
	// atomically with respect to other votes on the same sauce.
	ApplyVote(ctx context.Context, id string, fn func(domain.Tally) (domain.Tally, error)) (domain.Sauce, error)
}

// UserRepository defines persistence for accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// ImageStore keeps uploaded sauce images addressed by filename.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, filename string) error
}

// SauceCache caches single sauces by id.
type SauceCache interface {
	Get(ctx context.Context, id string) (domain.Sauce, bool)
	Set(ctx context.Context, sauce domain.Sauce)
	Invalidate(ctx context.Context, id string)
}

// EventPublisher broadcasts sauce mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
