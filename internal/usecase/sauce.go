package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/saucebox/internal/domain"
)

var tracer = otel.Tracer("usecase")

// ImageUpload is an image received with a request.
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

// CreateInput is the input for creating a sauce.
type CreateInput struct {
	RequesterID string
	Origin      string
	Payload     domain.SaucePayload
	Image       ImageUpload
}

// UpdateInput is the input for updating a sauce. Image is nil when the
// request carries no new image; imageUrl is only ever set from an upload.
type UpdateInput struct {
	Origin  string
	Payload domain.SauceUpdate
	Image   *ImageUpload
}

type SauceUsecase struct {
	repo   SauceRepository
	images ImageStore
	cache  SauceCache
	events EventPublisher
}

func NewSauceUsecase(
	repo SauceRepository,
	images ImageStore,
	cache SauceCache,
	events EventPublisher,
) *SauceUsecase {
	return &SauceUsecase{
		repo:   repo,
		images: images,
		cache:  cache,
		events: events,
	}
}

func (uc *SauceUsecase) List(ctx context.Context) ([]domain.Sauce, error) {
	ctx, span := tracer.Start(ctx, "Sauce.Usecase.List")
	defer span.End()

	sauces, err := uc.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to list sauces")
	}
	return sauces, nil
}

func (uc *SauceUsecase) Get(ctx context.Context, id string) (domain.Sauce, error) {
	ctx, span := tracer.Start(ctx, "Sauce.Usecase.Get")
	defer span.End()

	if cached, ok := uc.cache.Get(ctx, id); ok {
		span.SetAttributes(attribute.Bool("cached", true))
		return cached, nil
	}

	sauce, err := uc.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return domain.Sauce{}, err
	}

	uc.cache.Set(ctx, sauce)
	return sauce, nil
}

// Create stores the uploaded image and then persists the sauce. The image is
// released again when the payload is rejected or the write fails.
func (uc *SauceUsecase) Create(ctx context.Context, input CreateInput) (domain.Sauce, error) {
	ctx, span := tracer.Start(ctx, "Sauce.Usecase.Create")
	defer span.End()

	if input.Image.Reader == nil {
		return domain.Sauce{}, domain.ValidationError{Field: "image", Reason: "is required"}
	}

	filename, err := uc.images.Save(ctx, input.Image.Name, input.Image.Reader)
	if err != nil {
		span.RecordError(err)
		return domain.Sauce{}, errors.Wrap(err, "failed to store image")
	}

	payload := input.Payload
	if payload.UserID != "" && payload.UserID != input.RequesterID {
		uc.removeImage(ctx, filename)
		return domain.Sauce{}, domain.ErrUnauthenticated
	}

	if err := domain.ValidateSauce(payload); err != nil {
		uc.removeImage(ctx, filename)
		return domain.Sauce{}, err
	}

	sauce := domain.Sauce{
		UserID:        input.RequesterID,
		Name:          payload.Name,
		Manufacturer:  payload.Manufacturer,
		Description:   payload.Description,
		MainPepper:    payload.MainPepper,
		ImageURL:      domain.ImageURL(input.Origin, filename),
		Heat:          payload.Heat,
		Likes:         0,
		Dislikes:      0,
		UsersLiked:    []string{},
		UsersDisliked: []string{},
	}

	created, err := uc.repo.Create(ctx, sauce)
	if err != nil {
		span.RecordError(err)
		uc.removeImage(ctx, filename)
		return domain.Sauce{}, errors.Wrap(err, "failed to create sauce")
	}

	span.SetAttributes(attribute.String("SauceId", created.ID))
	uc.publish(ctx, domain.Event{Type: domain.EventSauceCreated, SauceID: created.ID, UserID: input.RequesterID, Sauce: &created})

	return created, nil
}

// Update replaces the descriptive fields of a sauce. Fields are not
// re-validated. A new image replaces imageUrl and releases the previous file.
func (uc *SauceUsecase) Update(ctx context.Context, id string, input UpdateInput) (domain.Sauce, error) {
	ctx, span := tracer.Start(ctx, "Sauce.Usecase.Update")
	defer span.End()

	var imageURL, saved, previous string

	if input.Image != nil {
		current, err := uc.repo.Get(ctx, id)
		if err != nil {
			span.RecordError(err)
			return domain.Sauce{}, err
		}
		previous = current.ImageURL

		saved, err = uc.images.Save(ctx, input.Image.Name, input.Image.Reader)
		if err != nil {
			span.RecordError(err)
			return domain.Sauce{}, errors.Wrap(err, "failed to store image")
		}
		imageURL = domain.ImageURL(input.Origin, saved)
	}

	updated, err := uc.repo.Update(ctx, id, input.Payload, imageURL)
	if err != nil {
		span.RecordError(err)
		if saved != "" {
			uc.removeImage(ctx, saved)
		}
		return domain.Sauce{}, errors.Wrap(err, "failed to update sauce")
	}

	if previous != "" && previous != updated.ImageURL {
		if filename, ok := domain.ImageFilename(previous); ok {
			uc.removeImage(ctx, filename)
		}
	}

	uc.cache.Invalidate(ctx, id)
	uc.publish(ctx, domain.Event{Type: domain.EventSauceUpdated, SauceID: id, Sauce: &updated})

	return updated, nil
}

// Delete removes a sauce and, best effort, its image.
func (uc *SauceUsecase) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Sauce.Usecase.Delete")
	defer span.End()

	sauce, err := uc.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if filename, ok := domain.ImageFilename(sauce.ImageURL); ok {
		uc.removeImage(ctx, filename)
	}

	err = uc.repo.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to delete sauce")
	}

	uc.cache.Invalidate(ctx, id)
	uc.publish(ctx, domain.Event{Type: domain.EventSauceDeleted, SauceID: id})

	return nil
}

// Vote applies a vote signal from userID to the sauce.
func (uc *SauceUsecase) Vote(ctx context.Context, id, userID string, vote domain.Vote) (domain.Sauce, domain.VoteOutcome, error) {
	ctx, span := tracer.Start(ctx, "Sauce.Usecase.Vote")
	defer span.End()

	span.SetAttributes(
		attribute.String("SauceId", id),
		attribute.String("Vote", vote.String()),
	)

	outcome := domain.VoteUnchanged
	sauce, err := uc.repo.ApplyVote(ctx, id, func(t domain.Tally) (domain.Tally, error) {
		next, o, err := t.Apply(userID, vote)
		outcome = o
		return next, err
	})
	if err != nil {
		span.RecordError(err)
		return domain.Sauce{}, domain.VoteUnchanged, err
	}

	if outcome != domain.VoteUnchanged {
		uc.cache.Invalidate(ctx, id)
		uc.publish(ctx, domain.Event{Type: domain.EventSauceVoted, SauceID: id, UserID: userID, Sauce: &sauce})
	}

	return sauce, outcome, nil
}

func (uc *SauceUsecase) removeImage(ctx context.Context, filename string) {
	err := uc.images.Remove(ctx, filename)
	if err != nil {
		slog.WarnContext(
			ctx, "failed to remove image",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
			slog.String("module", "sauce"),
		)
	}
}

func (uc *SauceUsecase) publish(ctx context.Context, event domain.Event) {
	err := uc.events.Publish(ctx, event)
	if err != nil {
		slog.WarnContext(
			ctx, "failed to publish event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
			slog.String("module", "sauce"),
		)
	}
}
