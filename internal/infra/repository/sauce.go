package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/internal/infra/database/models"
)

type SauceRepository struct {
	db *gorm.DB
}

func NewSauceRepository(db *gorm.DB) *SauceRepository {
	return &SauceRepository{db: db}
}

func (r *SauceRepository) List(ctx context.Context) ([]domain.Sauce, error) {
	var rows []models.Sauce
	err := r.db.WithContext(ctx).Order("c_date asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sauces := make([]domain.Sauce, 0, len(rows))
	for _, row := range rows {
		sauces = append(sauces, toDomainSauce(row))
	}
	return sauces, nil
}

func (r *SauceRepository) Get(ctx context.Context, id string) (domain.Sauce, error) {
	row, err := getSauceByID(r.db.WithContext(ctx), id)
	if err != nil {
		return domain.Sauce{}, err
	}
	return toDomainSauce(*row), nil
}

func (r *SauceRepository) Create(ctx context.Context, sauce domain.Sauce) (domain.Sauce, error) {
	row := models.Sauce{
		ID:            uuid.NewString(),
		UserID:        sauce.UserID,
		Name:          sauce.Name,
		Manufacturer:  sauce.Manufacturer,
		Description:   sauce.Description,
		MainPepper:    sauce.MainPepper,
		ImageURL:      sauce.ImageURL,
		Heat:          sauce.Heat,
		Likes:         0,
		Dislikes:      0,
		UsersLiked:    datatypes.NewJSONSlice([]string{}),
		UsersDisliked: datatypes.NewJSONSlice([]string{}),
	}

	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return domain.Sauce{}, err
	}
	return toDomainSauce(row), nil
}

// Update writes the fields set in update, and imageURL when it is not empty.
// Counters, vote sets and owner are never touched here.
func (r *SauceRepository) Update(ctx context.Context, id string, update domain.SauceUpdate, imageURL string) (domain.Sauce, error) {
	var result domain.Sauce

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getSauceByID(tx, id); err != nil {
			return err
		}

		changes := map[string]any{}
		if update.Name != nil {
			changes["name"] = *update.Name
		}
		if update.Manufacturer != nil {
			changes["manufacturer"] = *update.Manufacturer
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if update.MainPepper != nil {
			changes["main_pepper"] = *update.MainPepper
		}
		if update.Heat != nil {
			changes["heat"] = *update.Heat
		}
		if imageURL != "" {
			changes["image_url"] = imageURL
		}

		if len(changes) > 0 {
			err := tx.Model(&models.Sauce{}).Where("id = ?", id).Updates(changes).Error
			if err != nil {
				return err
			}
		}

		row, err := getSauceByID(tx, id)
		if err != nil {
			return err
		}
		result = toDomainSauce(*row)
		return nil
	})
	if err != nil {
		return domain.Sauce{}, err
	}

	return result, nil
}

func (r *SauceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Sauce{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "sauce"}
	}
	return nil
}

// ApplyVote locks the sauce row for the duration of the read-modify-write so
// concurrent votes on the same sauce are serialized.
func (r *SauceRepository) ApplyVote(ctx context.Context, id string, fn func(domain.Tally) (domain.Tally, error)) (domain.Sauce, error) {
	var result domain.Sauce

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := getSauceByID(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}

		current := toDomainSauce(*row)
		next, err := fn(domain.TallyOf(current))
		if err != nil {
			return err
		}

		err = tx.Model(&models.Sauce{}).Where("id = ?", id).Updates(map[string]any{
			"likes":          next.Likes,
			"dislikes":       next.Dislikes,
			"users_liked":    datatypes.NewJSONSlice(next.UsersLiked),
			"users_disliked": datatypes.NewJSONSlice(next.UsersDisliked),
		}).Error
		if err != nil {
			return err
		}

		current.Likes = next.Likes
		current.Dislikes = next.Dislikes
		current.UsersLiked = next.UsersLiked
		current.UsersDisliked = next.UsersDisliked
		result = current
		return nil
	})
	if err != nil {
		return domain.Sauce{}, err
	}

	return result, nil
}

func getSauceByID(db *gorm.DB, id string) (*models.Sauce, error) {
	var row models.Sauce
	err := db.Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError{Resource: "sauce"}
		}
		return nil, err
	}
	return &row, nil
}

func toDomainSauce(row models.Sauce) domain.Sauce {
	usersLiked := []string(row.UsersLiked)
	if usersLiked == nil {
		usersLiked = []string{}
	}
	usersDisliked := []string(row.UsersDisliked)
	if usersDisliked == nil {
		usersDisliked = []string{}
	}

	return domain.Sauce{
		ID:            row.ID,
		UserID:        row.UserID,
		Name:          row.Name,
		Manufacturer:  row.Manufacturer,
		Description:   row.Description,
		MainPepper:    row.MainPepper,
		ImageURL:      row.ImageURL,
		Heat:          row.Heat,
		Likes:         row.Likes,
		Dislikes:      row.Dislikes,
		UsersLiked:    usersLiked,
		UsersDisliked: usersDisliked,
	}
}
