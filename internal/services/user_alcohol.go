package services

import (
	"errors"

	"github.com/alcostack/backend/internal/models"
	"github.com/alcostack/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 0
	MaxRating = 10
)

// UserAlcoholService manages the user/alcohol association rows: per-user
// volume and rating against catalog items.
type UserAlcoholService struct {
	DB *gorm.DB
}

func NewUserAlcoholService(db *gorm.DB) *UserAlcoholService {
	return &UserAlcoholService{DB: db}
}

func (s *UserAlcoholService) findUser(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SeedAll inserts one association per catalog alcohol the user does not
// already have, each with volume 0 and rating 0. Existing pairs are skipped,
// so the operation is idempotent.
func (s *UserAlcoholService) SeedAll(tx *gorm.DB, username string) error {
	user, err := s.findUser(tx, username)
	if err != nil {
		return err
	}

	var catalog []models.Alcohol
	if err := tx.Find(&catalog).Error; err != nil {
		return err
	}

	existing := map[uuid.UUID]bool{}
	var current []models.UserAlcohol
	if err := tx.Where("user_id = ?", user.ID).Find(&current).Error; err != nil {
		return err
	}
	for _, row := range current {
		existing[row.AlcoholID] = true
	}

	var rows []models.UserAlcohol
	for _, alcohol := range catalog {
		if existing[alcohol.ID] {
			continue
		}
		rows = append(rows, models.UserAlcohol{
			UserID:    user.ID,
			AlcoholID: alcohol.ID,
		})
	}

	if len(rows) == 0 {
		return nil
	}

	if err := tx.Create(&rows).Error; err != nil {
		return err
	}

	logger.InfoWithUser(user.ID.String(), "user_alcohols_seeded", map[string]interface{}{
		"username": username,
		"count":    len(rows),
	})
	return nil
}

func (s *UserAlcoholService) Add(username string, alcoholID uuid.UUID) (*models.UserAlcohol, error) {
	user, err := s.findUser(s.DB, username)
	if err != nil {
		return nil, err
	}

	var alcohol models.Alcohol
	if err := s.DB.First(&alcohol, "id = ?", alcoholID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlcoholNotFound
		}
		return nil, err
	}

	var existing models.UserAlcohol
	err = s.DB.First(&existing, "user_id = ? AND alcohol_id = ?", user.ID, alcoholID).Error
	if err == nil {
		return nil, ErrAssociationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := models.UserAlcohol{UserID: user.ID, AlcoholID: alcoholID}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	row.Alcohol = alcohol
	return &row, nil
}

func (s *UserAlcoholService) UpdateVolume(username string, alcoholID uuid.UUID, volume int) (*models.UserAlcohol, error) {
	if volume < 0 {
		return nil, ErrNegativeVolume
	}
	return s.updateField(username, alcoholID, "volume", volume)
}

// UpdateRating rejects out-of-range values instead of clamping them.
func (s *UserAlcoholService) UpdateRating(username string, alcoholID uuid.UUID, rating int) (*models.UserAlcohol, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrRatingOutOfRange
	}
	return s.updateField(username, alcoholID, "rating", rating)
}

func (s *UserAlcoholService) updateField(username string, alcoholID uuid.UUID, column string, value int) (*models.UserAlcohol, error) {
	user, err := s.findUser(s.DB, username)
	if err != nil {
		return nil, err
	}

	result := s.DB.Model(&models.UserAlcohol{}).
		Where("user_id = ? AND alcohol_id = ?", user.ID, alcoholID).
		Update(column, value)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAssociationNotFound
	}

	var row models.UserAlcohol
	if err := s.DB.Preload("Alcohol").First(&row, "user_id = ? AND alcohol_id = ?", user.ID, alcoholID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *UserAlcoholService) Delete(username string, alcoholID uuid.UUID) (*models.UserAlcohol, error) {
	user, err := s.findUser(s.DB, username)
	if err != nil {
		return nil, err
	}

	var row models.UserAlcohol
	if err := s.DB.Preload("Alcohol").First(&row, "user_id = ? AND alcohol_id = ?", user.ID, alcoholID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssociationNotFound
		}
		return nil, err
	}

	if err := s.DB.Delete(&models.UserAlcohol{}, "user_id = ? AND alcohol_id = ?", user.ID, alcoholID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *UserAlcoholService) ListByUser(username string) ([]models.UserAlcohol, error) {
	user, err := s.findUser(s.DB, username)
	if err != nil {
		return nil, err
	}

	var rows []models.UserAlcohol
	if err := s.DB.Preload("Alcohol").Where("user_id = ?", user.ID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
