package services

import (
	"errors"

	"github.com/alcostack/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyAlcoholService tracks aggregate volume and rank of an alcohol within
// one party.
type PartyAlcoholService struct {
	DB *gorm.DB
}

func NewPartyAlcoholService(db *gorm.DB) *PartyAlcoholService {
	return &PartyAlcoholService{DB: db}
}

func (s *PartyAlcoholService) Add(partyID, alcoholID uuid.UUID) (*models.PartyAlcohol, error) {
	var party models.Party
	if err := s.DB.First(&party, "id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}

	var alcohol models.Alcohol
	if err := s.DB.First(&alcohol, "id = ?", alcoholID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlcoholNotFound
		}
		return nil, err
	}

	var existing models.PartyAlcohol
	err := s.DB.First(&existing, "party_id = ? AND alcohol_id = ?", partyID, alcoholID).Error
	if err == nil {
		return nil, ErrAssociationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := models.PartyAlcohol{PartyID: partyID, AlcoholID: alcoholID}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	row.Alcohol = alcohol
	return &row, nil
}

func (s *PartyAlcoholService) UpdateVolume(partyID, alcoholID uuid.UUID, volume int) (*models.PartyAlcohol, error) {
	if volume < 0 {
		return nil, ErrNegativeVolume
	}
	return s.updateField(partyID, alcoholID, "volume", volume)
}

func (s *PartyAlcoholService) UpdateRank(partyID, alcoholID uuid.UUID, rank int) (*models.PartyAlcohol, error) {
	return s.updateField(partyID, alcoholID, "rank", rank)
}

func (s *PartyAlcoholService) updateField(partyID, alcoholID uuid.UUID, column string, value int) (*models.PartyAlcohol, error) {
	result := s.DB.Model(&models.PartyAlcohol{}).
		Where("party_id = ? AND alcohol_id = ?", partyID, alcoholID).
		Update(column, value)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAssociationNotFound
	}

	var row models.PartyAlcohol
	if err := s.DB.Preload("Alcohol").First(&row, "party_id = ? AND alcohol_id = ?", partyID, alcoholID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *PartyAlcoholService) ListByParty(partyID uuid.UUID) ([]models.PartyAlcohol, error) {
	var party models.Party
	if err := s.DB.First(&party, "id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}

	var rows []models.PartyAlcohol
	if err := s.DB.Preload("Alcohol").Where("party_id = ?", partyID).Order("rank ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PartyAlcoholService) Delete(partyID, alcoholID uuid.UUID) (*models.PartyAlcohol, error) {
	var row models.PartyAlcohol
	if err := s.DB.Preload("Alcohol").First(&row, "party_id = ? AND alcohol_id = ?", partyID, alcoholID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssociationNotFound
		}
		return nil, err
	}

	if err := s.DB.Delete(&models.PartyAlcohol{}, "party_id = ? AND alcohol_id = ?", partyID, alcoholID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
